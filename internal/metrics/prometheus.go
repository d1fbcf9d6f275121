package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultNamespace = "equipartition"

// Prometheus implements Recorder backed by Prometheus collectors.
type Prometheus struct {
	solves        *prometheus.CounterVec
	solveDuration prometheus.Histogram
	solveSteps    prometheus.Histogram
	inputSize     prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them on reg.
// A nil reg selects prometheus.DefaultRegisterer and an empty namespace
// selects "equipartition".
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}

	p := &Prometheus{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "solves_total",
			Help:      "Total partition searches by outcome.",
		}, []string{"outcome"}),
		solveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent searching for a partition.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		}),
		solveSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "solve_steps",
			Help:      "Search states visited per partition search.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 9),
		}),
		inputSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "partition",
			Name:      "input_size",
			Help:      "Number of values per partition request.",
			Buckets:   prometheus.LinearBuckets(0, 8, 9),
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Result cache lookups by result (hit, miss).",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{p.solves, p.solveDuration, p.solveSteps, p.inputSize, p.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ObserveSolve records one partition search.
func (p *Prometheus) ObserveSolve(outcome string, size int, steps int64, duration time.Duration) {
	p.solves.WithLabelValues(outcome).Inc()
	p.solveDuration.Observe(duration.Seconds())
	p.solveSteps.Observe(float64(steps))
	p.inputSize.Observe(float64(size))
}

// ObserveCacheLookup records a cache hit or miss.
func (p *Prometheus) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}
