// Package metrics records solver activity. The Prometheus implementation
// exposes counters and histograms; Nop discards everything.
package metrics

import "time"

// Solve outcomes used as label values.
const (
	OutcomeFound         = "found"
	OutcomeNoPartition   = "no_partition"
	OutcomeLimitExceeded = "limit_exceeded"
	OutcomeCancelled     = "cancelled"
)

// Recorder receives solver and cache observations.
type Recorder interface {
	ObserveSolve(outcome string, size int, steps int64, duration time.Duration)
	ObserveCacheLookup(hit bool)
}

// Nop implements Recorder by discarding every observation.
type Nop struct{}

var _ Recorder = Nop{}

// ObserveSolve discards the solve observation.
func (Nop) ObserveSolve(string, int, int64, time.Duration) {}

// ObserveCacheLookup discards the cache lookup.
func (Nop) ObserveCacheLookup(bool) {}
