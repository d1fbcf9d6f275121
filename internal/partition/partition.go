package partition

import (
	"context"
	"math"
	"slices"
)

type backtrackingSolver struct {
	maxSteps     int64
	localPruning bool
}

// Option configures the solver returned by New.
type Option func(*backtrackingSolver)

// WithMaxSteps bounds the number of search states visited before giving up
// with ErrStepLimitExceeded. Zero or a negative value means unlimited.
func WithMaxSteps(steps int64) Option {
	return func(s *backtrackingSolver) {
		if steps < 0 {
			steps = 0
		}
		s.maxSteps = steps
	}
}

// WithLocalPruning makes an exceeded complement budget abandon only the
// current branch instead of the whole search. The search then explores more
// states but never misses a split of non-negative values.
func WithLocalPruning(enabled bool) Option {
	return func(s *backtrackingSolver) {
		s.localPruning = enabled
	}
}

// New creates a Solver based on exhaustive backtracking.
func New(opts ...Option) Solver {
	s := &backtrackingSolver{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindEqualPartition splits values into two sublists with equal sums.
// It reports false when no such split exists.
func FindEqualPartition(values []int64) (Partition, bool) {
	p, err := New().Solve(context.Background(), values)
	if err != nil {
		return Partition{}, false
	}
	return p, true
}

func (s *backtrackingSolver) Solve(ctx context.Context, values []int64) (Partition, error) {
	p, _, err := s.SolveWithStats(ctx, values)
	return p, err
}

func (s *backtrackingSolver) SolveWithStats(ctx context.Context, values []int64) (Partition, SolveStats, error) {
	if len(values) == 0 {
		return Partition{}, SolveStats{}, ErrNoPartition
	}
	if err := ctx.Err(); err != nil {
		return Partition{}, SolveStats{}, err
	}

	total := sum(values)
	// Go's remainder keeps the sign of the dividend, so test for any non-zero result.
	if total%2 != 0 {
		return Partition{}, SolveStats{}, ErrNoPartition
	}

	sorted := CanonicalKey(values)
	half := total / 2

	sr := newSearcher(ctx, sorted, half, s.maxSteps)
	sr.localPruning = s.localPruning
	subset, outcome := sr.search(half)
	stats := SolveStats{Steps: sr.steps}

	switch outcome {
	case outcomeFound:
		return BuildPartition(sorted, subset), stats, nil
	case outcomeAborted:
		if sr.err != nil {
			return Partition{}, stats, sr.err
		}
	}
	return Partition{}, stats, ErrNoPartition
}

// CanonicalKey returns a descending-sorted copy of values. Two collections
// holding the same multiset share the same key, and the solver produces the
// same partition for both.
func CanonicalKey(values []int64) []int64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	slices.Reverse(sorted)
	return sorted
}

// CheckSum returns ErrSumOverflow unless the magnitudes of values add up
// within int64. Every sum, difference and complement the solver or Verify
// computes over values is bounded by that total.
func CheckSum(values []int64) error {
	var total int64
	for _, v := range values {
		if v == math.MinInt64 {
			return ErrSumOverflow
		}
		if v < 0 {
			v = -v
		}
		if total > math.MaxInt64-v {
			return ErrSumOverflow
		}
		total += v
	}
	return nil
}

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
