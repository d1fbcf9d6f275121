package partition

import "context"

// Partition is a split of a collection into two sublists with equal sums.
// Left holds the subset found by the search, Right holds everything else.
type Partition struct {
	Left  []int64 `json:"left" yaml:"left"`
	Right []int64 `json:"right" yaml:"right"`
}

// LeftSum returns the sum of the left sublist.
func (p Partition) LeftSum() int64 {
	return sum(p.Left)
}

// RightSum returns the sum of the right sublist.
func (p Partition) RightSum() int64 {
	return sum(p.Right)
}

// SolveStats describes the work performed by a single search.
type SolveStats struct {
	Steps int64
}

// Solver describes the behaviour required from an equal-sum partition solver.
type Solver interface {
	Solve(ctx context.Context, values []int64) (Partition, error)
	SolveWithStats(ctx context.Context, values []int64) (Partition, SolveStats, error)
}
