package partition

import (
	"fmt"
	"slices"
)

// counts maps each value to the number of times it occurs.
type counts map[int64]int

func countOccurrences(values []int64) counts {
	c := make(counts, len(values))
	for _, v := range values {
		c[v]++
	}
	return c
}

// subtract removes other from c in place. Counts never drop below zero.
func (c counts) subtract(other counts) {
	for v, n := range other {
		c[v] = max(c[v]-n, 0)
	}
}

// expand flattens c back into a slice, following the order of values in order.
func (c counts) expand(order []int64) []int64 {
	out := make([]int64, 0, len(order))
	for _, v := range order {
		if c[v] > 0 {
			out = append(out, v)
			c[v]--
		}
	}
	return out
}

// BuildPartition splits collection into subset and everything that remains
// once subset is removed as a multiset. subset must be a sub-multiset of
// collection; duplicates are matched by count, not by position.
func BuildPartition(collection, subset []int64) Partition {
	remaining := countOccurrences(collection)
	remaining.subtract(countOccurrences(subset))

	return Partition{
		Left:  subset,
		Right: remaining.expand(collection),
	}
}

// Verify checks that p splits collection into two sublists with equal sums
// without dropping, duplicating, or inventing any value.
func Verify(collection []int64, p Partition) error {
	if left, right := p.LeftSum(), p.RightSum(); left != right {
		return fmt.Errorf("%w: left sums to %d, right sums to %d", ErrInvalidPartition, left, right)
	}

	want := slices.Clone(collection)
	slices.Sort(want)
	got := make([]int64, 0, len(p.Left)+len(p.Right))
	got = append(got, p.Left...)
	got = append(got, p.Right...)
	slices.Sort(got)

	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: sublists %v and %v do not make up %v", ErrInvalidPartition, p.Left, p.Right, collection)
	}
	return nil
}
