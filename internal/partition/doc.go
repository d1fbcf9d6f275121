// Package partition splits a multiset of integers into two sublists with
// equal sums using exhaustive backtracking bounded by a complement budget.
// Duplicate values are preserved: the result always holds every input value
// exactly as many times as the input does.
package partition
