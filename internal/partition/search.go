package partition

import "context"

// ctxCheckInterval is how many search steps pass between context checks.
const ctxCheckInterval = 1024

type searchOutcome int

const (
	outcomeNotFound searchOutcome = iota
	outcomeFound
	// outcomeAborted stops the whole search, not just the current branch.
	outcomeAborted
)

// searcher looks for a sub-multiset of values summing to a required amount.
//
// Each level of the recursion sees the collection minus the values already
// included above it. Instead of cloning the remaining collection per branch,
// the searcher marks included positions in removed and restores them on the
// way back up, which visits positions in the same left-to-right order.
type searcher struct {
	ctx      context.Context
	values   []int64
	removed  []bool
	budget   int64
	maxSteps int64

	localPruning bool

	steps int64
	err   error
}

func newSearcher(ctx context.Context, values []int64, budget, maxSteps int64) *searcher {
	return &searcher{
		ctx:      ctx,
		values:   values,
		removed:  make([]bool, len(values)),
		budget:   budget,
		maxSteps: maxSteps,
	}
}

// search returns the values it included, deepest inclusion first.
// The complement sum tracks values rejected at this level; once it exceeds
// the budget the remaining pool cannot reach the target and the search is
// abandoned entirely, or only this branch when localPruning is set.
func (s *searcher) search(required int64) ([]int64, searchOutcome) {
	if required == 0 {
		return make([]int64, 0, len(s.values)), outcomeFound
	}
	if !s.step() {
		return nil, outcomeAborted
	}

	var complement int64
	for i, v := range s.values {
		if s.removed[i] {
			continue
		}

		outcome := outcomeNotFound
		var subset []int64
		if v <= required {
			s.removed[i] = true
			subset, outcome = s.search(required - v)
			s.removed[i] = false
		}

		switch outcome {
		case outcomeFound:
			return append(subset, v), outcomeFound
		case outcomeAborted:
			return nil, outcomeAborted
		}

		complement += v
		if complement > s.budget {
			if s.localPruning {
				return nil, outcomeNotFound
			}
			return nil, outcomeAborted
		}
	}

	return nil, outcomeNotFound
}

// step accounts for one search state and reports whether the search may continue.
func (s *searcher) step() bool {
	s.steps++
	if s.maxSteps > 0 && s.steps > s.maxSteps {
		s.err = ErrStepLimitExceeded
		return false
	}
	if s.steps%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return false
		}
	}
	return true
}
