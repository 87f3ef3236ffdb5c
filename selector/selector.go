// Package selector decides which pair of items the engine should present
// for judgment next, or whether ranking is already complete.
package selector

import (
	"math"

	"github.com/katalvlaran/prefrank/cycledetect"
	"github.com/katalvlaran/prefrank/posterior"
	"github.com/katalvlaran/prefrank/prefgraph"
)

// closenessScale is c in exp(-(mu_a-mu_b)^2 / (2*c^2)): how far apart two
// means can be before closeness stops favoring the pair.
const closenessScale = 2.0

const (
	bonusExactlyOneJudged = 1.2
	bonusBothJudged       = 1.1
	bonusNeitherJudged    = 1.0
)

// Reason explains why Select returned the pair (or completion) it did.
type Reason string

const (
	ReasonComplete       Reason = "complete"
	ReasonCycle          Reason = "cycle"
	ReasonActiveLearning Reason = "active_learning"
)

// Result is the outcome of one Select call.
type Result struct {
	Done   bool
	Reason Reason
	ItemA  string
	ItemB  string
	// Cycle is set when Reason == ReasonCycle: the cycle the weakest-link
	// pair was drawn from, for display context.
	Cycle *cycledetect.Cycle
}

// PosteriorLookup returns an item's current posterior for the dimension
// being selected on.
type PosteriorLookup func(item string) posterior.Posterior

// Select runs the three-mode decision in order: terminal, cycle
// resolution, active-learning. targetCertainty, if non-nil, lets the
// caller accept "complete" once transitive_coverage reaches it even with
// U > 0 and no cycles.
func Select(v *prefgraph.View, closure *prefgraph.Closure, cycles []cycledetect.Cycle, lookup PosteriorLookup, targetCertainty *float64) Result {
	if closure.UncertainCount() == 0 && len(cycles) == 0 {
		return Result{Done: true, Reason: ReasonComplete}
	}

	if len(cycles) > 0 {
		sigma := func(item string) float64 { return lookup(item).Sigma }
		res, err := cycledetect.Resolve(cycles, sigma)
		if err == nil {
			return Result{Reason: ReasonCycle, ItemA: res.Winner, ItemB: res.Loser, Cycle: &res.Cycle}
		}
	}

	if targetCertainty != nil && len(cycles) == 0 {
		total := closure.TotalPossiblePairs()
		if total > 0 {
			coverage := float64(closure.KnownPairCount()) / float64(total)
			if coverage >= *targetCertainty {
				return Result{Done: true, Reason: ReasonComplete}
			}
		}
	}

	pairs := closure.UnknownPairs()
	if len(pairs) == 0 {
		return Result{Done: true, Reason: ReasonComplete}
	}

	bestScore := -1.0
	best := pairs[0]
	for _, pair := range pairs {
		score := pairScore(v, lookup, pair[0], pair[1])
		if score > bestScore {
			bestScore = score
			best = pair
		}
	}

	return Result{Reason: ReasonActiveLearning, ItemA: best[0], ItemB: best[1]}
}

func pairScore(v *prefgraph.View, lookup PosteriorLookup, a, b string) float64 {
	pa := lookup(a)
	pb := lookup(b)

	uncertainty := pa.Sigma + pb.Sigma
	diff := pa.Mu - pb.Mu
	closeness := math.Exp(-(diff * diff) / (2 * closenessScale * closenessScale))
	learningScore := uncertainty * closeness

	return learningScore * connectivityBonus(v, a, b)
}

func connectivityBonus(v *prefgraph.View, a, b string) float64 {
	aJudged := v.HasAnyJudgment(a)
	bJudged := v.HasAnyJudgment(b)
	switch {
	case aJudged != bJudged:
		return bonusExactlyOneJudged
	case aJudged && bJudged:
		return bonusBothJudged
	default:
		return bonusNeitherJudged
	}
}
