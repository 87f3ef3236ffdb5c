// Package replay rebuilds a dimension's posteriors from scratch after a
// judgment is soft-deleted or undone, so the model reflects exactly the
// surviving judgment history and nothing the removed record ever
// contributed.
package replay

import (
	"github.com/katalvlaran/prefrank/btupdate"
	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
)

// Run resets every item in items to posterior.Default for dim, then
// replays every non-deleted judgment in judgments (which must already be
// sorted ascending by CreatedAt) through the Bradley-Terry updater in
// order, using lambda and varianceFloor as the update's configured
// parameters. Returns the recomputed average sigma across items (the
// project aggregate). Deterministic and idempotent: running it twice
// against the same store and judgment slice leaves posteriors unchanged
// the second time.
func Run(store posterior.Store, projectID string, dim judgment.Dimension, items []string, judgments []judgment.Judgment, lambda, varianceFloor float64) (float64, error) {
	if err := store.Reset(projectID, string(dim), items); err != nil {
		return 0, err
	}

	for _, j := range judgments {
		if j.Deleted {
			continue
		}
		winner, loser, ok := j.WinnerLoser()
		if !ok {
			// Ties still move the model: both items are updated toward y=0.5.
			winner, loser = j.ItemA, j.ItemB
		}

		pWinner, err := store.Get(projectID, winner, string(dim))
		if err != nil {
			return 0, err
		}
		pLoser, err := store.Get(projectID, loser, string(dim))
		if err != nil {
			return 0, err
		}

		newWinner, newLoser := btupdate.StepWithParams(pWinner, pLoser, outcomeFor(j, winner), j.Strength, lambda, varianceFloor)

		if err := store.Set(projectID, winner, string(dim), newWinner); err != nil {
			return 0, err
		}
		if err := store.Set(projectID, loser, string(dim), newLoser); err != nil {
			return 0, err
		}
	}

	return store.AvgSigma(projectID, string(dim), items)
}

// outcomeFor returns the Outcome to feed btupdate.Step with "first"
// playing the role of A in j's original ItemA/ItemB ordering. Ties are
// symmetric (Target() == 0.5 either way) so orientation never matters for
// them; wins/losses must still be re-expressed relative to which of
// winner/loser is passed as the "A" slot in Step.
func outcomeFor(j judgment.Judgment, first string) judgment.Outcome {
	if j.Outcome == judgment.Tie {
		return judgment.Tie
	}
	if first == j.ItemA {
		return j.Outcome
	}
	if j.Outcome == judgment.AWins {
		return judgment.BWins
	}
	return judgment.AWins
}
