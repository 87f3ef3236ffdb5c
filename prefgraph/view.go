// Package prefgraph materializes the directed winner->loser graph implied
// by a dimension's judgment history, and computes its transitive closure.
//
// View holds no cross-references back into the judgment log and is never
// mutated or cached between calls: callers rebuild it fresh from whatever
// judgments are currently live, so a View is always an independent snapshot
// rather than a handle aliasing the source history.
package prefgraph

import (
	"sort"

	"github.com/katalvlaran/prefrank/judgment"
)

// View is the direct relation R: winner -> set of losers, built from every
// non-tie, non-deleted judgment in a dimension. Multi-edges collapse to set
// semantics; contradictory judgments (both A>B and B>A recorded) leave both
// edges present — the graph simply holds whatever edges the history
// implies, and it is the cycle detector's job to surface the resulting
// inconsistency.
type View struct {
	items     []string
	adj       map[string]map[string]struct{}
	connected map[string]struct{} // items that appear as a winner or loser in at least one edge
}

// Build constructs a View over item set items from judgments. items should
// include every item currently in scope, even ones with no judgments yet,
// so Items() and pair-enumeration callers see the full ambient set.
func Build(items []string, judgments []judgment.Judgment) *View {
	v := &View{
		items:     append([]string(nil), items...),
		adj:       make(map[string]map[string]struct{}, len(items)),
		connected: make(map[string]struct{}),
	}
	for _, it := range items {
		v.adj[it] = make(map[string]struct{})
	}
	for _, j := range judgments {
		if j.Deleted {
			continue
		}
		winner, loser, ok := j.WinnerLoser()
		if !ok {
			continue // TIE contributes no edge
		}
		if v.adj[winner] == nil {
			v.adj[winner] = make(map[string]struct{})
		}
		v.adj[winner][loser] = struct{}{}
		v.connected[winner] = struct{}{}
		v.connected[loser] = struct{}{}
	}
	return v
}

// Items returns the ambient item set the View was built over, in the order
// supplied to Build.
func (v *View) Items() []string { return v.items }

// Neighbors returns the items that item directly beats, sorted for
// deterministic iteration.
func (v *View) Neighbors(item string) []string {
	set := v.adj[item]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// HasDirectEdge reports whether winner beats loser directly (w,l) in R.
func (v *View) HasDirectEdge(winner, loser string) bool {
	_, ok := v.adj[winner][loser]
	return ok
}

// EdgeCount returns the number of distinct direct (winner, loser) edges.
func (v *View) EdgeCount() int {
	n := 0
	for _, losers := range v.adj {
		n += len(losers)
	}
	return n
}

// HasAnyJudgment reports whether item has participated, as winner or
// loser, in at least one direct edge.
func (v *View) HasAnyJudgment(item string) bool {
	_, ok := v.connected[item]
	return ok
}
