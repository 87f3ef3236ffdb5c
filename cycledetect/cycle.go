// Package cycledetect enumerates cycles in a dimension's direct preference
// graph and identifies the weakest link to break them.
//
// A cycle here (a beats b, b beats c, c beats a) is logically impossible
// under a strict preference order: it means the judgment history
// contradicts itself somewhere along that loop. Detection uses the same
// three-color depth-first search as most cycle finders, but stays strictly
// directed: a cycle and its reverse traversal are two different findings,
// never merged, because the edges involved actually point in opposite
// directions.
package cycledetect

import (
	"sort"
	"strings"

	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/prefgraph"
)

const (
	white = iota
	gray
	black
)

// Cycle is one enumerated directed cycle, stored closed: Members[0] ==
// Members[len(Members)-1]. Members[0] is always the cycle's
// lexicographically smallest vertex (the rotation that canonicalizes it).
type Cycle struct {
	Members []string
}

// Edges returns the consecutive (winner, loser) pairs that make up the
// cycle.
func (c Cycle) Edges() [][2]string {
	if len(c.Members) < 2 {
		return nil
	}
	out := make([][2]string, 0, len(c.Members)-1)
	for i := 0; i < len(c.Members)-1; i++ {
		out = append(out, [2]string{c.Members[i], c.Members[i+1]})
	}
	return out
}

// DetectAll reports the distinct cycles closed by a back edge of one
// depth-first search over v's direct relation. Every reported cycle is a
// real directed cycle, but not every simple cycle is reported: a vertex is
// expanded only once, so a cycle whose vertices were finished along another
// branch (for example the 3-cycle formed by a chord of a 4-cycle) is not
// found. Callers use the result only for inconsistency statistics and
// weakest-link selection, never as a complete or minimum cycle basis.
func DetectAll(v *prefgraph.View) []Cycle {
	items := append([]string(nil), v.Items()...)
	sort.Strings(items)

	state := make(map[string]int, len(items))
	var path []string
	seen := make(map[string]struct{})
	var cycles []Cycle

	for _, start := range items {
		if state[start] == white {
			visit(v, start, state, &path, seen, &cycles)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return joinSig(cycles[i].Members) < joinSig(cycles[j].Members)
	})
	return cycles
}

func visit(v *prefgraph.View, id string, state map[string]int, path *[]string, seen map[string]struct{}, cycles *[]Cycle) {
	state[id] = gray
	*path = append(*path, id)

	for _, nbr := range v.Neighbors(id) {
		switch state[nbr] {
		case white:
			visit(v, nbr, state, path, seen, cycles)
		case gray:
			recordCycle(*path, nbr, seen, cycles)
		}
	}

	*path = (*path)[:len(*path)-1]
	state[id] = black
}

// recordCycle extracts the cycle running from nbr's first occurrence in
// path to the current tip, canonicalizes it by rotating to its
// lexicographically smallest vertex, and appends it if not already seen.
// Unlike an undirected-graph cycle finder, the reverse traversal of this
// same loop is a genuinely different cycle (its edges point the other way)
// and is deliberately left undeduplicated.
func recordCycle(path []string, nbr string, seen map[string]struct{}, cycles *[]Cycle) {
	idx := indexOf(path, nbr)
	if idx < 0 {
		return
	}
	base := append([]string(nil), path[idx:]...)
	if len(base) < 2 {
		return // self-loop: never produced by this domain's winner/loser edges
	}

	rotated := minimalRotation(base)
	closed := append(append([]string(nil), rotated...), rotated[0])
	sig := joinSig(closed)
	if _, dup := seen[sig]; dup {
		return
	}
	seen[sig] = struct{}{}
	*cycles = append(*cycles, Cycle{Members: closed})
}

// Stats summarizes how much of a dimension's judgment history is tangled
// in cycles.
type Stats struct {
	CycleCount              int
	ComparisonsInCycles     int
	InconsistencyPercentage float64
}

// ComputeStats counts, among judgments (all non-deleted judgments recorded
// for the dimension, including ties), how many contribute a winner->loser
// edge that appears in at least one of cycles.
func ComputeStats(judgments []judgment.Judgment, cycles []Cycle) Stats {
	edgeSet := make(map[[2]string]struct{})
	for _, c := range cycles {
		for _, e := range c.Edges() {
			edgeSet[e] = struct{}{}
		}
	}

	total, inCycles := 0, 0
	for _, j := range judgments {
		if j.Deleted {
			continue
		}
		total++
		winner, loser, ok := j.WinnerLoser()
		if !ok {
			continue
		}
		if _, in := edgeSet[[2]string{winner, loser}]; in {
			inCycles++
		}
	}

	pct := 0.0
	if total > 0 {
		pct = 100 * float64(inCycles) / float64(total)
	}
	return Stats{CycleCount: len(cycles), ComparisonsInCycles: inCycles, InconsistencyPercentage: pct}
}

// Resolution is the weakest link selected to break a contradiction, with
// the cycle it was drawn from for display context.
type Resolution struct {
	Winner string
	Loser  string
	Cycle  Cycle
}

// Resolve picks, across every edge occurring in any cycle, the one
// maximizing sigma(winner)+sigma(loser) — the pair the model is least sure
// about, and therefore the most useful one to re-ask. sigma looks up an
// item's current posterior standard deviation for the dimension in
// question. Returns ErrNoCycles if cycles is empty.
func Resolve(cycles []Cycle, sigma func(item string) float64) (Resolution, error) {
	if len(cycles) == 0 {
		return Resolution{}, ErrNoCycles
	}

	var best Resolution
	bestScore := -1.0
	found := false

	for _, c := range cycles {
		for _, e := range c.Edges() {
			score := sigma(e[0]) + sigma(e[1])
			if !found || score > bestScore || (score == bestScore && lessEdge(e, [2]string{best.Winner, best.Loser})) {
				found = true
				bestScore = score
				best = Resolution{Winner: e[0], Loser: e[1], Cycle: c}
			}
		}
	}

	return best, nil
}

func lessEdge(a, b [2]string) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

func indexOf(s []string, val string) int {
	for i, x := range s {
		if x == val {
			return i
		}
	}
	return -1
}

func joinSig(c []string) string {
	return strings.Join(c, ",")
}

// minimalRotation returns the lexicographically smallest rotation of s,
// via Booth's algorithm, in O(n) time.
func minimalRotation(s []string) []string {
	doubled := append(append([]string(nil), s...), s...)
	n := len(s)
	f := make([]int, 2*n)
	for i := range f {
		f[i] = -1
	}
	k := 0
	for j := 1; j < 2*n; j++ {
		i := f[j-k-1]
		for i != -1 && doubled[j] != doubled[k+i+1] {
			if doubled[j] < doubled[k+i+1] {
				k = j - i - 1
			}
			i = f[i]
		}
		if doubled[j] != doubled[k+i+1] {
			if doubled[j] < doubled[k] {
				k = j
			}
			f[j-k] = -1
		} else {
			f[j-k] = i + 1
		}
	}
	res := make([]string, n)
	for i := 0; i < n; i++ {
		res[i] = doubled[k+i]
	}
	return res
}
