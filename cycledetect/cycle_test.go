package cycledetect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/prefgraph"
)

func jAt(a, b string, outcome judgment.Outcome, t time.Time) judgment.Judgment {
	return judgment.Judgment{ID: a + b, Dimension: judgment.Complexity, ItemA: a, ItemB: b, Outcome: outcome, CreatedAt: t}
}

func TestDetectAll_NoCyclesOnAcyclicGraph(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "c", judgment.AWins, now.Add(time.Second)),
	}
	v := prefgraph.Build([]string{"a", "b", "c"}, js)

	cycles := DetectAll(v)
	assert.Empty(t, cycles)
}

func TestDetectAll_ThreeCycle(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "c", judgment.AWins, now.Add(time.Second)),
		jAt("c", "a", judgment.AWins, now.Add(2*time.Second)),
	}
	v := prefgraph.Build([]string{"a", "b", "c"}, js)

	cycles := DetectAll(v)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycles[0].Members)
}

func TestDetectAll_CanonicalizesRotation(t *testing.T) {
	now := time.Unix(0, 0)
	// b -> c -> a -> b is the same cycle as a -> b -> c -> a, just started
	// from a different vertex: canonicalization should merge them.
	js := []judgment.Judgment{
		jAt("b", "c", judgment.AWins, now),
		jAt("c", "a", judgment.AWins, now.Add(time.Second)),
		jAt("a", "b", judgment.AWins, now.Add(2*time.Second)),
	}
	v := prefgraph.Build([]string{"a", "b", "c"}, js)

	cycles := DetectAll(v)
	require.Len(t, cycles, 1)
	assert.Equal(t, "a", cycles[0].Members[0])
}

func TestRecordCycle_OppositeDirectedCyclesAreNotMerged(t *testing.T) {
	// a->b->c->a and a->c->b->a traverse the same vertex set in opposite
	// orders. One depth-first search never closes both (each vertex sits at
	// a single depth on the path), so both orientations, plus a rotation of
	// the second, are fed to recordCycle, the step that canonicalizes and
	// deduplicates: the rotation merges, the reversal does not.
	seen := make(map[string]struct{})
	var cycles []Cycle
	recordCycle([]string{"a", "b", "c"}, "a", seen, &cycles)
	recordCycle([]string{"a", "c", "b"}, "a", seen, &cycles)
	recordCycle([]string{"c", "b", "a"}, "c", seen, &cycles)

	var members [][]string
	for _, c := range cycles {
		if len(c.Members) == 4 {
			members = append(members, c.Members)
		}
	}
	assert.ElementsMatch(t, [][]string{{"a", "b", "c", "a"}, {"a", "c", "b", "a"}}, members)
}

func TestComputeStats_MixedCyclicAndAcyclicEdges(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "c", judgment.AWins, now.Add(time.Second)),
		jAt("c", "a", judgment.AWins, now.Add(2*time.Second)),
		jAt("x", "y", judgment.AWins, now.Add(3*time.Second)), // not in any cycle
	}
	v := prefgraph.Build([]string{"a", "b", "c", "x", "y"}, js)
	cycles := DetectAll(v)

	stats := ComputeStats(js, cycles)
	assert.Equal(t, 1, stats.CycleCount)
	assert.Equal(t, 3, stats.ComparisonsInCycles)
	assert.InDelta(t, 75.0, stats.InconsistencyPercentage, 1e-9)
}

func TestResolve_NoCyclesReturnsError(t *testing.T) {
	_, err := Resolve(nil, func(string) float64 { return 1.0 })
	assert.ErrorIs(t, err, ErrNoCycles)
}

func TestResolve_PicksMaxCombinedSigma(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		jAt("a", "b", judgment.AWins, now),
		jAt("b", "c", judgment.AWins, now.Add(time.Second)),
		jAt("c", "a", judgment.AWins, now.Add(2*time.Second)),
	}
	v := prefgraph.Build([]string{"a", "b", "c"}, js)
	cycles := DetectAll(v)

	sigma := map[string]float64{"a": 0.1, "b": 0.9, "c": 0.2}
	res, err := Resolve(cycles, func(item string) float64 { return sigma[item] })
	require.NoError(t, err)

	// b's edges (a->b and b->c) both involve b's high sigma=0.9; the winning
	// edge must be one of those two, not c->a (0.2+0.1=0.3).
	assert.True(t, res.Winner == "b" || res.Loser == "b")
}
