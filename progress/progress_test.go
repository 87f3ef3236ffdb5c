package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_FullyKnownAndConsistentIsOne(t *testing.T) {
	// n=3, 3 possible pairs, all known, no cycles.
	r := Compute(3, 3, 3, 0, 0, 0.1, 0.9)
	assert.Equal(t, 1.0, r.TransitiveCoverage)
	assert.Equal(t, 1.0, r.Consistency)
	assert.Equal(t, 1.0, r.EffectiveConfidence)
}

func TestCompute_FullyKnownButInconsistentCapsAt095(t *testing.T) {
	// Fully covered transitively, but a cycle caps consistency below 1.
	r := Compute(3, 3, 3, 1, 0, 0.1, 0.9)
	assert.Equal(t, 1.0, r.TransitiveCoverage)
	assert.Less(t, r.Consistency, 1.0)
	assert.LessOrEqual(t, r.EffectiveConfidence, 0.95)
}

func TestCompute_PartialCoverageUsesThirdBranch(t *testing.T) {
	r := Compute(10, 5, 5, 0, 40, 0.5, 0.9)
	assert.Less(t, r.TransitiveCoverage, 1.0)
	expected := minFloat(1, r.TransitiveCoverage+0.05*r.BayesianConfidence) * r.Consistency
	assert.InDelta(t, expected, r.EffectiveConfidence, 1e-9)
}

func TestCompute_ConsistencyNeverBelowHalf(t *testing.T) {
	// Pathological: cycle_count >> unique_pairs_compared.
	r := Compute(5, 2, 2, 100, 8, 0.5, 0.9)
	assert.Equal(t, 0.5, r.Consistency)
}

func TestCompute_BayesianConfidenceClamped(t *testing.T) {
	r := Compute(3, 1, 1, 0, 1, 2.0, 0.9) // avg_sigma > 1 would go negative without clamp
	assert.Equal(t, 0.0, r.BayesianConfidence)

	r2 := Compute(3, 1, 1, 0, 1, -1.0, 0.9) // avg_sigma < 0 would exceed 1 without clamp
	assert.Equal(t, 1.0, r2.BayesianConfidence)
}

func TestTheoreticalMinimum_ExactForSmallN(t *testing.T) {
	// log2(3!) = log2(6) ~ 2.585, ceil = 3.
	assert.Equal(t, 3, theoreticalMinimum(3))
	assert.Equal(t, 0, theoreticalMinimum(1))
}

func TestTheoreticalMinimum_StirlingAboveTwenty(t *testing.T) {
	got := theoreticalMinimum(21)
	assert.Greater(t, got, 0)
	// Must stay in the right ballpark of n*log2(n).
	assert.Less(t, got, 21*5)
}

func TestComparisonsRemaining_RoundsUp(t *testing.T) {
	r := Compute(10, 0, 0, 0, 7, 1.0, 0.9)
	assert.Equal(t, 4, r.ComparisonsRemaining) // ceil(7/2) = 4
}

func TestEstimates_OrdersByConfidenceBand(t *testing.T) {
	e := Estimates(20)
	assert.Less(t, e["70_percent"], e["80_percent"])
	assert.Less(t, e["80_percent"], e["90_percent"])
	assert.Less(t, e["90_percent"], e["95_percent"])
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
