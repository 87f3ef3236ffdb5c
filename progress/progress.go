// Package progress computes the composite confidence and completion
// metrics shown to a caller deciding whether ranking has gone far enough.
package progress

import "math"

// Report is the full set of progress metrics for one dimension.
type Report struct {
	DirectCoverage      float64
	TransitiveCoverage  float64
	BayesianConfidence  float64
	Consistency         float64
	EffectiveConfidence float64

	TheoreticalMinimum   int
	PracticalEstimate    int
	ComparisonsRemaining int
}

// Compute derives a Report from the raw counts the core tracks: n items,
// uniquePairsCompared direct judgments made (deduplicated by pair),
// knownPairs = |K| (direct + transitive), cycleCount, avgSigma (arithmetic
// mean of item sigmas), uncertainCount = U, and targetCertainty tau used
// for the practical-estimate coverage factor.
func Compute(n, uniquePairsCompared, knownPairs, cycleCount, uncertainCount int, avgSigma, targetCertainty float64) Report {
	total := totalPossiblePairs(n)

	var directCoverage, transitiveCoverage float64
	if total > 0 {
		directCoverage = float64(uniquePairsCompared) / float64(total)
		transitiveCoverage = float64(knownPairs) / float64(total)
	}

	bayesianConf := clamp01(1 - avgSigma)

	denom := uniquePairsCompared
	if denom < 1 {
		denom = 1
	}
	consistency := math.Max(0.5, 1-float64(cycleCount)/float64(denom))

	effective := effectiveConfidence(transitiveCoverage, consistency, bayesianConf)

	return Report{
		DirectCoverage:       directCoverage,
		TransitiveCoverage:   transitiveCoverage,
		BayesianConfidence:   bayesianConf,
		Consistency:          consistency,
		EffectiveConfidence:  effective,
		TheoreticalMinimum:   theoreticalMinimum(n),
		PracticalEstimate:    practicalEstimate(n, targetCertainty),
		ComparisonsRemaining: int(math.Ceil(float64(uncertainCount) / 2)),
	}
}

func effectiveConfidence(transitiveCoverage, consistency, bayesianConf float64) float64 {
	switch {
	case transitiveCoverage == 1 && consistency == 1:
		return 1
	case transitiveCoverage == 1:
		return math.Min(0.95, consistency)
	default:
		return math.Min(1, transitiveCoverage+0.05*bayesianConf) * consistency
	}
}

func totalPossiblePairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// theoreticalMinimum returns ceil(log2(n!)), the information-theoretic
// lower bound on comparisons needed to fully sort n items, computed as the
// exact sum log2(2)+...+log2(n) for n <= 20 and via Stirling's
// approximation above that.
func theoreticalMinimum(n int) int {
	if n < 2 {
		return 0
	}
	if n <= 20 {
		logFactorial := 0.0
		for i := 2; i <= n; i++ {
			logFactorial += math.Log2(float64(i))
		}
		return int(math.Ceil(logFactorial))
	}
	nf := float64(n)
	stirling := nf*math.Log2(nf) - nf*math.Log2E + 0.5*math.Log2(2*math.Pi*nf)
	return int(math.Ceil(stirling))
}

// practicalEstimate returns a rough comparison-count target that accounts
// for the active-learning selector doing better than a naive exhaustive
// sort but still needing a margin above the information-theoretic floor.
// coverageFactor grows with the caller's target certainty: a higher bar
// needs proportionally more comparisons.
func practicalEstimate(n int, targetCertainty float64) int {
	if n < 2 {
		return 0
	}
	coverageFactor := 0.5 + 0.3*targetCertainty
	nf := float64(n)
	return int(math.Round(coverageFactor * nf * math.Log2(nf)))
}

// Estimates returns, for n items, a rough count of comparisons needed to
// reach each of several common confidence bands. These are coarse
// placeholders for UI display, not derived from the Bayesian model itself:
// a fraction of the n*(n-1) ordered-pair space, growing with the target
// band.
func Estimates(n int) map[string]int {
	total := n * (n - 1)
	return map[string]int{
		"70_percent": total / 4,
		"80_percent": total / 3,
		"90_percent": total / 2,
		"95_percent": total * 3 / 4,
	}
}
