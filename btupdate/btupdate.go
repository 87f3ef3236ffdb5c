// Package btupdate implements the streaming Bayesian Bradley-Terry update
// step: a single pure function that moves two posteriors towards a judged
// outcome by moment matching against the logistic model.
//
// Step performs no I/O and never suspends — it is safe to call directly
// from any goroutine without synchronization of its own; callers own
// whatever locking the surrounding (project, dimension) context requires.
package btupdate

import (
	"math"

	"github.com/katalvlaran/prefrank/judgment"
	"github.com/katalvlaran/prefrank/posterior"
)

// Lambda is the logistic scale factor used to dampen the mean step by the
// predicted outcome variance. pi/8 is the standard choice for a logistic
// Bradley-Terry moment-matching update.
const Lambda = math.Pi / 8

// VarianceFloor is the minimum sigma^2 a posterior may reach. Without a
// floor, a long run of consistent judgments on one item would drive its
// variance to zero and make the model unable to revise its belief.
const VarianceFloor = 1e-2

// minVarianceTerm guards against division by a predicted-probability
// variance of exactly zero (mu_a - mu_b saturating the logistic curve).
const minVarianceTerm = 1e-10

// strengthWeight maps a graded level to the multiplier on the mean step.
// Binary-mode judgments (Strength == nil) always use 1.0, as do "normal"
// and "equal" grades; a "much better/worse" grade uses 1.6. The graded
// signal is encoded as a larger delta, not as a more certain observation,
// so variance reduction below does not depend on w.
func strengthWeight(level *judgment.GradeLevel) float64 {
	if level == nil {
		return 1.0
	}
	switch *level {
	case judgment.AMuch, judgment.BMuch:
		return 1.6
	default:
		return 1.0
	}
}

// PredictWinProbability returns p_hat = sigma(mu_a - mu_b), the logistic
// model's predicted probability that A beats B, clamped so that extreme
// differences saturate to exactly 0 or 1 instead of overflowing.
func PredictWinProbability(a, b posterior.Posterior) float64 {
	diff := a.Mu - b.Mu
	switch {
	case diff > 40:
		return 1.0
	case diff < -40:
		return 0.0
	default:
		return 1.0 / (1.0 + math.Exp(-diff))
	}
}

// Step applies one Bayesian Bradley-Terry update using the package default
// logistic scale and variance floor (Lambda, VarianceFloor). Equivalent to
// StepWithParams(a, b, outcome, strength, Lambda, VarianceFloor).
func Step(a, b posterior.Posterior, outcome judgment.Outcome, strength *judgment.GradeLevel) (posterior.Posterior, posterior.Posterior) {
	return StepWithParams(a, b, outcome, strength, Lambda, VarianceFloor)
}

// StepWithParams applies one Bayesian Bradley-Terry update to a pair of
// posteriors given a judged outcome, producing the updated pair. strength
// weights the mean step only (pass nil for binary-mode judgments); lambda
// and varianceFloor let a caller apply its own configured values instead
// of the package defaults.
//
// Algorithm:
//  1. y in {0, 0.5, 1} from outcome.
//  2. p_hat = sigma(mu_a - mu_b), clamped against overflow.
//  3. delta = y - p_hat; v = max(p_hat*(1-p_hat), 1e-10); D = sqrt(1+lambda*v).
//  4. mu_a' = mu_a + w*sigma_a^2*delta/D; mu_b' = mu_b - w*sigma_b^2*delta/D.
//  5. sigma_a'^2 = max(sigma_a^2*(1 - sigma_a^2*v/(1+lambda*v)), kappa); symmetric for b.
func StepWithParams(a, b posterior.Posterior, outcome judgment.Outcome, strength *judgment.GradeLevel, lambda, varianceFloor float64) (posterior.Posterior, posterior.Posterior) {
	y := outcome.Target()
	pHat := PredictWinProbability(a, b)
	delta := y - pHat

	v := pHat * (1 - pHat)
	if v < minVarianceTerm {
		v = minVarianceTerm
	}
	d := math.Sqrt(1 + lambda*v)

	w := strengthWeight(strength)

	sigmaA2 := a.Sigma * a.Sigma
	sigmaB2 := b.Sigma * b.Sigma

	newMuA := a.Mu + w*sigmaA2*delta/d
	newMuB := b.Mu - w*sigmaB2*delta/d

	reductionA := 1 - sigmaA2*v/(1+lambda*v)
	reductionB := 1 - sigmaB2*v/(1+lambda*v)

	newSigmaA2 := math.Max(sigmaA2*reductionA, varianceFloor)
	newSigmaB2 := math.Max(sigmaB2*reductionB, varianceFloor)

	return posterior.Posterior{Mu: newMuA, Sigma: math.Sqrt(newSigmaA2)},
		posterior.Posterior{Mu: newMuB, Sigma: math.Sqrt(newSigmaB2)}
}
