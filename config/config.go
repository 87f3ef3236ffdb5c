// Package config holds the per-dimension tunables: the Bayesian prior, the
// logistic update's scale and variance floor, the reserved tie tolerance,
// and which pair-selection strategy to run. The engine applies the logistic
// scale and variance floor to every update and replay, and requires the
// entropy strategy. PriorMean and PriorVariance are validated but not read
// by the engine: posteriors start from and reset to posterior.Default
// (mu=0, sigma=1) whatever they are set to.
//
// Options are functional (Option func(*Config)) and validate eagerly: a
// constructor panics on a value that can never be meaningful (a
// non-positive variance, an unknown strategy name), the same way a misconfigured
// literal constant would be a programmer error caught at compile time.
// Values that are well-formed but unsupported (a named-but-unimplemented
// selection strategy) are accepted here and rejected later by Validate,
// since only the caller knows whether it plans to supply one.
package config

import (
	"math"

	"github.com/katalvlaran/prefrank/engineerr"
)

// SelectionStrategy names a pair-selection algorithm. Only StrategyEntropy
// is implemented; the others are named so configuration can round-trip but
// rejected by Validate.
type SelectionStrategy string

const (
	StrategyRandom       SelectionStrategy = "random"
	StrategyUncertainty  SelectionStrategy = "uncertainty_sampling"
	StrategyExpectedInfo SelectionStrategy = "expected_value_of_information"
	StrategyEntropy      SelectionStrategy = "entropy"
)

func (s SelectionStrategy) valid() bool {
	switch s {
	case StrategyRandom, StrategyUncertainty, StrategyExpectedInfo, StrategyEntropy:
		return true
	}
	return false
}

// Config holds one dimension's tunables.
type Config struct {
	PriorMean         float64
	PriorVariance     float64
	LogisticScale     float64
	VarianceFloor     float64
	TieTolerance      float64
	SelectionStrategy SelectionStrategy
}

// Option customizes a Config from its defaults.
type Option func(*Config)

// New builds a Config from the package defaults plus opts, applied in
// order.
func New(opts ...Option) Config {
	c := Config{
		PriorMean:         0.0,
		PriorVariance:     1.0,
		LogisticScale:     math.Pi / 8,
		VarianceFloor:     0.01,
		TieTolerance:      0.1,
		SelectionStrategy: StrategyEntropy,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithPriorMean overrides mu0.
func WithPriorMean(mu0 float64) Option {
	return func(c *Config) { c.PriorMean = mu0 }
}

// WithPriorVariance overrides sigma0^2. Panics if variance <= 0: a
// non-positive prior variance has no meaning as a belief spread.
func WithPriorVariance(variance float64) Option {
	if variance <= 0 {
		panic("config: WithPriorVariance(variance<=0)")
	}
	return func(c *Config) { c.PriorVariance = variance }
}

// WithLogisticScale overrides lambda, the logistic moment-matching scale.
// Panics if lambda <= 0.
func WithLogisticScale(lambda float64) Option {
	if lambda <= 0 {
		panic("config: WithLogisticScale(lambda<=0)")
	}
	return func(c *Config) { c.LogisticScale = lambda }
}

// WithVarianceFloor overrides kappa, the minimum sigma^2 a posterior may
// reach. Panics if kappa <= 0.
func WithVarianceFloor(kappa float64) Option {
	if kappa <= 0 {
		panic("config: WithVarianceFloor(kappa<=0)")
	}
	return func(c *Config) { c.VarianceFloor = kappa }
}

// WithTieTolerance overrides the reserved tie-tolerance value.
func WithTieTolerance(tolerance float64) Option {
	return func(c *Config) { c.TieTolerance = tolerance }
}

// WithSelectionStrategy overrides which pair-selection algorithm to run.
// Any of the four named strategies round-trips through New; only
// StrategyEntropy passes Validate.
func WithSelectionStrategy(strategy SelectionStrategy) Option {
	if !strategy.valid() {
		panic("config: WithSelectionStrategy(unknown strategy)")
	}
	return func(c *Config) { c.SelectionStrategy = strategy }
}

// Validate reports whether c is usable by the engine as configured. It
// wraps engineerr.ErrInvalidConfig with the offending field.
func (c Config) Validate() error {
	switch {
	case c.PriorVariance <= 0:
		return engineerr.Wrap("config.Validate", engineerr.ErrInvalidConfig, "prior_variance")
	case c.LogisticScale <= 0:
		return engineerr.Wrap("config.Validate", engineerr.ErrInvalidConfig, "logistic_scale")
	case c.VarianceFloor <= 0:
		return engineerr.Wrap("config.Validate", engineerr.ErrInvalidConfig, "variance_floor")
	case c.SelectionStrategy != StrategyEntropy:
		return engineerr.Wrap("config.Validate", engineerr.ErrInvalidConfig, "selection_strategy:"+string(c.SelectionStrategy))
	default:
		return nil
	}
}
