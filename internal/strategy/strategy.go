// Package strategy contains the per-asset-class signal evaluators. Each
// evaluator is a pure function of the indicator snapshot (plus injected
// social metrics for meme coins) and produces at most one candidate signal.
package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// Input is the evaluation context handed to every evaluator.
type Input struct {
	Symbol     string
	Price      float64
	Indicators types.IndicatorSnapshot
	// Social is populated for meme-coin instruments from the injected
	// SocialMetricsProvider; None for other asset classes.
	Social optional.Option[types.SocialMetrics]
}

// Evaluator turns an evaluation input into zero or one candidate signal.
// Entry conditions are checked before exit conditions; the first matched
// branch wins.
type Evaluator interface {
	// Name returns the strategy name recorded on signals it produces.
	Name() string
	Evaluate(input Input) optional.Option[types.CandidateSignal]
}

// SocialMetricsProvider supplies social/on-chain activity for meme-coin
// symbols. The actual sentiment source is an external collaborator; the
// core never fabricates these values.
type SocialMetricsProvider interface {
	Metrics(symbol string) (types.SocialMetrics, error)
}

// Registry maps each asset class to its ordered evaluator set. Registration
// order doubles as arbitration priority for confidence ties.
type Registry struct {
	evaluators map[types.AssetClass][]Evaluator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[types.AssetClass][]Evaluator),
	}
}

// NewDefaultRegistry creates a registry with the built-in evaluator sets:
// momentum, mean reversion, and trend following for stocks; MA crossover and
// RSI divergence for crypto; social momentum and whale tracking for meme
// coins.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(types.AssetClassStock, NewMomentum())
	r.Register(types.AssetClassStock, NewMeanReversion())
	r.Register(types.AssetClassStock, NewTrendFollowing())
	r.Register(types.AssetClassCrypto, NewMACrossover())
	r.Register(types.AssetClassCrypto, NewRSIDivergence())
	r.Register(types.AssetClassMemeCoin, NewSocialMomentum())
	r.Register(types.AssetClassMemeCoin, NewWhaleTracking())

	return r
}

// Register appends an evaluator to the asset class's set.
func (r *Registry) Register(class types.AssetClass, evaluator Evaluator) {
	r.evaluators[class] = append(r.evaluators[class], evaluator)
}

// Evaluators returns the ordered evaluator set for the asset class.
func (r *Registry) Evaluators(class types.AssetClass) []Evaluator {
	return r.evaluators[class]
}
