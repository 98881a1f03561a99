package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// RSIDivergence is the crypto RSI extreme strategy: buy oversold readings
// backed by volume, sell overbought readings on fading volume.
type RSIDivergence struct{}

// NewRSIDivergence creates the RSI divergence evaluator.
func NewRSIDivergence() Evaluator {
	return &RSIDivergence{}
}

// Name returns the strategy name.
func (r *RSIDivergence) Name() string {
	return "crypto_rsi_divergence"
}

// Evaluate implements the Evaluator interface.
func (r *RSIDivergence) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	ind := input.Indicators
	price := input.Price

	if ind.RSI < 30 && ind.VolumeRatio > 1.2 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.6,
			EntryPrice:  price,
			TargetPrice: price * 1.20,
			StopLoss:    price * 0.90,
			Strategy:    r.Name(),
			Reasoning:   fmt.Sprintf("Oversold RSI: %.1f", ind.RSI),
		})
	}

	if ind.RSI > 70 && ind.VolumeRatio < 0.8 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.6,
			EntryPrice:  price,
			TargetPrice: price * 0.90,
			StopLoss:    price * 1.10,
			Strategy:    r.Name(),
			Reasoning:   fmt.Sprintf("Overbought RSI: %.1f", ind.RSI),
		})
	}

	return optional.None[types.CandidateSignal]()
}
