package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// MeanReversion is the stock mean-reversion strategy: buy deep oversold
// touches of the lower Bollinger band, sell once price reverts to the
// middle band.
type MeanReversion struct{}

// NewMeanReversion creates the mean-reversion evaluator.
func NewMeanReversion() Evaluator {
	return &MeanReversion{}
}

// Name returns the strategy name.
func (m *MeanReversion) Name() string {
	return "mean_reversion"
}

// Evaluate implements the Evaluator interface.
func (m *MeanReversion) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	ind := input.Indicators
	price := input.Price

	bandWidth := ind.BollingerUpper - ind.BollingerLower
	if bandWidth <= 0 {
		// Degenerate band (flat prices): no reversion edge.
		return optional.None[types.CandidateSignal]()
	}

	zScore := (price - ind.BollingerMid) / (bandWidth / 4)

	if price <= ind.BollingerLower &&
		zScore < -2 &&
		ind.VolumeRatio > 1.5 &&
		ind.RSI < 30 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.75,
			EntryPrice:  price,
			TargetPrice: ind.BollingerMid,
			StopLoss:    price * 0.95,
			Strategy:    m.Name(),
			Reasoning:   fmt.Sprintf("Oversold condition with Z-score: %.2f", zScore),
		})
	}

	if price >= ind.BollingerMid || zScore > 0 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.6,
			EntryPrice:  price,
			TargetPrice: price * 1.02,
			StopLoss:    price * 0.98,
			Strategy:    m.Name(),
			Reasoning:   "Mean reversion target reached",
		})
	}

	return optional.None[types.CandidateSignal]()
}
