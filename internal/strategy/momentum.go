package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// Momentum is the stock momentum strategy: buy strong 5-day momentum with
// volume confirmation, sell when the move is overbought or fading.
type Momentum struct{}

// NewMomentum creates the momentum evaluator.
func NewMomentum() Evaluator {
	return &Momentum{}
}

// Name returns the strategy name.
func (m *Momentum) Name() string {
	return "momentum_trading"
}

// Evaluate implements the Evaluator interface.
func (m *Momentum) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	ind := input.Indicators
	price := input.Price

	if ind.Momentum5D > 2.0 &&
		ind.VolumeRatio > 1.5 &&
		ind.RSI >= 50 && ind.RSI <= 70 &&
		ind.MACD > ind.MACDSignal &&
		price > ind.EMA21 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.8,
			EntryPrice:  price,
			TargetPrice: price * 1.08,
			StopLoss:    price * 0.95,
			Strategy:    m.Name(),
			Reasoning:   "Strong momentum with volume confirmation",
		})
	}

	if ind.RSI > 80 || price < ind.EMA9 || ind.VolumeRatio < 1.0 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.7,
			EntryPrice:  price,
			TargetPrice: price * 0.98,
			StopLoss:    price * 1.02,
			Strategy:    m.Name(),
			Reasoning:   fmt.Sprintf("Momentum weakening or overbought (RSI=%.1f)", ind.RSI),
		})
	}

	return optional.None[types.CandidateSignal]()
}
