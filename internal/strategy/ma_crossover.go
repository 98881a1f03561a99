package strategy

import (
	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// MACrossover is the crypto moving-average crossover strategy: buy golden
// crosses with volume confirmation, sell on cross-down or extreme RSI.
type MACrossover struct{}

// NewMACrossover creates the MA crossover evaluator.
func NewMACrossover() Evaluator {
	return &MACrossover{}
}

// Name returns the strategy name.
func (c *MACrossover) Name() string {
	return "crypto_ma_crossover"
}

// Evaluate implements the Evaluator interface.
func (c *MACrossover) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	ind := input.Indicators
	price := input.Price

	if ind.EMA21 > ind.EMA50 &&
		ind.VolumeRatio > 1.3 &&
		ind.RSI >= 40 && ind.RSI <= 60 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.7,
			EntryPrice:  price,
			TargetPrice: price * 1.25,
			StopLoss:    price * 0.88,
			Strategy:    c.Name(),
			Reasoning:   "Golden cross with volume confirmation",
		})
	}

	if ind.EMA21 < ind.EMA50 || ind.RSI > 80 || ind.RSI < 20 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.65,
			EntryPrice:  price,
			TargetPrice: price * 0.95,
			StopLoss:    price * 1.05,
			Strategy:    c.Name(),
			Reasoning:   "Death cross or extreme RSI",
		})
	}

	return optional.None[types.CandidateSignal]()
}
