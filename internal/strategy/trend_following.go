package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// TrendFollowing is the stock trend-following strategy: buy fully aligned
// uptrends with strong directional movement, sell when the trend breaks.
type TrendFollowing struct{}

// NewTrendFollowing creates the trend-following evaluator.
func NewTrendFollowing() Evaluator {
	return &TrendFollowing{}
}

// Name returns the strategy name.
func (t *TrendFollowing) Name() string {
	return "trend_following"
}

// Evaluate implements the Evaluator interface.
func (t *TrendFollowing) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	ind := input.Indicators
	price := input.Price

	bullishAlignment := price > ind.EMA50 && ind.EMA50 > ind.EMA200 &&
		ind.EMA9 > ind.EMA21 && ind.EMA21 > ind.EMA50

	if bullishAlignment && ind.ADX > 25 && ind.MACD > ind.MACDSignal {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.85,
			EntryPrice:  price,
			TargetPrice: price * 1.15,
			StopLoss:    price * 0.92,
			Strategy:    t.Name(),
			Reasoning:   fmt.Sprintf("Strong uptrend with ADX: %.1f", ind.ADX),
		})
	}

	if price < ind.EMA50 || ind.ADX < 20 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.7,
			EntryPrice:  price,
			TargetPrice: price * 0.98,
			StopLoss:    price * 1.02,
			Strategy:    t.Name(),
			Reasoning:   "Trend weakening",
		})
	}

	return optional.None[types.CandidateSignal]()
}
