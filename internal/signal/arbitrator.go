// Package signal fuses candidate signals from the strategy evaluators into
// at most one published trading signal per symbol, with a composite risk
// score attached.
package signal

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// degradedConfidenceFactor discounts signals computed from a degraded
// indicator snapshot (history shorter than the full EMA-200 window).
const degradedConfidenceFactor = 0.9

// assetClassBaseRisk is the floor risk contribution per asset class.
var assetClassBaseRisk = map[types.AssetClass]float64{
	types.AssetClassStock:    0.10,
	types.AssetClassCrypto:   0.30,
	types.AssetClassMemeCoin: 0.60,
}

// Arbitrate selects the best candidate for a symbol: highest confidence
// wins, ties go to the earliest candidate (strategy registration order).
// Returns None when there are no candidates.
func Arbitrate(symbol string, class types.AssetClass, snapshot types.IndicatorSnapshot, candidates []types.CandidateSignal, now time.Time) optional.Option[types.TradingSignal] {
	if len(candidates) == 0 {
		return optional.None[types.TradingSignal]()
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}

	confidence := best.Confidence
	if snapshot.Degraded {
		confidence *= degradedConfidenceFactor
	}

	return optional.Some(types.TradingSignal{
		Symbol:      symbol,
		AssetClass:  class,
		Direction:   best.Direction,
		Confidence:  confidence,
		EntryPrice:  best.EntryPrice,
		TargetPrice: best.TargetPrice,
		StopLoss:    best.StopLoss,
		Strategy:    best.Strategy,
		Reasoning:   best.Reasoning,
		RiskScore:   RiskScore(snapshot, class),
		Timestamp:   now,
		Indicators:  snapshot,
	})
}

// RiskScore computes the composite risk score in [0, 1]:
// a volatility term (ATR relative to the Bollinger middle band, capped at
// 0.3), an RSI-extreme term, a weak-trend term, and the asset-class base
// risk.
func RiskScore(snapshot types.IndicatorSnapshot, class types.AssetClass) float64 {
	score := 0.0

	if snapshot.ATR > 0 && snapshot.BollingerMid > 0 {
		volatility := snapshot.ATR / snapshot.BollingerMid
		if volatility > 0.3 {
			volatility = 0.3
		}

		score += volatility
	}

	if snapshot.RSI > 80 || snapshot.RSI < 20 {
		score += 0.2
	}

	if snapshot.ADX < 20 {
		score += 0.15
	}

	score += assetClassBaseRisk[class]

	if score > 1 {
		return 1
	}

	if score < 0 {
		return 0
	}

	return score
}
