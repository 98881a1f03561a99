// Package indicator derives technical indicators from an instrument's price
// history. Every computation is a pure function of the supplied history
// slice; there is no hidden state, so unit tests drive it with literal
// price arrays.
package indicator

import (
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

const (
	// MinHistory is the minimum number of samples required to compute a
	// snapshot.
	MinHistory = 50
	// FullHistory is the window needed for a non-degraded EMA-200.
	FullHistory = 200

	rsiPeriod        = 14
	macdFast         = 12
	macdSlow         = 26
	macdSignalPeriod = 9
	bollingerPeriod  = 20
	bollingerStdDev  = 2.0
	trendPeriod      = 14
)

// Compute derives an IndicatorSnapshot from the history, oldest sample
// first. Fails with an InsufficientHistoryError below MinHistory samples.
// When the history is shorter than FullHistory the long EMA falls back to
// the available window and the snapshot is flagged Degraded so downstream
// consumers discount confidence.
func Compute(symbol string, history []types.PricePoint) (types.IndicatorSnapshot, error) {
	if len(history) < MinHistory {
		return types.IndicatorSnapshot{}, errors.NewInsufficientHistoryError(MinHistory, len(history), symbol)
	}

	prices := make([]float64, len(history))
	volumes := make([]float64, len(history))

	for i, p := range history {
		prices[i] = p.Price
		volumes[i] = p.Volume
	}

	macdLine, macdSignal := macd(prices, macdFast, macdSlow, macdSignalPeriod)
	upper, middle, lower := bollingerBands(prices, bollingerPeriod, bollingerStdDev)

	snapshot := types.IndicatorSnapshot{
		RSI:            relativeStrengthIndex(prices, rsiPeriod),
		MACD:           macdLine,
		MACDSignal:     macdSignal,
		BollingerUpper: upper,
		BollingerMid:   middle,
		BollingerLower: lower,
		EMA9:           exponentialMovingAverage(prices, 9),
		EMA21:          exponentialMovingAverage(prices, 21),
		EMA50:          exponentialMovingAverage(prices, 50),
		EMA200:         exponentialMovingAverage(prices, 200),
		ADX:            averageDirectionalIndex(prices, trendPeriod),
		ATR:            averageTrueRange(prices, trendPeriod),
		VolumeRatio:    volumeRatio(volumes),
		Momentum5D:     momentum(prices, 5),
		Momentum20D:    momentum(prices, 20),
		Degraded:       len(history) < FullHistory,
	}

	return snapshot, nil
}

// volumeRatio is mean(last 5 volumes) / mean(last 20 volumes). Returns 1
// (neutral) when the denominator is zero.
func volumeRatio(volumes []float64) float64 {
	short := simpleMovingAverage(volumes, 5)
	long := simpleMovingAverage(volumes, 20)

	if long == 0 {
		return 1
	}

	return short / long
}

// momentum is price[t]/price[t-n] - 1, expressed in percent.
func momentum(prices []float64, n int) float64 {
	if len(prices) < n+1 {
		return 0
	}

	base := prices[len(prices)-1-n]
	if base == 0 {
		return 0
	}

	return (prices[len(prices)-1]/base - 1) * 100
}
