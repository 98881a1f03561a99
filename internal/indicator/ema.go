package indicator

// simpleMovingAverage calculates a simple moving average over the last
// period prices. Uses all prices when fewer than period are available.
func simpleMovingAverage(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	if period > len(prices) {
		period = len(prices)
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}

	return sum / float64(period)
}

// exponentialMovingAverage calculates an EMA seeded with the SMA of the
// first period prices, then smoothed with alpha = 2/(period+1). Falls back
// to a simple average when fewer than period prices are available.
func exponentialMovingAverage(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}

	if len(prices) < period {
		return simpleMovingAverage(prices, len(prices))
	}

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += prices[i]
	}

	sma /= float64(period)

	alpha := 2.0 / float64(period+1)

	ema := sma
	for i := period; i < len(prices); i++ {
		ema = (prices[i] * alpha) + (ema * (1 - alpha))
	}

	return ema
}

// emaSeries returns the running EMA value at every index, seeded with the
// first price. Used by MACD, which needs the full series to smooth its
// signal line.
func emaSeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)

	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = (prices[i] * alpha) + (out[i-1] * (1 - alpha))
	}

	return out
}
