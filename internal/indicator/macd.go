package indicator

// macd calculates the MACD line (EMA(fast) - EMA(slow)) and its EMA(signal)
// signal line over the full price series.
func macd(prices []float64, fast, slow, signal int) (float64, float64) {
	if len(prices) == 0 {
		return 0, 0
	}

	fastSeries := emaSeries(prices, fast)
	slowSeries := emaSeries(prices, slow)

	macdSeries := make([]float64, len(prices))
	for i := range prices {
		macdSeries[i] = fastSeries[i] - slowSeries[i]
	}

	signalSeries := emaSeries(macdSeries, signal)

	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1]
}
