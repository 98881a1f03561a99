package indicator

import "github.com/montanaflynn/stats"

// bollingerBands calculates the upper, middle, and lower Bollinger Bands
// over the last period prices: SMA(period) +/- stdDev standard deviations.
func bollingerBands(prices []float64, period int, stdDev float64) (upper, middle, lower float64) {
	if len(prices) == 0 {
		return 0, 0, 0
	}

	window := prices
	if len(prices) > period {
		window = prices[len(prices)-period:]
	}

	mean, err := stats.Mean(window)
	if err != nil {
		return 0, 0, 0
	}

	sigma, err := stats.StandardDeviationSample(window)
	if err != nil {
		sigma = 0
	}

	return mean + sigma*stdDev, mean, mean - sigma*stdDev
}
