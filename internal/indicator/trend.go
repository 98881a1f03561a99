package indicator

import "math"

const (
	// neutralADX is returned when there is not enough data for a meaningful
	// ADX value. ADX is a secondary confirmation signal, not a primary
	// trigger, so it degrades to neutral instead of erroring.
	neutralADX = 25.0
	// defaultATR is the fallback ATR on insufficient data.
	defaultATR = 1.0
)

// trueRanges computes the true range series from last-trade prices. With a
// single price per sample the range collapses to the absolute close-to-close
// move.
func trueRanges(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}

	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Abs(prices[i] - prices[i-1])
	}

	return out
}

// averageTrueRange calculates the ATR over the last period true ranges.
// Returns defaultATR when the series is too short.
func averageTrueRange(prices []float64, period int) float64 {
	ranges := trueRanges(prices)
	if len(ranges) < period {
		return defaultATR
	}

	sum := 0.0
	for _, r := range ranges[len(ranges)-period:] {
		sum += r
	}

	return sum / float64(period)
}

// averageDirectionalIndex calculates the ADX over the price series. Returns
// neutralADX when the series cannot support the calculation.
func averageDirectionalIndex(prices []float64, period int) float64 {
	// DX needs period smoothed values, each needing period raw moves.
	if len(prices) < 2*period+1 {
		return neutralADX
	}

	moves := len(prices) - 1
	dmPlus := make([]float64, moves)
	dmMinus := make([]float64, moves)
	tr := trueRanges(prices)

	for i := 1; i < len(prices); i++ {
		up := prices[i] - prices[i-1]
		down := prices[i-1] - prices[i]

		if up > 0 {
			dmPlus[i-1] = up
		}

		if down > 0 {
			dmMinus[i-1] = down
		}
	}

	// Rolling-mean smoothing, then DX per window, then ADX as the mean of
	// the last period DX values.
	dx := make([]float64, 0, moves-period+1)

	for i := period; i <= moves; i++ {
		trSum, plusSum, minusSum := 0.0, 0.0, 0.0
		for j := i - period; j < i; j++ {
			trSum += tr[j]
			plusSum += dmPlus[j]
			minusSum += dmMinus[j]
		}

		if trSum == 0 {
			continue
		}

		diPlus := plusSum / trSum * 100
		diMinus := minusSum / trSum * 100

		if diPlus+diMinus == 0 {
			continue
		}

		dx = append(dx, math.Abs(diPlus-diMinus)/(diPlus+diMinus)*100)
	}

	if len(dx) < period {
		return neutralADX
	}

	sum := 0.0
	for _, v := range dx[len(dx)-period:] {
		sum += v
	}

	return sum / float64(period)
}
