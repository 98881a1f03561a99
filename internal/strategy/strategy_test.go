package strategy

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// neutralSnapshot returns indicators that trigger no entry or exit branch
// for the stock strategies at price 100.
func neutralSnapshot() types.IndicatorSnapshot {
	return types.IndicatorSnapshot{
		RSI:            55,
		MACD:           -0.5,
		MACDSignal:     0.5,
		BollingerUpper: 110,
		BollingerMid:   101,
		BollingerLower: 92,
		EMA9:           99,
		EMA21:          101,
		EMA50:          98,
		EMA200:         95,
		ADX:            30,
		ATR:            1.5,
		VolumeRatio:    1.2,
		Momentum5D:     1.0,
		Momentum20D:    2.0,
	}
}

func stockInput(ind types.IndicatorSnapshot, price float64) Input {
	return Input{Symbol: "AAPL", Price: price, Indicators: ind}
}

func TestMomentumBuy(t *testing.T) {
	ind := neutralSnapshot()
	ind.Momentum5D = 3.5
	ind.VolumeRatio = 2.0
	ind.RSI = 60
	ind.MACD = 1.0
	ind.MACDSignal = 0.2
	ind.EMA21 = 98

	result := NewMomentum().Evaluate(stockInput(ind, 100))
	require.True(t, result.IsSome())

	candidate := result.Unwrap()
	assert.Equal(t, types.DirectionBuy, candidate.Direction)
	assert.Equal(t, 0.8, candidate.Confidence)
	assert.InDelta(t, 108.0, candidate.TargetPrice, 1e-9)
	assert.InDelta(t, 95.0, candidate.StopLoss, 1e-9)
	assert.Equal(t, "momentum_trading", candidate.Strategy)
}

func TestMomentumSellOnOverbought(t *testing.T) {
	ind := neutralSnapshot()
	ind.RSI = 85

	result := NewMomentum().Evaluate(stockInput(ind, 100))
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
	assert.Equal(t, 0.7, result.Unwrap().Confidence)
}

func TestMomentumEntryCheckedBeforeExit(t *testing.T) {
	// Both the buy conditions and volume_ratio < 1.0... cannot hold at once
	// (buy requires > 1.5), so force the other exit trigger: price < EMA9
	// with all buy conditions true except that one is impossible too.
	// Verify instead that a full buy setup with RSI at the 70 boundary
	// still takes the entry branch over the exit branch.
	ind := neutralSnapshot()
	ind.Momentum5D = 3.0
	ind.VolumeRatio = 2.0
	ind.RSI = 70
	ind.MACD = 1.0
	ind.MACDSignal = 0.2
	ind.EMA21 = 98
	ind.EMA9 = 101 // price < EMA9 would trigger the exit branch

	result := NewMomentum().Evaluate(stockInput(ind, 100))
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionBuy, result.Unwrap().Direction)
}

func TestMomentumNoSignal(t *testing.T) {
	result := NewMomentum().Evaluate(stockInput(neutralSnapshot(), 100))
	assert.True(t, result.IsNone())
}

func TestMeanReversionBuy(t *testing.T) {
	ind := neutralSnapshot()
	ind.BollingerUpper = 120
	ind.BollingerMid = 110
	ind.BollingerLower = 100
	ind.VolumeRatio = 1.8
	ind.RSI = 25

	// Price 97: z = (97-110)/((120-100)/4) = -2.6.
	result := NewMeanReversion().Evaluate(stockInput(ind, 97))
	require.True(t, result.IsSome())

	candidate := result.Unwrap()
	assert.Equal(t, types.DirectionBuy, candidate.Direction)
	assert.Equal(t, 0.75, candidate.Confidence)
	assert.Equal(t, 110.0, candidate.TargetPrice, "target is the middle band")
	assert.Contains(t, candidate.Reasoning, "Z-score")
}

func TestMeanReversionSellAtMiddleBand(t *testing.T) {
	ind := neutralSnapshot()
	ind.BollingerUpper = 120
	ind.BollingerMid = 110
	ind.BollingerLower = 100

	result := NewMeanReversion().Evaluate(stockInput(ind, 111))
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
}

func TestMeanReversionDegenerateBand(t *testing.T) {
	ind := neutralSnapshot()
	ind.BollingerUpper = 100
	ind.BollingerMid = 100
	ind.BollingerLower = 100

	result := NewMeanReversion().Evaluate(stockInput(ind, 100))
	assert.True(t, result.IsNone())
}

func TestTrendFollowingBuy(t *testing.T) {
	ind := neutralSnapshot()
	ind.EMA9 = 108
	ind.EMA21 = 106
	ind.EMA50 = 104
	ind.EMA200 = 95
	ind.ADX = 32
	ind.MACD = 1.2
	ind.MACDSignal = 0.4

	result := NewTrendFollowing().Evaluate(stockInput(ind, 110))
	require.True(t, result.IsSome())

	candidate := result.Unwrap()
	assert.Equal(t, types.DirectionBuy, candidate.Direction)
	assert.Equal(t, 0.85, candidate.Confidence)
	assert.InDelta(t, 126.5, candidate.TargetPrice, 1e-9)
	assert.InDelta(t, 101.2, candidate.StopLoss, 1e-9)
}

func TestTrendFollowingSellOnWeakTrend(t *testing.T) {
	ind := neutralSnapshot()
	ind.ADX = 15
	ind.EMA50 = 95 // price stays above EMA50; weak ADX alone triggers exit

	result := NewTrendFollowing().Evaluate(stockInput(ind, 100))
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
	assert.Equal(t, "Trend weakening", result.Unwrap().Reasoning)
}

func TestMACrossoverBuy(t *testing.T) {
	ind := neutralSnapshot()
	ind.EMA21 = 105
	ind.EMA50 = 100
	ind.VolumeRatio = 1.5
	ind.RSI = 50

	result := NewMACrossover().Evaluate(Input{Symbol: "BTC-USD", Price: 40000, Indicators: ind})
	require.True(t, result.IsSome())

	candidate := result.Unwrap()
	assert.Equal(t, types.DirectionBuy, candidate.Direction)
	assert.Equal(t, 0.7, candidate.Confidence)
	assert.InDelta(t, 50000.0, candidate.TargetPrice, 1e-6)
	assert.InDelta(t, 35200.0, candidate.StopLoss, 1e-6)
}

func TestMACrossoverSellOnDeathCross(t *testing.T) {
	ind := neutralSnapshot()
	ind.EMA21 = 95
	ind.EMA50 = 100

	result := NewMACrossover().Evaluate(Input{Symbol: "BTC-USD", Price: 40000, Indicators: ind})
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
	assert.Equal(t, 0.65, result.Unwrap().Confidence)
}

func TestRSIDivergenceBuyOversold(t *testing.T) {
	ind := neutralSnapshot()
	ind.RSI = 22
	ind.VolumeRatio = 1.4

	result := NewRSIDivergence().Evaluate(Input{Symbol: "ETH-USD", Price: 2000, Indicators: ind})
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionBuy, result.Unwrap().Direction)
	assert.Contains(t, result.Unwrap().Reasoning, "Oversold RSI")
}

func TestRSIDivergenceSellOverbought(t *testing.T) {
	ind := neutralSnapshot()
	ind.RSI = 78
	ind.VolumeRatio = 0.5

	result := NewRSIDivergence().Evaluate(Input{Symbol: "ETH-USD", Price: 2000, Indicators: ind})
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
}

func TestRSIDivergenceNoSignal(t *testing.T) {
	result := NewRSIDivergence().Evaluate(Input{Symbol: "ETH-USD", Price: 2000, Indicators: neutralSnapshot()})
	assert.True(t, result.IsNone())
}

func TestSocialMomentumRequiresMetrics(t *testing.T) {
	input := Input{Symbol: "DOGE-USD", Price: 0.1, Indicators: neutralSnapshot()}

	assert.True(t, NewSocialMomentum().Evaluate(input).IsNone())
	assert.True(t, NewWhaleTracking().Evaluate(input).IsNone())
}

func TestSocialMomentumBuyOnViralGrowth(t *testing.T) {
	input := Input{
		Symbol: "DOGE-USD",
		Price:  0.1,
		Social: optional.Some(types.SocialMetrics{
			MentionGrowth:  750,
			SentimentScore: 0.8,
		}),
	}

	result := NewSocialMomentum().Evaluate(input)
	require.True(t, result.IsSome())

	candidate := result.Unwrap()
	assert.Equal(t, types.DirectionBuy, candidate.Direction)
	assert.Equal(t, 0.5, candidate.Confidence)
	assert.InDelta(t, 0.2, candidate.TargetPrice, 1e-9)
}

func TestSocialMomentumSellOnDecline(t *testing.T) {
	input := Input{
		Symbol: "DOGE-USD",
		Price:  0.1,
		Social: optional.Some(types.SocialMetrics{
			MentionGrowth:  20,
			SentimentScore: 0.5,
		}),
	}

	result := NewSocialMomentum().Evaluate(input)
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
}

func TestWhaleTrackingBuyOnAccumulation(t *testing.T) {
	input := Input{
		Symbol: "SHIB-USD",
		Price:  0.00002,
		Social: optional.Some(types.SocialMetrics{
			WhaleBuyCount:  4,
			WhaleSellCount: 1,
		}),
	}

	result := NewWhaleTracking().Evaluate(input)
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionBuy, result.Unwrap().Direction)
	assert.Contains(t, result.Unwrap().Reasoning, "4 large buys")
}

func TestWhaleTrackingSellOnDistribution(t *testing.T) {
	input := Input{
		Symbol: "SHIB-USD",
		Price:  0.00002,
		Social: optional.Some(types.SocialMetrics{
			WhaleBuyCount:  1,
			WhaleSellCount: 3,
		}),
	}

	result := NewWhaleTracking().Evaluate(input)
	require.True(t, result.IsSome())
	assert.Equal(t, types.DirectionSell, result.Unwrap().Direction)
	assert.Equal(t, 0.8, result.Unwrap().Confidence)
}

func TestDefaultRegistryOrdering(t *testing.T) {
	registry := NewDefaultRegistry()

	stock := registry.Evaluators(types.AssetClassStock)
	require.Len(t, stock, 3)
	assert.Equal(t, "momentum_trading", stock[0].Name())
	assert.Equal(t, "mean_reversion", stock[1].Name())
	assert.Equal(t, "trend_following", stock[2].Name())

	crypto := registry.Evaluators(types.AssetClassCrypto)
	require.Len(t, crypto, 2)
	assert.Equal(t, "crypto_ma_crossover", crypto[0].Name())

	meme := registry.Evaluators(types.AssetClassMemeCoin)
	require.Len(t, meme, 2)
	assert.Equal(t, "meme_social_momentum", meme[0].Name())
	assert.Equal(t, "meme_whale_tracking", meme[1].Name())
}
