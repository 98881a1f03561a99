package types

// IndicatorSnapshot is an immutable set of technical indicators computed from
// an instrument's price history at a point in time. It is recomputed on
// demand and carried on the signal that consumed it for traceability.
type IndicatorSnapshot struct {
	RSI            float64 `json:"rsi" yaml:"rsi"`
	MACD           float64 `json:"macd" yaml:"macd"`
	MACDSignal     float64 `json:"macd_signal" yaml:"macd_signal"`
	BollingerUpper float64 `json:"bollinger_upper" yaml:"bollinger_upper"`
	BollingerMid   float64 `json:"bollinger_middle" yaml:"bollinger_middle"`
	BollingerLower float64 `json:"bollinger_lower" yaml:"bollinger_lower"`
	EMA9           float64 `json:"ema_9" yaml:"ema_9"`
	EMA21          float64 `json:"ema_21" yaml:"ema_21"`
	EMA50          float64 `json:"ema_50" yaml:"ema_50"`
	EMA200         float64 `json:"ema_200" yaml:"ema_200"`
	ADX            float64 `json:"adx" yaml:"adx"`
	ATR            float64 `json:"atr" yaml:"atr"`
	// VolumeRatio is mean(last 5 volumes) / mean(last 20 volumes).
	VolumeRatio float64 `json:"volume_ratio" yaml:"volume_ratio"`
	// Momentum5D and Momentum20D are price[t]/price[t-N] - 1, in percent.
	Momentum5D  float64 `json:"momentum_5d" yaml:"momentum_5d"`
	Momentum20D float64 `json:"momentum_20d" yaml:"momentum_20d"`
	// Degraded is set when the history was shorter than the longest EMA
	// window (200) and a shorter window was substituted. Downstream
	// consumers discount confidence for degraded snapshots.
	Degraded bool `json:"degraded" yaml:"degraded"`
}
