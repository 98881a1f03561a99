package types

import "time"

type Direction string

const (
	// DirectionBuy is a directional recommendation to open or add to a position.
	DirectionBuy Direction = "buy"
	// DirectionSell is a directional recommendation to reduce or close a position.
	DirectionSell Direction = "sell"
)

// CandidateSignal is the output of a single strategy evaluator before
// arbitration. Confidence is strategy-local; the risk score is attached by
// the arbitrator.
type CandidateSignal struct {
	Direction   Direction `json:"direction" yaml:"direction"`
	Confidence  float64   `json:"confidence" yaml:"confidence"`
	EntryPrice  float64   `json:"entry_price" yaml:"entry_price"`
	TargetPrice float64   `json:"target_price" yaml:"target_price"`
	StopLoss    float64   `json:"stop_loss" yaml:"stop_loss"`
	Strategy    string    `json:"strategy" yaml:"strategy"`
	Reasoning   string    `json:"reasoning" yaml:"reasoning"`
}

// TradingSignal is a published directional trade recommendation. Immutable
// once created; publishing a new signal for the same symbol supersedes the
// prior one, so at most one signal per symbol is ever active.
type TradingSignal struct {
	Symbol      string     `json:"symbol" yaml:"symbol"`
	AssetClass  AssetClass `json:"asset_class" yaml:"asset_class"`
	Direction   Direction  `json:"direction" yaml:"direction"`
	Confidence  float64    `json:"confidence" yaml:"confidence"`
	EntryPrice  float64    `json:"entry_price" yaml:"entry_price"`
	TargetPrice float64    `json:"target_price" yaml:"target_price"`
	StopLoss    float64    `json:"stop_loss" yaml:"stop_loss"`
	Strategy    string     `json:"strategy" yaml:"strategy"`
	Reasoning   string     `json:"reasoning" yaml:"reasoning"`
	RiskScore   float64    `json:"risk_score" yaml:"risk_score"`
	Timestamp   time.Time  `json:"timestamp" yaml:"timestamp"`
	// Indicators is the snapshot the signal was derived from.
	Indicators IndicatorSnapshot `json:"indicators" yaml:"indicators"`
}

// ExpectedReturn is the percentage move from entry to target.
func (s TradingSignal) ExpectedReturn() float64 {
	if s.EntryPrice == 0 {
		return 0
	}

	return (s.TargetPrice - s.EntryPrice) / s.EntryPrice * 100
}

// SocialMetrics carries externally sourced social/on-chain activity for a
// meme-coin symbol. The core never fabricates these values; they arrive
// through an injected provider.
type SocialMetrics struct {
	// MentionGrowth is the percentage growth in social mentions over 24h.
	MentionGrowth float64 `json:"mention_growth" yaml:"mention_growth"`
	// SentimentScore is in [-1, 1].
	SentimentScore float64 `json:"sentiment_score" yaml:"sentiment_score"`
	// WhaleBuyCount is the number of large buys in the last 24h.
	WhaleBuyCount int `json:"whale_buy_count" yaml:"whale_buy_count"`
	// WhaleSellCount is the number of large sells in the last 24h.
	WhaleSellCount int `json:"whale_sell_count" yaml:"whale_sell_count"`
}
