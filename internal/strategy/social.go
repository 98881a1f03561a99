package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// SocialMomentum is the meme-coin social momentum strategy. It reads the
// injected SocialMetrics only; without metrics it emits nothing.
type SocialMomentum struct{}

// NewSocialMomentum creates the social momentum evaluator.
func NewSocialMomentum() Evaluator {
	return &SocialMomentum{}
}

// Name returns the strategy name.
func (s *SocialMomentum) Name() string {
	return "meme_social_momentum"
}

// Evaluate implements the Evaluator interface.
func (s *SocialMomentum) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	if input.Social.IsNone() {
		return optional.None[types.CandidateSignal]()
	}

	social := input.Social.Unwrap()
	price := input.Price

	if social.MentionGrowth > 500 && social.SentimentScore > 0.6 {
		return optional.Some(types.CandidateSignal{
			Direction:  types.DirectionBuy,
			Confidence: 0.5, // Lower confidence due to high risk
			EntryPrice: price,
			// Meme-coin targets are aggressive: 100% target, 15% stop.
			TargetPrice: price * 2.0,
			StopLoss:    price * 0.85,
			Strategy:    s.Name(),
			Reasoning:   fmt.Sprintf("Viral momentum: %.0f%% mention growth", social.MentionGrowth),
		})
	}

	if social.MentionGrowth < 50 || social.SentimentScore < 0.2 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.6,
			EntryPrice:  price,
			TargetPrice: price * 0.80,
			StopLoss:    price * 1.20,
			Strategy:    s.Name(),
			Reasoning:   "Social momentum declining",
		})
	}

	return optional.None[types.CandidateSignal]()
}

// WhaleTracking is the meme-coin whale activity strategy over the injected
// SocialMetrics whale counters.
type WhaleTracking struct{}

// NewWhaleTracking creates the whale tracking evaluator.
func NewWhaleTracking() Evaluator {
	return &WhaleTracking{}
}

// Name returns the strategy name.
func (w *WhaleTracking) Name() string {
	return "meme_whale_tracking"
}

// Evaluate implements the Evaluator interface.
func (w *WhaleTracking) Evaluate(input Input) optional.Option[types.CandidateSignal] {
	if input.Social.IsNone() {
		return optional.None[types.CandidateSignal]()
	}

	social := input.Social.Unwrap()
	price := input.Price

	if social.WhaleBuyCount >= 3 && social.WhaleBuyCount > social.WhaleSellCount {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionBuy,
			Confidence:  0.6,
			EntryPrice:  price,
			TargetPrice: price * 1.5,
			StopLoss:    price * 0.90,
			Strategy:    w.Name(),
			Reasoning:   fmt.Sprintf("Whale accumulation: %d large buys", social.WhaleBuyCount),
		})
	}

	if social.WhaleSellCount >= 2 {
		return optional.Some(types.CandidateSignal{
			Direction:   types.DirectionSell,
			Confidence:  0.8,
			EntryPrice:  price,
			TargetPrice: price * 0.85,
			StopLoss:    price * 1.15,
			Strategy:    w.Name(),
			Reasoning:   "Whale selling detected",
		})
	}

	return optional.None[types.CandidateSignal]()
}
