package signal

import (
	"sort"
	"sync"

	"github.com/moznion/go-optional"

	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// Book holds the active trading signals, at most one per symbol.
// Publishing a signal for a symbol replaces any prior active signal.
type Book struct {
	mu      sync.RWMutex
	signals map[string]types.TradingSignal
}

// NewBook creates an empty signal book.
func NewBook() *Book {
	return &Book{
		signals: make(map[string]types.TradingSignal),
	}
}

// Publish stores the signal, superseding any prior signal for the symbol.
func (b *Book) Publish(signal types.TradingSignal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.signals[signal.Symbol] = signal
}

// Retract removes the active signal for a symbol, if any. Called after the
// orchestrator has acted on a signal so it is not traded twice.
func (b *Book) Retract(symbol string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.signals, symbol)
}

// Get returns the active signal for a symbol.
func (b *Book) Get(symbol string) optional.Option[types.TradingSignal] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	signal, ok := b.signals[symbol]
	if !ok {
		return optional.None[types.TradingSignal]()
	}

	return optional.Some(signal)
}

// Active returns the active signals, optionally filtered by asset class,
// sorted by confidence descending. Ties are broken by symbol for a stable
// order.
func (b *Book) Active(classFilter optional.Option[types.AssetClass]) []types.TradingSignal {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]types.TradingSignal, 0, len(b.signals))

	for _, signal := range b.signals {
		if classFilter.IsSome() && signal.AssetClass != classFilter.Unwrap() {
			continue
		}

		out = append(out, signal)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}

		return out[i].Symbol < out[j].Symbol
	})

	return out
}

// MarketAnalysis is an aggregate view over the active signals.
type MarketAnalysis struct {
	TotalSignals        int                      `json:"total_signals" yaml:"total_signals"`
	BuySignals          int                      `json:"buy_signals" yaml:"buy_signals"`
	SellSignals         int                      `json:"sell_signals" yaml:"sell_signals"`
	AverageConfidence   float64                  `json:"avg_confidence" yaml:"avg_confidence"`
	HighConfidence      []types.TradingSignal    `json:"high_confidence_signals" yaml:"high_confidence_signals"`
	AssetDistribution   map[types.AssetClass]int `json:"asset_distribution" yaml:"asset_distribution"`
	HighConfidenceFloor float64                  `json:"high_confidence_floor" yaml:"high_confidence_floor"`
}

// highConfidenceFloor marks signals worth surfacing prominently.
const highConfidenceFloor = 0.7

// Analyze summarizes the active signal set.
func (b *Book) Analyze() MarketAnalysis {
	signals := b.Active(optional.None[types.AssetClass]())

	analysis := MarketAnalysis{
		TotalSignals:        len(signals),
		AssetDistribution:   make(map[types.AssetClass]int),
		HighConfidenceFloor: highConfidenceFloor,
	}

	confidenceSum := 0.0

	for _, s := range signals {
		switch s.Direction {
		case types.DirectionBuy:
			analysis.BuySignals++
		case types.DirectionSell:
			analysis.SellSignals++
		}

		confidenceSum += s.Confidence
		analysis.AssetDistribution[s.AssetClass]++

		if s.Confidence > highConfidenceFloor {
			analysis.HighConfidence = append(analysis.HighConfidence, s)
		}
	}

	if len(signals) > 0 {
		analysis.AverageConfidence = confidenceSum / float64(len(signals))
	}

	return analysis
}
