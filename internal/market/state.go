// Package market owns the in-process market state: one rolling price/volume
// history per instrument plus the instrument registry. It replaces the
// shared external cache of earlier designs with an explicit handle passed
// into each component.
package market

import (
	"sort"
	"sync"
	"time"

	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

type entry struct {
	instrument types.Instrument
	history    *PriceHistory
}

// MarketState is the registry of instruments and their histories.
type MarketState struct {
	mu              sync.RWMutex
	entries         map[string]*entry
	historyCapacity int
}

// NewMarketState creates an empty market state. historyCapacity bounds each
// instrument's rolling window.
func NewMarketState(historyCapacity int) *MarketState {
	return &MarketState{
		entries:         make(map[string]*entry),
		historyCapacity: historyCapacity,
	}
}

// IngestPrice appends a price/volume sample for the symbol, creating the
// instrument on first sight.
func (m *MarketState) IngestPrice(symbol string, class types.AssetClass, price, volume float64, timestamp time.Time) error {
	if price <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPrice, "price must be positive, got %f", price)
	}

	if !class.Valid() {
		return errors.Newf(errors.ErrCodeUnknownAssetClass, "unknown asset class %q", class)
	}

	m.mu.Lock()
	e, ok := m.entries[symbol]
	if !ok {
		e = &entry{
			instrument: types.Instrument{
				Symbol:     symbol,
				AssetClass: class,
				Active:     true,
			},
			history: NewPriceHistory(m.historyCapacity),
		}
		m.entries[symbol] = e
	}

	e.instrument.CurrentPrice = price
	e.instrument.UpdatedAt = timestamp
	history := e.history
	m.mu.Unlock()

	// Ring buffer append has its own lock; ticks may be ingested
	// concurrently with snapshot reads.
	history.Append(types.PricePoint{Price: price, Volume: volume, Timestamp: timestamp})

	return nil
}

// Instrument returns the instrument for the symbol.
func (m *MarketState) Instrument(symbol string) (types.Instrument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[symbol]
	if !ok {
		return types.Instrument{}, errors.Newf(errors.ErrCodeUnknownInstrument, "unknown instrument %q", symbol)
	}

	return e.instrument, nil
}

// CurrentPrice returns the last ingested price for the symbol.
func (m *MarketState) CurrentPrice(symbol string) (float64, error) {
	inst, err := m.Instrument(symbol)
	if err != nil {
		return 0, err
	}

	return inst.CurrentPrice, nil
}

// CurrentPrices returns the last price for every known instrument.
func (m *MarketState) CurrentPrices() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prices := make(map[string]float64, len(m.entries))
	for symbol, e := range m.entries {
		prices[symbol] = e.instrument.CurrentPrice
	}

	return prices
}

// History returns a chronological snapshot of the symbol's price history.
func (m *MarketState) History(symbol string) ([]types.PricePoint, error) {
	m.mu.RLock()
	e, ok := m.entries[symbol]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownInstrument, "unknown instrument %q", symbol)
	}

	return e.history.Snapshot(), nil
}

// ActiveInstruments returns all active instruments sorted by symbol.
func (m *MarketState) ActiveInstruments() []types.Instrument {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Instrument, 0, len(m.entries))

	for _, e := range m.entries {
		if e.instrument.Active {
			out = append(out, e.instrument)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })

	return out
}

// Deactivate marks an instrument inactive. Its history is retained.
func (m *MarketState) Deactivate(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[symbol]
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownInstrument, "unknown instrument %q", symbol)
	}

	e.instrument.Active = false

	return nil
}
