// Package journal persists the immutable order and trade history.
package journal

import (
	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// Journal records every order decision and every fill. Records are append
// only; nothing updates or deletes them.
type Journal interface {
	// RecordOrder appends an order in its terminal state (FILLED or REJECTED).
	RecordOrder(order types.Order) error
	// RecordTrade appends the trade produced by a fill.
	RecordTrade(trade types.TradeRecord) error
	// Orders returns the recorded orders for a portfolio, oldest first.
	Orders(portfolioID string) ([]types.Order, error)
	// Trades returns the recorded trades for a portfolio, oldest first.
	Trades(portfolioID string) ([]types.TradeRecord, error)
	Close() error
}
