// Package portfolio owns cash balance, position lifecycle, and realized/
// unrealized P&L for one portfolio. The type is not internally synchronized:
// every mutation goes through the order execution engine, which serializes
// access per portfolio.
package portfolio

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// Portfolio is the accounting state for one portfolio.
type Portfolio struct {
	id          string
	cash        float64
	initialCash float64
	positions   map[string]*types.Position

	realizedPnL   float64
	totalTrades   int
	winningTrades int
	losingTrades  int
	sumWins       float64
	sumLosses     float64 // stored as a positive magnitude

	// Daily realized P&L, reset on UTC date rollover.
	dailyRealized float64
	dailyDate     string
}

// NewPortfolio creates a portfolio with the given starting cash.
func NewPortfolio(id string, initialCash float64) *Portfolio {
	return &Portfolio{
		id:          id,
		cash:        initialCash,
		initialCash: initialCash,
		positions:   make(map[string]*types.Position),
	}
}

// ID returns the portfolio identifier.
func (p *Portfolio) ID() string {
	return p.id
}

// CashBalance returns the current cash balance.
func (p *Portfolio) CashBalance() float64 {
	return p.cash
}

// InvestedValue is the sum of open position market values.
func (p *Portfolio) InvestedValue() float64 {
	total := 0.0
	for _, pos := range p.positions {
		total += pos.MarketValue()
	}

	return total
}

// TotalValue is cash plus invested value.
func (p *Portfolio) TotalValue() float64 {
	return p.cash + p.InvestedValue()
}

// UnrealizedPnL is the sum of open position unrealized P&L.
func (p *Portfolio) UnrealizedPnL() float64 {
	total := 0.0
	for _, pos := range p.positions {
		total += pos.UnrealizedPnL
	}

	return total
}

// OpenPositionCount returns the number of open positions.
func (p *Portfolio) OpenPositionCount() int {
	return len(p.positions)
}

// HasOpenPosition reports whether the symbol has an open position.
func (p *Portfolio) HasOpenPosition(symbol string) bool {
	_, ok := p.positions[symbol]

	return ok
}

// PositionValue returns the market value of the symbol's open position, or
// zero when there is none.
func (p *Portfolio) PositionValue(symbol string) float64 {
	pos, ok := p.positions[symbol]
	if !ok {
		return 0
	}

	return pos.MarketValue()
}

// PositionQuantity returns the open quantity for the symbol, or zero.
func (p *Portfolio) PositionQuantity(symbol string) float64 {
	pos, ok := p.positions[symbol]
	if !ok {
		return 0
	}

	return pos.Quantity
}

// DailyPnL is today's realized P&L plus current unrealized P&L, used by the
// daily-loss risk check. The realized component resets on UTC date rollover.
func (p *Portfolio) DailyPnL(now time.Time) float64 {
	p.rollDaily(now)

	return p.dailyRealized + p.UnrealizedPnL()
}

func (p *Portfolio) rollDaily(now time.Time) {
	date := now.UTC().Format("2006-01-02")
	if date != p.dailyDate {
		p.dailyDate = date
		p.dailyRealized = 0
	}
}

// Buy debits cash and opens or averages up the symbol's position. The cash
// invariant is hard: an order that would drive cash negative is rejected and
// the portfolio is left unmodified.
func (p *Portfolio) Buy(symbol string, quantity, price float64, now time.Time) error {
	cost, _ := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Float64()
	if cost > p.cash {
		return errors.Newf(errors.ErrCodeInsufficientFunds,
			"order cost %.2f exceeds cash balance %.2f", cost, p.cash)
	}

	p.rollDaily(now)
	p.cash -= cost

	pos, ok := p.positions[symbol]
	if !ok {
		p.positions[symbol] = &types.Position{
			Symbol:       symbol,
			Quantity:     quantity,
			AverageCost:  price,
			CurrentPrice: price,
			OpenedAt:     now,
		}
	} else {
		// Volume-weighted average cost, computed with decimals so that
		// (q1*p1 + q2*p2) / (q1+q2) holds exactly.
		oldValue := decimal.NewFromFloat(pos.Quantity).Mul(decimal.NewFromFloat(pos.AverageCost))
		newValue := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price))
		totalQty := decimal.NewFromFloat(pos.Quantity).Add(decimal.NewFromFloat(quantity))

		avg, _ := oldValue.Add(newValue).Div(totalQty).Float64()
		qty, _ := totalQty.Float64()

		pos.AverageCost = avg
		pos.Quantity = qty
		pos.CurrentPrice = price
		pos.UnrealizedPnL = pos.Quantity * (pos.CurrentPrice - pos.AverageCost)
	}

	p.totalTrades++

	return nil
}

// Sell credits cash, reduces the symbol's position, and realizes P&L.
// Selling more than held is rejected, not clamped.
func (p *Portfolio) Sell(symbol string, quantity, price float64, now time.Time) (float64, error) {
	pos, ok := p.positions[symbol]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInsufficientPosition, "no open position in %s", symbol)
	}

	if quantity > pos.Quantity {
		return 0, errors.Newf(errors.ErrCodeInsufficientPosition,
			"sell quantity %.4f exceeds held quantity %.4f in %s", quantity, pos.Quantity, symbol)
	}

	p.rollDaily(now)

	proceeds, _ := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Float64()
	p.cash += proceeds

	realized, _ := decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(pos.AverageCost))).
		Float64()

	remaining, _ := decimal.NewFromFloat(pos.Quantity).Sub(decimal.NewFromFloat(quantity)).Float64()

	pos.Quantity = remaining
	pos.CurrentPrice = price
	pos.UnrealizedPnL = pos.Quantity * (pos.CurrentPrice - pos.AverageCost)

	if pos.Quantity <= 0 {
		delete(p.positions, symbol)
	}

	p.realizedPnL += realized
	p.dailyRealized += realized
	p.totalTrades++

	if realized > 0 {
		p.winningTrades++
		p.sumWins += realized
	} else if realized < 0 {
		p.losingTrades++
		p.sumLosses += -realized
	}

	return realized, nil
}

// Revalue updates each open position's current price and unrealized P&L
// from the supplied price map. Symbols missing from the map keep their last
// price.
func (p *Portfolio) Revalue(prices map[string]float64) {
	for symbol, pos := range p.positions {
		price, ok := prices[symbol]
		if !ok || price <= 0 {
			continue
		}

		pos.CurrentPrice = price
		pos.UnrealizedPnL = pos.Quantity * (pos.CurrentPrice - pos.AverageCost)
	}
}

// WinRate is winning trades over total trades, in percent.
func (p *Portfolio) WinRate() float64 {
	if p.totalTrades == 0 {
		return 0
	}

	return float64(p.winningTrades) / float64(p.totalTrades) * 100
}

// ProfitFactor is the sum of wins over the magnitude of the sum of losses.
// +Inf when there are wins and no losses, 0 when there is neither.
func (p *Portfolio) ProfitFactor() float64 {
	if p.sumLosses == 0 {
		if p.sumWins > 0 {
			return math.Inf(1)
		}

		return 0
	}

	return p.sumWins / p.sumLosses
}

// Snapshot returns a read-only copy of the portfolio state.
func (p *Portfolio) Snapshot() types.PortfolioSnapshot {
	positions := make([]types.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		positions = append(positions, *pos)
	}

	return types.PortfolioSnapshot{
		PortfolioID:   p.id,
		CashBalance:   p.cash,
		InvestedValue: p.InvestedValue(),
		TotalValue:    p.TotalValue(),
		RealizedPnL:   p.realizedPnL,
		UnrealizedPnL: p.UnrealizedPnL(),
		TotalTrades:   p.totalTrades,
		WinningTrades: p.winningTrades,
		LosingTrades:  p.losingTrades,
		WinRate:       p.WinRate(),
		ProfitFactor:  p.ProfitFactor(),
		Positions:     positions,
	}
}

// PerformanceSummary derives the aggregate performance view.
func (p *Portfolio) PerformanceSummary() types.PerformanceSummary {
	roi := 0.0
	if p.initialCash > 0 {
		roi = (p.TotalValue() - p.initialCash) / p.initialCash * 100
	}

	return types.PerformanceSummary{
		ROI:           roi,
		TotalPnL:      p.realizedPnL + p.UnrealizedPnL(),
		WinRate:       p.WinRate(),
		ProfitFactor:  p.ProfitFactor(),
		RealizedPnL:   p.realizedPnL,
		UnrealizedPnL: p.UnrealizedPnL(),
	}
}
