package types

import "time"

// Position is the net holding of one instrument within a portfolio.
// Quantity is always positive for open positions; short positions are not
// supported. A symbol has at most one open position per portfolio.
type Position struct {
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	// AverageCost is the volume-weighted average purchase price.
	AverageCost  float64 `json:"average_cost" yaml:"average_cost"`
	CurrentPrice float64 `json:"current_price" yaml:"current_price"`
	// UnrealizedPnL = Quantity * (CurrentPrice - AverageCost).
	UnrealizedPnL float64   `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	OpenedAt      time.Time `json:"opened_at" yaml:"opened_at"`
}

// MarketValue is the position's current market value.
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// PortfolioSnapshot is a read-only view of portfolio state.
type PortfolioSnapshot struct {
	PortfolioID   string     `json:"portfolio_id" yaml:"portfolio_id"`
	CashBalance   float64    `json:"cash_balance" yaml:"cash_balance"`
	InvestedValue float64    `json:"invested_value" yaml:"invested_value"`
	TotalValue    float64    `json:"total_value" yaml:"total_value"`
	RealizedPnL   float64    `json:"realized_pnl" yaml:"realized_pnl"`
	UnrealizedPnL float64    `json:"unrealized_pnl" yaml:"unrealized_pnl"`
	TotalTrades   int        `json:"total_trades" yaml:"total_trades"`
	WinningTrades int        `json:"winning_trades" yaml:"winning_trades"`
	LosingTrades  int        `json:"losing_trades" yaml:"losing_trades"`
	WinRate       float64    `json:"win_rate" yaml:"win_rate"`
	ProfitFactor  float64    `json:"profit_factor" yaml:"profit_factor"`
	Positions     []Position `json:"positions" yaml:"positions"`
}

// PerformanceSummary is a pure read derived from portfolio state.
type PerformanceSummary struct {
	ROI           float64 `json:"roi" yaml:"roi"`
	TotalPnL      float64 `json:"total_pnl" yaml:"total_pnl"`
	WinRate       float64 `json:"win_rate" yaml:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor" yaml:"profit_factor"`
	RealizedPnL   float64 `json:"realized_pnl" yaml:"realized_pnl"`
	UnrealizedPnL float64 `json:"unrealized_pnl" yaml:"unrealized_pnl"`
}

// RiskLimits is the externally configured per-portfolio risk policy.
type RiskLimits struct {
	// MaxPositionFraction is the share of total value one symbol may occupy.
	MaxPositionFraction float64 `json:"max_position_fraction" yaml:"max_position_fraction" validate:"gt=0,lte=1"`
	MaxOpenPositions    int     `json:"max_open_positions" yaml:"max_open_positions" validate:"gt=0"`
	// MinConfidenceThreshold is the confidence floor for automated entries.
	MinConfidenceThreshold float64 `json:"min_confidence_threshold" yaml:"min_confidence_threshold" validate:"gte=0,lte=1"`
	// DailyLossFraction caps today's loss as a share of total value.
	DailyLossFraction float64 `json:"daily_loss_fraction" yaml:"daily_loss_fraction" validate:"gt=0,lte=1"`
}
