// Package risk holds the stateless pre-trade policy checks. Every order
// passes through Admit before the execution engine mutates a portfolio; the
// first failing check rejects the order with the reason in the error message.
package risk

import (
	"time"

	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// PortfolioView is the read-only portfolio state the checks consult. The
// execution engine passes the portfolio itself, under its lock, so the view
// is consistent for the whole check sequence.
type PortfolioView interface {
	TotalValue() float64
	OpenPositionCount() int
	HasOpenPosition(symbol string) bool
	PositionValue(symbol string) float64
	DailyPnL(now time.Time) float64
}

// Admit runs the policy checks in order against the order request. The
// reference price is the price the order would execute at. A nil error means
// the order may proceed.
//
// Checks, in order:
//  1. automated orders must meet the minimum confidence threshold
//  2. automated buys must not pyramid into an existing position
//  3. buys opening a new position must respect the open-position cap
//  4. the projected position value must not exceed the per-position
//     fraction of total portfolio value
//  5. today's P&L must not already be past the daily loss limit
//
// Manual orders skip checks 1 and 2 so an operator can always intervene.
func Admit(req types.OrderRequest, view PortfolioView, limits types.RiskLimits, refPrice float64, now time.Time) error {
	if req.Automated && req.Confidence < limits.MinConfidenceThreshold {
		return errors.Newf(errors.ErrCodeRiskLimitExceeded,
			"confidence %.2f below minimum threshold %.2f", req.Confidence, limits.MinConfidenceThreshold)
	}

	if req.Automated && req.Side == types.SideBuy && view.HasOpenPosition(req.Symbol) {
		return errors.Newf(errors.ErrCodeRiskLimitExceeded,
			"position already open in %s, pyramiding not allowed", req.Symbol)
	}

	if req.Side == types.SideBuy && !view.HasOpenPosition(req.Symbol) &&
		view.OpenPositionCount() >= limits.MaxOpenPositions {
		return errors.Newf(errors.ErrCodeRiskLimitExceeded,
			"open position limit reached (%d)", limits.MaxOpenPositions)
	}

	if req.Side == types.SideBuy {
		total := view.TotalValue()
		if total > 0 {
			projected := view.PositionValue(req.Symbol) + req.Quantity*refPrice
			if projected/total > limits.MaxPositionFraction {
				return errors.Newf(errors.ErrCodeRiskLimitExceeded,
					"position value %.2f would exceed %.0f%% of portfolio value %.2f",
					projected, limits.MaxPositionFraction*100, total)
			}
		}
	}

	if limit := -limits.DailyLossFraction * view.TotalValue(); view.DailyPnL(now) < limit {
		return errors.Newf(errors.ErrCodeRiskLimitExceeded,
			"daily loss limit reached (%.2f below %.2f)", view.DailyPnL(now), limit)
	}

	return nil
}
