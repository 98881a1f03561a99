// Package execution is the single mutation gateway for portfolios. Every
// order, manual or automated, is validated, priced, risk-checked, and
// settled here under the owning portfolio's lock, then journaled.
package execution

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantpulse-lab/quantpulse/internal/journal"
	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/market"
	"github.com/quantpulse-lab/quantpulse/internal/portfolio"
	"github.com/quantpulse-lab/quantpulse/internal/risk"
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// managedPortfolio pairs a portfolio with its risk limits and the mutex
// that serializes all access to it.
type managedPortfolio struct {
	mu        sync.Mutex
	portfolio *portfolio.Portfolio
	limits    types.RiskLimits
}

// Engine executes orders against registered portfolios.
type Engine struct {
	mu         sync.RWMutex
	portfolios map[string]*managedPortfolio

	market   *market.MarketState
	journal  journal.Journal
	logger   *logger.Logger
	validate *validator.Validate

	// clock is swappable for tests.
	clock func() time.Time
}

// NewEngine creates an execution engine over the given market state and
// journal.
func NewEngine(marketState *market.MarketState, j journal.Journal, log *logger.Logger) *Engine {
	return &Engine{
		portfolios: make(map[string]*managedPortfolio),
		market:     marketState,
		journal:    j,
		logger:     log,
		validate:   validator.New(),
		clock:      time.Now,
	}
}

// SetClock overrides the engine clock. Intended for tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// RegisterPortfolio creates a portfolio with the given starting cash and
// risk limits.
func (e *Engine) RegisterPortfolio(id string, initialCash float64, limits types.RiskLimits) error {
	if initialCash <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "initial cash must be positive, got %f", initialCash)
	}

	if err := e.validate.Struct(limits); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid risk limits", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.portfolios[id]; ok {
		return errors.Newf(errors.ErrCodeInvalidParameter, "portfolio %q already registered", id)
	}

	e.portfolios[id] = &managedPortfolio{
		portfolio: portfolio.NewPortfolio(id, initialCash),
		limits:    limits,
	}

	return nil
}

func (e *Engine) managed(id string) (*managedPortfolio, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	mp, ok := e.portfolios[id]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeUnknownPortfolio, "unknown portfolio %q", id)
	}

	return mp, nil
}

// SubmitOrder validates, prices, risk-checks, and settles the order. The
// returned error carries the rejection reason; on rejection the portfolio is
// untouched. Both outcomes are journaled.
func (e *Engine) SubmitOrder(req types.OrderRequest) (types.Fill, error) {
	if err := req.Validate(); err != nil {
		return types.Fill{}, err
	}

	mp, err := e.managed(req.PortfolioID)
	if err != nil {
		return types.Fill{}, err
	}

	inst, err := e.market.Instrument(req.Symbol)
	if err != nil {
		return types.Fill{}, err
	}

	if !inst.Active {
		return types.Fill{}, errors.Newf(errors.ErrCodeInactiveInstrument, "instrument %q is inactive", req.Symbol)
	}

	now := e.clock()
	orderID := uuid.New().String()

	mp.mu.Lock()
	defer mp.mu.Unlock()

	// Re-read the price under the portfolio lock so the fill price and the
	// risk checks see the same value.
	price, err := e.market.CurrentPrice(req.Symbol)
	if err != nil {
		return types.Fill{}, err
	}

	fill, execErr := e.executeLocked(mp, req, orderID, price, now)
	if execErr != nil {
		e.recordRejection(req, orderID, execErr, now)

		return types.Fill{}, execErr
	}

	e.recordFill(mp.portfolio.ID(), req, fill)

	e.logger.Info("order filled",
		zap.String("order_id", fill.OrderID),
		zap.String("portfolio_id", req.PortfolioID),
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("quantity", fill.Quantity),
		zap.Float64("price", fill.Price),
	)

	return fill, nil
}

// executeLocked runs the limit check, the risk checks, and the settlement
// as one atomic step. Caller holds mp.mu.
func (e *Engine) executeLocked(mp *managedPortfolio, req types.OrderRequest, orderID string, price float64, now time.Time) (types.Fill, error) {
	// Limit orders fill immediately or not at all; there is no resting book.
	if req.OrderType == types.OrderTypeLimit {
		limit := req.LimitPrice.Unwrap()

		if req.Side == types.SideBuy && price > limit {
			return types.Fill{}, errors.Newf(errors.ErrCodeLimitNotReached,
				"current price %.4f above buy limit %.4f", price, limit)
		}

		if req.Side == types.SideSell && price < limit {
			return types.Fill{}, errors.Newf(errors.ErrCodeLimitNotReached,
				"current price %.4f below sell limit %.4f", price, limit)
		}
	}

	if err := risk.Admit(req, mp.portfolio, mp.limits, price, now); err != nil {
		return types.Fill{}, err
	}

	realized := 0.0

	switch req.Side {
	case types.SideBuy:
		if err := mp.portfolio.Buy(req.Symbol, req.Quantity, price, now); err != nil {
			return types.Fill{}, err
		}
	case types.SideSell:
		var err error

		realized, err = mp.portfolio.Sell(req.Symbol, req.Quantity, price, now)
		if err != nil {
			return types.Fill{}, err
		}
	}

	return types.Fill{
		OrderID:     orderID,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Quantity:    req.Quantity,
		Price:       price,
		RealizedPnL: realized,
		Timestamp:   now,
	}, nil
}

func orderReason(req types.OrderRequest) string {
	if req.Automated {
		return types.OrderReasonAutomated
	}

	return types.OrderReasonManual
}

// recordFill journals the filled order and its trade. The fill already
// settled; journal failures are logged, not propagated.
func (e *Engine) recordFill(portfolioID string, req types.OrderRequest, fill types.Fill) {
	order := types.Order{
		OrderID:     fill.OrderID,
		PortfolioID: portfolioID,
		Symbol:      fill.Symbol,
		Side:        fill.Side,
		Quantity:    fill.Quantity,
		OrderType:   req.OrderType,
		Status:      types.OrderStatusFilled,
		Price:       fill.Price,
		Reason:      orderReason(req),
		Strategy:    req.Strategy,
		Timestamp:   fill.Timestamp,
	}

	if err := e.journal.RecordOrder(order); err != nil {
		e.logger.Error("failed to journal order", zap.String("order_id", order.OrderID), zap.Error(err))
	}

	trade := types.TradeRecord{
		TradeID:     uuid.New().String(),
		OrderID:     fill.OrderID,
		PortfolioID: portfolioID,
		Symbol:      fill.Symbol,
		Side:        fill.Side,
		Quantity:    fill.Quantity,
		Price:       fill.Price,
		RealizedPnL: fill.RealizedPnL,
		Strategy:    req.Strategy,
		Timestamp:   fill.Timestamp,
	}

	if err := e.journal.RecordTrade(trade); err != nil {
		e.logger.Error("failed to journal trade", zap.String("trade_id", trade.TradeID), zap.Error(err))
	}
}

func (e *Engine) recordRejection(req types.OrderRequest, orderID string, cause error, now time.Time) {
	order := types.Order{
		OrderID:      orderID,
		PortfolioID:  req.PortfolioID,
		Symbol:       req.Symbol,
		Side:         req.Side,
		Quantity:     req.Quantity,
		OrderType:    req.OrderType,
		Status:       types.OrderStatusRejected,
		Reason:       orderReason(req),
		RejectReason: cause.Error(),
		Strategy:     req.Strategy,
		Timestamp:    now,
	}

	if err := e.journal.RecordOrder(order); err != nil {
		e.logger.Error("failed to journal rejected order", zap.String("order_id", orderID), zap.Error(err))
	}

	e.logger.Warn("order rejected",
		zap.String("order_id", orderID),
		zap.String("portfolio_id", req.PortfolioID),
		zap.String("symbol", req.Symbol),
		zap.String("reason", cause.Error()),
	)
}

// Revalue refreshes every portfolio's position prices from the market state.
func (e *Engine) Revalue() {
	prices := e.market.CurrentPrices()

	e.mu.RLock()
	managed := make([]*managedPortfolio, 0, len(e.portfolios))
	for _, mp := range e.portfolios {
		managed = append(managed, mp)
	}
	e.mu.RUnlock()

	for _, mp := range managed {
		mp.mu.Lock()
		mp.portfolio.Revalue(prices)
		mp.mu.Unlock()
	}
}

// Snapshot returns the portfolio's current state.
func (e *Engine) Snapshot(portfolioID string) (types.PortfolioSnapshot, error) {
	mp, err := e.managed(portfolioID)
	if err != nil {
		return types.PortfolioSnapshot{}, err
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	return mp.portfolio.Snapshot(), nil
}

// Summary returns the portfolio's performance summary.
func (e *Engine) Summary(portfolioID string) (types.PerformanceSummary, error) {
	mp, err := e.managed(portfolioID)
	if err != nil {
		return types.PerformanceSummary{}, err
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	return mp.portfolio.PerformanceSummary(), nil
}

// Limits returns the portfolio's configured risk limits.
func (e *Engine) Limits(portfolioID string) (types.RiskLimits, error) {
	mp, err := e.managed(portfolioID)
	if err != nil {
		return types.RiskLimits{}, err
	}

	return mp.limits, nil
}

// PortfolioIDs returns the registered portfolio IDs.
func (e *Engine) PortfolioIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.portfolios))
	for id := range e.portfolios {
		ids = append(ids, id)
	}

	return ids
}
