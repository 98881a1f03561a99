// Package orchestrator runs the automated trading loop: scheduled
// revaluation, signal regeneration, and the trading sweep that turns active
// signals into orders.
package orchestrator

import (
	"context"
	"sync/atomic"

	"github.com/moznion/go-optional"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/quantpulse-lab/quantpulse/internal/config"
	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// TradingCore is the slice of the engine facade the orchestrator drives.
type TradingCore interface {
	Revalue()
	RegenerateSignals()
	GetActiveSignals(classFilter optional.Option[types.AssetClass]) []types.TradingSignal
	GetPortfolioSnapshot() (types.PortfolioSnapshot, error)
	SubmitOrder(req types.OrderRequest) (types.Fill, error)
	RetractSignal(symbol string)
}

// State is the sweep state machine's position.
type State int32

const (
	StateIdle State = iota
	StateEvaluating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateEvaluating:
		return "EVALUATING"
	case StateSubmitting:
		return "SUBMITTING"
	default:
		return "UNKNOWN"
	}
}

// Orchestrator schedules the periodic jobs and owns the trading sweep.
type Orchestrator struct {
	engine TradingCore
	cfg    config.Config
	logger *logger.Logger

	state atomic.Int32
	cron  *cron.Cron
}

// New creates an orchestrator over the trading core.
func New(eng TradingCore, cfg config.Config, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		engine: eng,
		cfg:    cfg,
		logger: log,
	}
}

// State returns the current sweep state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Start registers the cron jobs and starts the scheduler. The trading sweep
// is only scheduled when auto-trading is enabled.
func (o *Orchestrator) Start(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(o.cfg.Scheduler.RevalueCron, o.engine.Revalue); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid revalue cron expression", err)
	}

	if _, err := c.AddFunc(o.cfg.Scheduler.SignalCron, o.engine.RegenerateSignals); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid signal cron expression", err)
	}

	if o.cfg.AutoTrade.Enabled {
		_, err := c.AddFunc(o.cfg.Scheduler.TradeCron, func() {
			if err := o.Sweep(ctx); err != nil {
				o.logger.Error("trading sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid trade cron expression", err)
		}
	}

	o.cron = c
	c.Start()

	o.logger.Info("orchestrator started",
		zap.Bool("auto_trade", o.cfg.AutoTrade.Enabled),
		zap.String("trade_cron", o.cfg.Scheduler.TradeCron),
	)

	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (o *Orchestrator) Stop() {
	if o.cron != nil {
		<-o.cron.Stop().Done()
	}

	o.logger.Info("orchestrator stopped")
}

// Sweep walks the active signals best first and submits one automated order
// per actionable signal. A failure on one instrument never stops the sweep.
// Overlapping sweeps are skipped.
func (o *Orchestrator) Sweep(ctx context.Context) error {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateEvaluating)) {
		o.logger.Warn("sweep already in progress, skipping")

		return nil
	}
	defer o.state.Store(int32(StateIdle))

	signals := o.eligibleSignals()

	o.state.Store(int32(StateSubmitting))

	for _, sig := range signals {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.submit(sig)
	}

	return nil
}

// eligibleSignals returns the active signals for the enabled asset classes,
// best first. Book order is already confidence-descending; the class filter
// preserves it.
func (o *Orchestrator) eligibleSignals() []types.TradingSignal {
	signals := o.engine.GetActiveSignals(optional.None[types.AssetClass]())

	if len(o.cfg.AutoTrade.AssetClasses) == 0 {
		return signals
	}

	enabled := make(map[types.AssetClass]bool, len(o.cfg.AutoTrade.AssetClasses))
	for _, class := range o.cfg.AutoTrade.AssetClasses {
		enabled[class] = true
	}

	out := signals[:0]

	for _, sig := range signals {
		if enabled[sig.AssetClass] {
			out = append(out, sig)
		}
	}

	return out
}

// submit sizes and submits one order for the signal, retracting the signal
// once it has been acted on.
func (o *Orchestrator) submit(sig types.TradingSignal) {
	snapshot, err := o.engine.GetPortfolioSnapshot()
	if err != nil {
		o.logger.Error("portfolio snapshot failed", zap.Error(err))

		return
	}

	var quantity float64

	switch sig.Direction {
	case types.DirectionBuy:
		quantity = o.buyQuantity(sig, snapshot)
	case types.DirectionSell:
		quantity = heldQuantity(snapshot, sig.Symbol)
	}

	if quantity <= 0 {
		return
	}

	fill, err := o.engine.SubmitOrder(types.OrderRequest{
		PortfolioID: snapshot.PortfolioID,
		Symbol:      sig.Symbol,
		Side:        sideFor(sig.Direction),
		Quantity:    quantity,
		OrderType:   types.OrderTypeMarket,
		Automated:   true,
		Confidence:  sig.Confidence,
		Strategy:    sig.Strategy,
	})
	if err != nil {
		o.logger.Warn("automated order rejected",
			zap.String("symbol", sig.Symbol),
			zap.String("strategy", sig.Strategy),
			zap.Error(err),
		)

		return
	}

	o.engine.RetractSignal(sig.Symbol)

	o.logger.Info("automated order filled",
		zap.String("symbol", fill.Symbol),
		zap.String("side", string(fill.Side)),
		zap.Float64("quantity", fill.Quantity),
		zap.Float64("price", fill.Price),
		zap.String("strategy", sig.Strategy),
	)
}

// buyQuantity sizes a new entry: the per-position fraction of total value,
// capped by available cash and the configured notional cap.
func (o *Orchestrator) buyQuantity(sig types.TradingSignal, snapshot types.PortfolioSnapshot) float64 {
	if sig.EntryPrice <= 0 {
		return 0
	}

	notional := o.cfg.Risk.MaxPositionFraction * snapshot.TotalValue

	if notional > snapshot.CashBalance {
		notional = snapshot.CashBalance
	}

	if limit := o.cfg.AutoTrade.MaxNotional; limit > 0 && notional > limit {
		notional = limit
	}

	return notional / sig.EntryPrice
}

func heldQuantity(snapshot types.PortfolioSnapshot, symbol string) float64 {
	for _, pos := range snapshot.Positions {
		if pos.Symbol == symbol {
			return pos.Quantity
		}
	}

	return 0
}

func sideFor(direction types.Direction) types.Side {
	if direction == types.DirectionSell {
		return types.SideSell
	}

	return types.SideBuy
}
