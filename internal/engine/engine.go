// Package engine wires the market state, strategy evaluators, signal book,
// and execution engine into the single inbound surface callers use.
package engine

import (
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantpulse-lab/quantpulse/internal/config"
	"github.com/quantpulse-lab/quantpulse/internal/execution"
	"github.com/quantpulse-lab/quantpulse/internal/indicator"
	"github.com/quantpulse-lab/quantpulse/internal/journal"
	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/market"
	"github.com/quantpulse-lab/quantpulse/internal/signal"
	"github.com/quantpulse-lab/quantpulse/internal/strategy"
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

// Engine is the trading core facade.
type Engine struct {
	cfg      config.Config
	market   *market.MarketState
	registry *strategy.Registry
	book     *signal.Book
	exec     *execution.Engine
	journal  journal.Journal
	social   strategy.SocialMetricsProvider
	logger   *logger.Logger
	clock    func() time.Time
}

// New builds an engine from the configuration. social may be nil when no
// social metrics source is available; meme-coin strategies then stay silent.
func New(cfg config.Config, social strategy.SocialMetricsProvider, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	j, err := journal.NewDuckDBJournal(cfg.Journal.Path, log)
	if err != nil {
		return nil, err
	}

	marketState := market.NewMarketState(cfg.HistoryCapacity)

	exec := execution.NewEngine(marketState, j, log)
	if err := exec.RegisterPortfolio(cfg.Portfolio.ID, cfg.Portfolio.InitialCash, cfg.Risk); err != nil {
		j.Close()

		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		market:   marketState,
		registry: strategy.NewDefaultRegistry(),
		book:     signal.NewBook(),
		exec:     exec,
		journal:  j,
		social:   social,
		logger:   log,
		clock:    time.Now,
	}, nil
}

// SetClock overrides the engine clock. Intended for tests.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
	e.exec.SetClock(clock)
}

// PortfolioID returns the configured portfolio's ID.
func (e *Engine) PortfolioID() string {
	return e.cfg.Portfolio.ID
}

// Close releases the journal.
func (e *Engine) Close() error {
	return e.journal.Close()
}

// IngestPrice records a price/volume tick for a universe symbol. Symbols
// outside the configured universe are rejected.
func (e *Engine) IngestPrice(symbol string, price, volume float64, timestamp time.Time) error {
	class, ok := e.cfg.AssetClassFor(symbol)
	if !ok {
		return errors.Newf(errors.ErrCodeUnknownInstrument, "symbol %q is not in the configured universe", symbol)
	}

	return e.market.IngestPrice(symbol, class, price, volume, timestamp)
}

// SubmitOrder submits a manual or automated order for execution.
func (e *Engine) SubmitOrder(req types.OrderRequest) (types.Fill, error) {
	return e.exec.SubmitOrder(req)
}

// RegenerateSignals recomputes indicators and rebuilds the signal book for
// every active instrument. Instruments with insufficient history are
// skipped; their stale signals are retracted so the book never carries a
// signal the current data cannot support.
func (e *Engine) RegenerateSignals() {
	now := e.clock()

	for _, inst := range e.market.ActiveInstruments() {
		history, err := e.market.History(inst.Symbol)
		if err != nil {
			continue
		}

		snapshot, err := indicator.Compute(inst.Symbol, history)
		if err != nil {
			if errors.IsInsufficientHistoryError(err) {
				e.book.Retract(inst.Symbol)
				e.logger.Debug("skipping instrument with insufficient history",
					zap.String("symbol", inst.Symbol))

				continue
			}

			e.logger.Warn("indicator computation failed",
				zap.String("symbol", inst.Symbol), zap.Error(err))

			continue
		}

		input := strategy.Input{
			Symbol:     inst.Symbol,
			Price:      inst.CurrentPrice,
			Indicators: snapshot,
			Social:     e.socialMetrics(inst),
		}

		var candidates []types.CandidateSignal

		for _, evaluator := range e.registry.Evaluators(inst.AssetClass) {
			if candidate := evaluator.Evaluate(input); candidate.IsSome() {
				candidates = append(candidates, candidate.Unwrap())
			}
		}

		result := signal.Arbitrate(inst.Symbol, inst.AssetClass, snapshot, candidates, now)
		if result.IsNone() {
			e.book.Retract(inst.Symbol)

			continue
		}

		e.book.Publish(result.Unwrap())
	}
}

func (e *Engine) socialMetrics(inst types.Instrument) optional.Option[types.SocialMetrics] {
	if e.social == nil || inst.AssetClass != types.AssetClassMemeCoin {
		return optional.None[types.SocialMetrics]()
	}

	metrics, err := e.social.Metrics(inst.Symbol)
	if err != nil {
		e.logger.Warn("social metrics unavailable",
			zap.String("symbol", inst.Symbol), zap.Error(err))

		return optional.None[types.SocialMetrics]()
	}

	return optional.Some(metrics)
}

// GetActiveSignals returns the active signals, optionally filtered by asset
// class, best first.
func (e *Engine) GetActiveSignals(classFilter optional.Option[types.AssetClass]) []types.TradingSignal {
	return e.book.Active(classFilter)
}

// GetSignal returns the active signal for one symbol.
func (e *Engine) GetSignal(symbol string) optional.Option[types.TradingSignal] {
	return e.book.Get(symbol)
}

// RetractSignal drops the active signal for a symbol.
func (e *Engine) RetractSignal(symbol string) {
	e.book.Retract(symbol)
}

// MarketAnalysis summarizes the current signal book.
func (e *Engine) MarketAnalysis() signal.MarketAnalysis {
	return e.book.Analyze()
}

// Recommendation pairs an active signal with its expected return.
type Recommendation struct {
	Signal         types.TradingSignal `json:"signal" yaml:"signal"`
	ExpectedReturn float64             `json:"expected_return_pct" yaml:"expected_return_pct"`
}

// Recommendations returns up to max active buy signals, best first, with
// their expected return percentages.
func (e *Engine) Recommendations(max int) []Recommendation {
	signals := e.book.Active(optional.None[types.AssetClass]())

	out := make([]Recommendation, 0, max)

	for _, s := range signals {
		if s.Direction != types.DirectionBuy {
			continue
		}

		out = append(out, Recommendation{Signal: s, ExpectedReturn: s.ExpectedReturn()})
		if len(out) == max {
			break
		}
	}

	return out
}

// Revalue refreshes portfolio valuations from current prices.
func (e *Engine) Revalue() {
	e.exec.Revalue()
}

// GetPortfolioSnapshot returns the configured portfolio's state.
func (e *Engine) GetPortfolioSnapshot() (types.PortfolioSnapshot, error) {
	return e.exec.Snapshot(e.cfg.Portfolio.ID)
}

// GetPerformanceSummary returns the configured portfolio's performance.
func (e *Engine) GetPerformanceSummary() (types.PerformanceSummary, error) {
	return e.exec.Summary(e.cfg.Portfolio.ID)
}

// Orders returns the journaled orders for the configured portfolio.
func (e *Engine) Orders() ([]types.Order, error) {
	return e.journal.Orders(e.cfg.Portfolio.ID)
}

// Trades returns the journaled trades for the configured portfolio.
func (e *Engine) Trades() ([]types.TradeRecord, error) {
	return e.journal.Trades(e.cfg.Portfolio.ID)
}
