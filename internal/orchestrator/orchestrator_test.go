package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantpulse-lab/quantpulse/internal/config"
	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/types"
	"github.com/quantpulse-lab/quantpulse/pkg/errors"
)

type fakeCore struct {
	mu        sync.Mutex
	signals   []types.TradingSignal
	snapshot  types.PortfolioSnapshot
	submitted []types.OrderRequest
	retracted []string
	// submitErr rejects orders for the given symbols.
	submitErr map[string]error
	// signalsGate, when set, blocks GetActiveSignals until closed.
	signalsGate chan struct{}
}

func (f *fakeCore) Revalue()           {}
func (f *fakeCore) RegenerateSignals() {}

func (f *fakeCore) GetActiveSignals(optional.Option[types.AssetClass]) []types.TradingSignal {
	if f.signalsGate != nil {
		<-f.signalsGate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]types.TradingSignal(nil), f.signals...)
}

func (f *fakeCore) GetPortfolioSnapshot() (types.PortfolioSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.snapshot, nil
}

func (f *fakeCore) SubmitOrder(req types.OrderRequest) (types.Fill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.submitErr[req.Symbol]; ok {
		return types.Fill{}, err
	}

	f.submitted = append(f.submitted, req)

	return types.Fill{Symbol: req.Symbol, Side: req.Side, Quantity: req.Quantity}, nil
}

func (f *fakeCore) RetractSignal(symbol string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.retracted = append(f.retracted, symbol)
}

func (f *fakeCore) submittedSymbols() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.submitted))
	for _, req := range f.submitted {
		out = append(out, req.Symbol)
	}

	return out
}

func buySignal(symbol string, class types.AssetClass, confidence, entry float64) types.TradingSignal {
	return types.TradingSignal{
		Symbol:     symbol,
		AssetClass: class,
		Direction:  types.DirectionBuy,
		Confidence: confidence,
		EntryPrice: entry,
		Strategy:   "momentum_trading",
		Timestamp:  time.Now(),
	}
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Portfolio = config.PortfolioConfig{ID: "main", InitialCash: 10000}
	cfg.Universe = []config.UniverseEntry{{Symbol: "AAPL", AssetClass: types.AssetClassStock}}
	cfg.AutoTrade.Enabled = true

	return cfg
}

func flatSnapshot(cash float64) types.PortfolioSnapshot {
	return types.PortfolioSnapshot{
		PortfolioID: "main",
		CashBalance: cash,
		TotalValue:  cash,
	}
}

func TestSweepSubmitsSizedBuyOrder(t *testing.T) {
	core := &fakeCore{
		signals:  []types.TradingSignal{buySignal("AAPL", types.AssetClassStock, 0.8, 100)},
		snapshot: flatSnapshot(10000),
	}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	require.Len(t, core.submitted, 1)
	req := core.submitted[0]
	assert.Equal(t, types.SideBuy, req.Side)
	// 10% of 10000 at price 100.
	assert.InDelta(t, 10.0, req.Quantity, 1e-9)
	assert.True(t, req.Automated)
	assert.Equal(t, 0.8, req.Confidence)
	assert.Equal(t, "momentum_trading", req.Strategy)
	assert.Equal(t, []string{"AAPL"}, core.retracted)
	assert.Equal(t, StateIdle, o.State())
}

func TestSweepRespectsNotionalCap(t *testing.T) {
	core := &fakeCore{
		signals:  []types.TradingSignal{buySignal("AAPL", types.AssetClassStock, 0.8, 100)},
		snapshot: flatSnapshot(10000),
	}

	cfg := testConfig()
	cfg.AutoTrade.MaxNotional = 500

	o := New(core, cfg, logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	require.Len(t, core.submitted, 1)
	assert.InDelta(t, 5.0, core.submitted[0].Quantity, 1e-9)
}

func TestSweepSizingCappedByCash(t *testing.T) {
	core := &fakeCore{
		signals: []types.TradingSignal{buySignal("AAPL", types.AssetClassStock, 0.8, 100)},
		snapshot: types.PortfolioSnapshot{
			PortfolioID: "main",
			CashBalance: 300,
			TotalValue:  10000,
		},
	}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	require.Len(t, core.submitted, 1)
	assert.InDelta(t, 3.0, core.submitted[0].Quantity, 1e-9)
}

func TestSweepSellClosesHeldPosition(t *testing.T) {
	sell := buySignal("AAPL", types.AssetClassStock, 0.7, 100)
	sell.Direction = types.DirectionSell

	snapshot := flatSnapshot(10000)
	snapshot.Positions = []types.Position{{Symbol: "AAPL", Quantity: 7, CurrentPrice: 100}}

	core := &fakeCore{signals: []types.TradingSignal{sell}, snapshot: snapshot}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	require.Len(t, core.submitted, 1)
	assert.Equal(t, types.SideSell, core.submitted[0].Side)
	assert.Equal(t, 7.0, core.submitted[0].Quantity)
}

func TestSweepSellWithoutPositionSkipped(t *testing.T) {
	sell := buySignal("AAPL", types.AssetClassStock, 0.7, 100)
	sell.Direction = types.DirectionSell

	core := &fakeCore{signals: []types.TradingSignal{sell}, snapshot: flatSnapshot(10000)}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	assert.Empty(t, core.submitted)
	assert.Empty(t, core.retracted, "unactioned signals stay in the book")
}

func TestSweepFailureIsolation(t *testing.T) {
	core := &fakeCore{
		signals: []types.TradingSignal{
			buySignal("AAPL", types.AssetClassStock, 0.9, 100),
			buySignal("MSFT", types.AssetClassStock, 0.8, 200),
		},
		snapshot: flatSnapshot(10000),
		submitErr: map[string]error{
			"AAPL": errors.New(errors.ErrCodeRiskLimitExceeded, "position already open in AAPL, pyramiding not allowed"),
		},
	}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	assert.Equal(t, []string{"MSFT"}, core.submittedSymbols())
	assert.Equal(t, []string{"MSFT"}, core.retracted, "rejected signal is not retracted")
}

func TestSweepFiltersDisabledAssetClasses(t *testing.T) {
	core := &fakeCore{
		signals: []types.TradingSignal{
			buySignal("BTC-USD", types.AssetClassCrypto, 0.9, 40000),
			buySignal("AAPL", types.AssetClassStock, 0.8, 100),
		},
		snapshot: flatSnapshot(100000),
	}

	cfg := testConfig()
	cfg.AutoTrade.AssetClasses = []types.AssetClass{types.AssetClassStock}

	o := New(core, cfg, logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	assert.Equal(t, []string{"AAPL"}, core.submittedSymbols())
}

func TestSweepProcessesBestFirst(t *testing.T) {
	// The book already returns confidence-descending order; the sweep must
	// preserve it.
	core := &fakeCore{
		signals: []types.TradingSignal{
			buySignal("MSFT", types.AssetClassStock, 0.9, 200),
			buySignal("AAPL", types.AssetClassStock, 0.7, 100),
		},
		snapshot: flatSnapshot(100000),
	}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Sweep(context.Background()))

	assert.Equal(t, []string{"MSFT", "AAPL"}, core.submittedSymbols())
}

func TestSweepCancelledContext(t *testing.T) {
	core := &fakeCore{
		signals:  []types.TradingSignal{buySignal("AAPL", types.AssetClassStock, 0.8, 100)},
		snapshot: flatSnapshot(10000),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(core, testConfig(), logger.NewNopLogger())
	err := o.Sweep(ctx)

	require.Error(t, err)
	assert.Empty(t, core.submitted)
	assert.Equal(t, StateIdle, o.State())
}

func TestSweepSkipsWhenAlreadyRunning(t *testing.T) {
	gate := make(chan struct{})
	core := &fakeCore{
		signals:     []types.TradingSignal{buySignal("AAPL", types.AssetClassStock, 0.8, 100)},
		snapshot:    flatSnapshot(10000),
		signalsGate: gate,
	}

	o := New(core, testConfig(), logger.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- o.Sweep(context.Background()) }()

	require.Eventually(t, func() bool { return o.State() != StateIdle }, time.Second, time.Millisecond)

	// Second sweep while the first is still evaluating.
	require.NoError(t, o.Sweep(context.Background()))
	assert.Empty(t, core.submittedSymbols())

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"AAPL"}, core.submittedSymbols())
}

func TestStartRejectsInvalidCron(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.SignalCron = "not a cron expression"

	o := New(&fakeCore{}, cfg, logger.NewNopLogger())
	err := o.Start(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestStartAndStop(t *testing.T) {
	core := &fakeCore{snapshot: flatSnapshot(10000)}

	o := New(core, testConfig(), logger.NewNopLogger())
	require.NoError(t, o.Start(context.Background()))
	o.Stop()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "EVALUATING", StateEvaluating.String())
	assert.Equal(t, "SUBMITTING", StateSubmitting.String())
}
