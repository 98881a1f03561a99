package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/quantpulse-lab/quantpulse/internal/config"
	"github.com/quantpulse-lab/quantpulse/internal/engine"
	"github.com/quantpulse-lab/quantpulse/internal/logger"
	"github.com/quantpulse-lab/quantpulse/internal/orchestrator"
)

// runAction loads the config, wires the engine and orchestrator, and drives
// them with the simulated feed until the duration elapses or the process is
// interrupted.
func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	l, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	feed := newSimFeed(cfg, cmd.Int("seed"))

	eng, err := engine.New(cfg, feed, l)
	if err != nil {
		return err
	}
	defer eng.Close()

	orch := orchestrator.New(eng, cfg, l)
	if err := orch.Start(ctx); err != nil {
		return err
	}
	defer orch.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	duration := cmd.Duration("duration")
	if duration > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	interval := cmd.Duration("interval")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.Info("feed started",
		zap.String("portfolio", cfg.Portfolio.ID),
		zap.Int("universe", len(cfg.Universe)),
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			return report(eng, l)
		case now := <-ticker.C:
			if err := feed.Tick(eng, now); err != nil {
				l.Error("feed tick failed", zap.Error(err))
			}
		}
	}
}

// report logs the final portfolio and signal-book state.
func report(eng *engine.Engine, l *logger.Logger) error {
	snapshot, err := eng.GetPortfolioSnapshot()
	if err != nil {
		return err
	}

	summary, err := eng.GetPerformanceSummary()
	if err != nil {
		return err
	}

	analysis := eng.MarketAnalysis()

	l.Info("run complete",
		zap.Float64("total_value", snapshot.TotalValue),
		zap.Float64("cash", snapshot.CashBalance),
		zap.Float64("realized_pnl", snapshot.RealizedPnL),
		zap.Float64("unrealized_pnl", snapshot.UnrealizedPnL),
		zap.Int("total_trades", snapshot.TotalTrades),
		zap.Float64("win_rate", snapshot.WinRate),
		zap.Float64("roi_pct", summary.ROI),
		zap.Int("open_positions", len(snapshot.Positions)),
		zap.Int("active_signals", analysis.TotalSignals),
	)

	for _, rec := range eng.Recommendations(5) {
		l.Info("open recommendation",
			zap.String("symbol", rec.Signal.Symbol),
			zap.String("strategy", rec.Signal.Strategy),
			zap.Float64("confidence", rec.Signal.Confidence),
			zap.Float64("expected_return_pct", rec.ExpectedReturn),
		)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "quantpulse",
		Usage: "Run the trading core over a simulated market feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the YAML configuration file",
				Required: true,
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "How long to run the feed; 0 runs until interrupted",
				Value:   0,
			},
			&cli.DurationFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Interval between simulated ticks",
				Value:   time.Second,
			},
			&cli.IntFlag{
				Name:    "seed",
				Aliases: []string{"s"},
				Usage:   "Random seed for the simulated feed",
				Value:   42,
			},
		},
		Action: runAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
