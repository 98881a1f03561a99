package main

import (
	"math/rand"
	"time"

	"github.com/quantpulse-lab/quantpulse/internal/config"
	"github.com/quantpulse-lab/quantpulse/internal/engine"
	"github.com/quantpulse-lab/quantpulse/internal/types"
)

// simFeed drives the engine with a seeded random-walk price feed and serves
// synthetic social metrics for meme-coin symbols. Runs are reproducible for
// a given seed.
type simFeed struct {
	rng    *rand.Rand
	prices map[string]float64
	cfg    config.Config
}

// startPrices gives each asset class a plausible price scale.
var startPrices = map[types.AssetClass]float64{
	types.AssetClassStock:    150,
	types.AssetClassCrypto:   40000,
	types.AssetClassMemeCoin: 0.08,
}

// driftByClass biases the walk so the simulation produces both entries and
// exits over a run.
var driftByClass = map[types.AssetClass]float64{
	types.AssetClassStock:    0.0002,
	types.AssetClassCrypto:   0.0004,
	types.AssetClassMemeCoin: 0.0,
}

func newSimFeed(cfg config.Config, seed int64) *simFeed {
	f := &simFeed{
		rng:    rand.New(rand.NewSource(seed)),
		prices: make(map[string]float64, len(cfg.Universe)),
		cfg:    cfg,
	}

	for _, entry := range cfg.Universe {
		f.prices[entry.Symbol] = startPrices[entry.AssetClass]
	}

	return f
}

// Tick advances every symbol one step and ingests the new samples.
func (f *simFeed) Tick(eng *engine.Engine, now time.Time) error {
	for _, entry := range f.cfg.Universe {
		price := f.prices[entry.Symbol]

		volatility := 0.01
		if entry.AssetClass == types.AssetClassMemeCoin {
			volatility = 0.04
		}

		step := driftByClass[entry.AssetClass] + volatility*f.rng.NormFloat64()

		price *= 1 + step
		if price <= 0 {
			price = startPrices[entry.AssetClass]
		}

		f.prices[entry.Symbol] = price

		volume := 1e6 * (0.5 + f.rng.Float64())

		if err := eng.IngestPrice(entry.Symbol, price, volume, now); err != nil {
			return err
		}
	}

	return nil
}

// Metrics implements strategy.SocialMetricsProvider with synthetic values.
func (f *simFeed) Metrics(string) (types.SocialMetrics, error) {
	return types.SocialMetrics{
		MentionGrowth:  f.rng.Float64() * 1000,
		SentimentScore: f.rng.Float64(),
		WhaleBuyCount:  f.rng.Intn(6),
		WhaleSellCount: f.rng.Intn(4),
	}, nil
}
