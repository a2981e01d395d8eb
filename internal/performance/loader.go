package performance

import (
	"bytes"
	"context"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// RandomSource supplies the jitter for synthetic live returns.
type RandomSource interface {
	Float64() float64
}

// NewSeededRandom returns a reproducible RandomSource.
func NewSeededRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// Loader builds the merged return series from a portfolio and a benchmark source.
type Loader struct {
	Portfolio Source
	Benchmark Source
	// Random drives the live-return jitter; nil uses the unseeded global source.
	Random RandomSource
}

// Load fetches both sources concurrently, then parses and merges them.
func (l *Loader) Load(ctx context.Context) ([]ReturnRecord, error) {
	var portfolioBody, benchmarkBody []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := readSource(gctx, l.Portfolio)
		if err != nil {
			return &LoadError{Source: l.Portfolio.Name(), Stage: "fetch", Err: err}
		}
		portfolioBody = b
		return nil
	})
	g.Go(func() error {
		b, err := readSource(gctx, l.Benchmark)
		if err != nil {
			return &LoadError{Source: l.Benchmark.Name(), Stage: "fetch", Err: err}
		}
		benchmarkBody = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	balances, err := ParseBalances(bytes.NewReader(portfolioBody))
	if err != nil {
		return nil, &LoadError{Source: l.Portfolio.Name(), Stage: "parse", Err: err}
	}
	closes, err := ParseCloses(bytes.NewReader(benchmarkBody))
	if err != nil {
		return nil, &LoadError{Source: l.Benchmark.Name(), Stage: "parse", Err: err}
	}

	rnd := l.Random
	if rnd == nil {
		rnd = globalRandom{}
	}
	series := Merge(balances, NewBenchmarkIndex(closes), rnd)
	log.Info().Int("points", len(series)).Int("portfolio_rows", len(balances)).Int("benchmark_rows", len(closes)).Msg("performance series loaded")
	return series, nil
}

// LoadOrFallback never fails: any load error is logged and the fixed
// fallback series is returned with fallback set.
func (l *Loader) LoadOrFallback(ctx context.Context) (series []ReturnRecord, fallback bool) {
	series, err := l.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("performance data unavailable, serving fallback series")
		return FallbackSeries(), true
	}
	return series, false
}

// Merge turns balances into percentage returns against the first balance and
// the benchmark close aligned to the first balance date.
func Merge(balances []RawBalancePoint, bench *BenchmarkIndex, rnd RandomSource) []ReturnRecord {
	if len(balances) == 0 {
		return nil
	}
	base := balances[0].Balance
	if base == 0 {
		base = 100
	}
	benchBase := bench.Baseline(balances[0].Date)

	out := make([]ReturnRecord, 0, len(balances))
	for _, p := range balances {
		bt := (p.Balance - base) / base * 100
		bv := bench.Align(p.Date, benchBase)
		out = append(out, ReturnRecord{
			Date:      p.Date,
			Backtest:  bt,
			Benchmark: (bv - benchBase) / benchBase * 100,
			Live:      bt * (0.92 + rnd.Float64()*0.16),
		})
	}
	return out
}

// FallbackSeries is the fixed two-point series served when loading fails.
func FallbackSeries() []ReturnRecord {
	return []ReturnRecord{
		{Date: time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Date: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), Backtest: 199.1, Benchmark: 355.6, Live: 189.6},
	}
}
