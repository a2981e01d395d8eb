package performance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(d string, backtest, benchmark, live float64) ReturnRecord {
	return ReturnRecord{Date: date(d), Backtest: backtest, Benchmark: benchmark, Live: live}
}

// fixedRandom always returns the same jitter draw.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

func staticLoader(portfolio, benchmark string) *Loader {
	return &Loader{
		Portfolio: &StaticSource{Label: "portfolio", Body: []byte(portfolio)},
		Benchmark: &StaticSource{Label: "benchmark", Body: []byte(benchmark)},
		Random:    fixedRandom(0.5),
	}
}

func mustLoad(t *testing.T, portfolio, benchmark string) []ReturnRecord {
	t.Helper()
	series, err := staticLoader(portfolio, benchmark).Load(context.Background())
	require.NoError(t, err)
	return series
}
