package performance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scenarioPortfolio = "date,balance\n2020-01-01,100\n2021-01-01,150\n"
	scenarioBenchmark = "Date,Close\n01/01/2020,1000\n01/01/2021,1200\n"
)

func TestLoad_MergesScenario(t *testing.T) {
	series := mustLoad(t, scenarioPortfolio, scenarioBenchmark)
	require.Len(t, series, 2)

	assert.Equal(t, date("2020-01-01"), series[0].Date)
	assert.Equal(t, 0.0, series[0].Backtest)
	assert.Equal(t, 0.0, series[0].Benchmark)
	assert.Equal(t, 0.0, series[0].Live)

	assert.Equal(t, date("2021-01-01"), series[1].Date)
	assert.InDelta(t, 50.0, series[1].Backtest, 1e-9)
	assert.InDelta(t, 20.0, series[1].Benchmark, 1e-9)
	// jitter of 0.5 lands in the middle of the 92%-108% band
	assert.InDelta(t, 50.0, series[1].Live, 1e-9)
}

func TestLoad_LiveJitterStaysInBand(t *testing.T) {
	l := staticLoader(scenarioPortfolio, scenarioBenchmark)
	l.Random = NewSeededRandom(7)
	for i := 0; i < 20; i++ {
		series, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, series[1].Live, 46.0)
		assert.LessOrEqual(t, series[1].Live, 54.0)
	}
}

func TestLoad_SeededJitterIsReproducible(t *testing.T) {
	a := staticLoader(scenarioPortfolio, scenarioBenchmark)
	a.Random = NewSeededRandom(42)
	b := staticLoader(scenarioPortfolio, scenarioBenchmark)
	b.Random = NewSeededRandom(42)

	sa, err := a.Load(context.Background())
	require.NoError(t, err)
	sb, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}

func TestLoad_FirstRecordIsBaseline(t *testing.T) {
	// benchmark has no close on the first portfolio date, only one a day later
	portfolio := "date,balance\n2020-01-03,250\n2020-02-03,260\n2020-03-03,240\n"
	benchmark := "Date,Close\n01/04/2020,3000\n02/03/2020,3100\n"

	series := mustLoad(t, portfolio, benchmark)
	require.Len(t, series, 3)
	assert.Equal(t, 0.0, series[0].Backtest)
	assert.Equal(t, 0.0, series[0].Benchmark)
	assert.InDelta(t, 3.3333, series[1].Benchmark, 1e-3)
	// 03/03 has no benchmark close within three days
	assert.Equal(t, 0.0, series[2].Benchmark)
	assert.InDelta(t, -4.0, series[2].Backtest, 1e-9)
}

func TestLoad_ZeroFirstBalanceDefaultsBaseline(t *testing.T) {
	series := mustLoad(t, "date,balance\n2020-01-01,0\n2020-06-01,150\n", scenarioBenchmark)
	require.Len(t, series, 2)
	assert.InDelta(t, -100.0, series[0].Backtest, 1e-9)
	assert.InDelta(t, 50.0, series[1].Backtest, 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		portfolio string
		benchmark string
		wantErr   error
		stage     string
	}{
		{"empty portfolio", "", scenarioBenchmark, ErrEmptySource, "fetch"},
		{"empty benchmark", scenarioPortfolio, "  \n", ErrEmptySource, "fetch"},
		{"no valid portfolio rows", "date,balance\nx,y\n", scenarioBenchmark, ErrNoValidRows, "parse"},
		{"no valid benchmark rows", scenarioPortfolio, "Date,Close\n", ErrNoValidRows, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := staticLoader(tt.portfolio, tt.benchmark).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.stage, le.Stage)
		})
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }
func (failingSource) Open(context.Context) (io.ReadCloser, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestLoadOrFallback_WellFormed(t *testing.T) {
	l := &Loader{Portfolio: failingSource{}, Benchmark: &StaticSource{Label: "b", Body: []byte(scenarioBenchmark)}}

	series, fallback := l.LoadOrFallback(context.Background())
	assert.True(t, fallback)
	require.Len(t, series, 2)
	assert.True(t, series[0].Date.Before(series[1].Date))
	for _, r := range series {
		for _, v := range []float64{r.Backtest, r.Benchmark, r.Live} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	assert.Equal(t, 199.1, series[1].Backtest)
	assert.Equal(t, 355.6, series[1].Benchmark)
	assert.Equal(t, 189.6, series[1].Live)
}

func TestLoadOrFallback_Success(t *testing.T) {
	series, fallback := staticLoader(scenarioPortfolio, scenarioBenchmark).LoadOrFallback(context.Background())
	assert.False(t, fallback)
	assert.Len(t, series, 2)
}

func TestLoad_HTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/portfolio.csv":
			fmt.Fprint(w, scenarioPortfolio)
		case "/sp500.csv":
			fmt.Fprint(w, scenarioBenchmark)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := &Loader{
		Portfolio: SourceFor(srv.URL + "/portfolio.csv"),
		Benchmark: SourceFor(srv.URL + "/sp500.csv"),
		Random:    fixedRandom(0),
	}
	series, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.InDelta(t, 46.0, series[1].Live, 1e-9)

	l.Benchmark = SourceFor(srv.URL + "/missing.csv")
	_, err = l.Load(context.Background())
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "fetch", le.Stage)
}

func TestSourceFor(t *testing.T) {
	assert.IsType(t, &HTTPSource{}, SourceFor("https://example.com/a.csv"))
	assert.IsType(t, &FileSource{}, SourceFor("data/a.csv"))
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := staticLoader(scenarioPortfolio, scenarioBenchmark).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
