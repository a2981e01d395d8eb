package performance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vicanso/go-charts/v2"
)

// ChartView picks the series compared against the backtest curve.
type ChartView string

const (
	ViewBenchmark ChartView = "benchmark"
	ViewLive      ChartView = "live"
)

// ParseChartView accepts "benchmark" (default) or "live".
func ParseChartView(s string) (ChartView, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "benchmark", "sp500", "backtest-vs-sp500":
		return ViewBenchmark, nil
	case "live", "backtest-vs-live":
		return ViewLive, nil
	}
	return "", fmt.Errorf("unknown chart view %q", s)
}

// RenderObserver is told about renders and cache hits.
type RenderObserver interface {
	ChartRendered(view string)
	ChartCacheHit(view string)
}

// ChartRenderer draws PNG charts and caches them for a short TTL.
type ChartRenderer struct {
	cache    *chartCache
	observer RenderObserver
}

// NewChartRenderer returns a renderer whose cache keeps images for ttl.
// observer may be nil.
func NewChartRenderer(ttl time.Duration, observer RenderObserver) *ChartRenderer {
	return &ChartRenderer{cache: newChartCache(ttl), observer: observer}
}

func (c *ChartRenderer) cached(view, key string) ([]byte, bool) {
	img, ok := c.cache.get(key)
	if ok && c.observer != nil {
		c.observer.ChartCacheHit(view)
	}
	return img, ok
}

func (c *ChartRenderer) store(view, key string, img []byte) {
	c.cache.set(key, img)
	if c.observer != nil {
		c.observer.ChartRendered(view)
	}
}

// Comparison renders the backtest curve against the benchmark or live curve.
// label names the selection in the title and the cache key.
func (c *ChartRenderer) Comparison(series []ReturnRecord, view ChartView, label string) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no data points to chart")
	}
	last := series[len(series)-1]
	cacheKey := fmt.Sprintf("cmp-%s-%s-%d-%s", view, label, len(series), last.Date.Format(DateLayout))
	if img, found := c.cached(string(view), cacheKey); found {
		return img, nil
	}

	other, otherName := FieldBenchmark, "S&P500"
	if view == ViewLive {
		other, otherName = FieldLive, "Live Trading"
	}

	xLabels := make([]string, 0, len(series))
	backtest := make([]float64, 0, len(series))
	compare := make([]float64, 0, len(series))
	for _, r := range series {
		b, o := r.Backtest, other.value(r)
		if !isFinite(b) || !isFinite(o) {
			continue
		}
		xLabels = append(xLabels, axisLabel(r.Date, len(series)))
		backtest = append(backtest, b)
		compare = append(compare, o)
	}
	if len(backtest) == 0 {
		return nil, fmt.Errorf("no finite data points to chart")
	}

	yMin, yMax := paddedRange(backtest, compare)
	metrics := ComputeMetrics(series)
	title := "Quantumine Backtest vs " + otherName + " • " + strings.ToUpper(label)
	subtitle := fmt.Sprintf("Return: %s%% | CAGR: %s%% | Sharpe: %s | Vol: %s%% | MaxDD: %s%%",
		metrics.TotalReturn.Format(1), metrics.CAGR.Format(1), metrics.Sharpe.Format(2),
		metrics.Volatility.Format(1), metrics.MaxDrawdown.Format(1))

	p, err := charts.LineRender(
		[][]float64{backtest, compare},
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNumber(len(xLabels)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: []string{"Backtest", otherName},
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(560),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	c.store(string(view), cacheKey, buf)
	return buf, nil
}

// YearlyTotals renders one bar per matrix year, oldest on the left.
func (c *ChartRenderer) YearlyTotals(m MonthlyMatrix) ([]byte, error) {
	years := m.Years()
	if len(years) == 0 {
		return nil, fmt.Errorf("matrix has no years")
	}
	view := "yearly-" + m.Field.String()
	var sb strings.Builder
	sb.WriteString(view)
	totals := make([]float64, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		j := len(years) - 1 - i
		totals[j] = m.YearlyTotal(y)
		labels[j] = strconv.Itoa(y)
		fmt.Fprintf(&sb, "-%d:%.4f", y, totals[j])
	}
	cacheKey := sb.String()
	if img, found := c.cached(view, cacheKey); found {
		return img, nil
	}

	s := m.Summary()
	p, err := charts.BarRender(
		[][]float64{totals},
		charts.TitleTextOptionFunc(
			"Yearly Total • "+strings.ToUpper(m.Field.String()),
			fmt.Sprintf("Avg/Year: %s%% | Best: %d (%s%%)", s.AvgPerYear.Format(1), s.BestYear, s.BestTotal.Format(1)),
		),
		charts.XAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(900),
		charts.HeightOptionFunc(480),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	c.store(view, cacheKey, buf)
	return buf, nil
}

func axisLabel(d time.Time, points int) string {
	if points <= 60 {
		return d.Format("Jan 02 '06")
	}
	return d.Format("Jan '06")
}

func splitNumber(points int) int {
	if points > 30 {
		return 6
	}
	n := points / 3
	if n < 3 {
		n = 3
	}
	return n
}

// paddedRange returns the joint min/max of the curves with 5% headroom.
func paddedRange(curves ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range curves {
		for _, v := range c {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	return lo - pad, hi + pad
}
