package performance

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the normalized calendar-date form used for keys, JSON and CSV.
const DateLayout = "2006-01-02"

// benchmarkDateLayout accepts MM/DD/YYYY with or without zero padding.
const benchmarkDateLayout = "1/2/2006"

var (
	ErrEmptySource      = errors.New("source body is empty")
	ErrNoValidRows      = errors.New("no valid rows")
	ErrInvalidSelection = errors.New("invalid range selection")
)

// LoadError reports which source failed and at which stage.
type LoadError struct {
	Source string
	Stage  string // "fetch" or "parse"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RawBalancePoint is one portfolio valuation snapshot.
type RawBalancePoint struct {
	Date    time.Time
	Balance float64
}

// ReturnRecord is one point of the merged series, every field a percentage
// offset from the series baseline.
type ReturnRecord struct {
	Date      time.Time
	Backtest  float64
	Benchmark float64
	Live      float64
}

type returnRecordJSON struct {
	Date      string   `json:"date"`
	Backtest  *float64 `json:"backtest_return"`
	Benchmark *float64 `json:"sp500_return"`
	Live      *float64 `json:"live_trade_return"`
}

// MarshalJSON writes non-finite fields as null.
func (r ReturnRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(returnRecordJSON{
		Date:      r.Date.Format(DateLayout),
		Backtest:  finitePtr(r.Backtest),
		Benchmark: finitePtr(r.Benchmark),
		Live:      finitePtr(r.Live),
	})
}

func (r *ReturnRecord) UnmarshalJSON(b []byte) error {
	var raw returnRecordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("record date %q: %w", raw.Date, err)
	}
	*r = ReturnRecord{Date: d, Backtest: nanIfNil(raw.Backtest), Benchmark: nanIfNil(raw.Benchmark), Live: nanIfNil(raw.Live)}
	return nil
}

func (r ReturnRecord) finite() bool {
	return isFinite(r.Backtest) && isFinite(r.Benchmark)
}

// Metric is a computed figure or the "unavailable" sentinel.
type Metric struct {
	Value float64
	Valid bool
}

// Unavailable is the sentinel for metrics that cannot be computed.
var Unavailable = Metric{}

// Available wraps v, turning NaN and Inf into Unavailable.
func Available(v float64) Metric {
	if !isFinite(v) {
		return Unavailable
	}
	return Metric{Value: v, Valid: true}
}

// Format renders the metric with the given decimals, or "—" when unavailable.
func (m Metric) Format(decimals int) string {
	if !m.Valid {
		return "—"
	}
	return strconv.FormatFloat(m.Value, 'f', decimals, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*m = Unavailable
		return nil
	}
	*m = Available(*v)
	return nil
}

// MetricsSummary holds the KPI figures for one series.
type MetricsSummary struct {
	CAGR                 Metric `json:"cagr"`
	Sharpe               Metric `json:"sharpe"`
	MaxDrawdown          Metric `json:"maxDrawdown"`
	Volatility           Metric `json:"volatility"`
	TotalReturn          Metric `json:"totalReturn"`
	BenchmarkTotalReturn Metric `json:"sp500TotalReturn"`
}

// DisplayMetrics is the rounded, display-ready form of MetricsSummary.
type DisplayMetrics struct {
	CAGR                 string `json:"cagr"`
	Sharpe               string `json:"sharpe"`
	MaxDrawdown          string `json:"maxDrawdown"`
	Volatility           string `json:"volatility"`
	TotalReturn          string `json:"totalReturn"`
	BenchmarkTotalReturn string `json:"sp500TotalReturn"`
}

// Display rounds to one decimal except Sharpe, which keeps two.
func (m MetricsSummary) Display() DisplayMetrics {
	return DisplayMetrics{
		CAGR:                 m.CAGR.Format(1),
		Sharpe:               m.Sharpe.Format(2),
		MaxDrawdown:          m.MaxDrawdown.Format(1),
		Volatility:           m.Volatility.Format(1),
		TotalReturn:          m.TotalReturn.Format(1),
		BenchmarkTotalReturn: m.BenchmarkTotalReturn.Format(1),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePtr(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

func nanIfNil(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
