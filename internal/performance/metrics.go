package performance

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// RiskFreeRate is the assumed annual risk-free rate, in percentage points.
	RiskFreeRate = 2.0
	// TradingDaysPerYear annualizes the step-to-step volatility.
	TradingDaysPerYear = 252
)

// ComputeMetrics derives the KPI summary of a return series. Records holding
// non-finite backtest or benchmark values are skipped. With no records every
// field is unavailable; with one only the totals are set.
func ComputeMetrics(series []ReturnRecord) MetricsSummary {
	clean := make([]ReturnRecord, 0, len(series))
	for _, r := range series {
		if r.finite() {
			clean = append(clean, r)
		}
	}
	if len(clean) == 0 {
		return MetricsSummary{}
	}

	first, last := clean[0], clean[len(clean)-1]
	m := MetricsSummary{
		TotalReturn:          Available(last.Backtest),
		BenchmarkTotalReturn: Available(last.Benchmark),
	}
	if len(clean) < 2 {
		return m
	}

	years := last.Date.Sub(first.Date).Hours() / 24 / 365.25
	cagr := 0.0
	if years > 0 && last.Backtest > first.Backtest {
		cagr = (math.Pow((1+last.Backtest/100)/(1+first.Backtest/100), 1/years) - 1) * 100
	}

	// step-to-step differences of the cumulative curve stand in for daily returns
	steps := make([]float64, len(clean)-1)
	for i := 1; i < len(clean); i++ {
		steps[i-1] = clean[i].Backtest - clean[i-1].Backtest
	}
	volatility := math.Sqrt(stat.PopVariance(steps, nil)) * math.Sqrt(TradingDaysPerYear)

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (cagr - RiskFreeRate) / volatility
	}

	m.CAGR = Available(cagr)
	m.Volatility = Available(volatility)
	m.Sharpe = Available(sharpe)
	m.MaxDrawdown = Available(maxDrawdown(clean))
	return m
}

// maxDrawdown is the most negative (ret-peak)/(1+peak/100)*100 along the curve,
// or 0 for a curve that never falls.
func maxDrawdown(series []ReturnRecord) float64 {
	peak := series[0].Backtest
	worst := 0.0
	for _, r := range series {
		peak = math.Max(peak, r.Backtest)
		dd := (r.Backtest - peak) / (1 + peak/100) * 100
		worst = math.Min(worst, dd)
	}
	return worst
}

// Headline summarizes the latest point of a series.
type Headline struct {
	Date      string `json:"date"`
	Backtest  Metric `json:"backtestReturn"`
	Benchmark Metric `json:"sp500Return"`
	Live      Metric `json:"liveReturn"`
	// Outperformance is backtest minus benchmark, in percentage points.
	Outperformance Metric `json:"outperformance"`
	// LiveDeviation is |backtest-live|/backtest as a percentage.
	LiveDeviation Metric `json:"liveDeviation"`
}

// Latest returns the headline figures for the last record; zero for an empty series.
func Latest(series []ReturnRecord) Headline {
	if len(series) == 0 {
		return Headline{}
	}
	r := series[len(series)-1]
	return Headline{
		Date:           r.Date.Format(DateLayout),
		Backtest:       Available(r.Backtest),
		Benchmark:      Available(r.Benchmark),
		Live:           Available(r.Live),
		Outperformance: Available(r.Backtest - r.Benchmark),
		LiveDeviation:  Available(math.Abs(r.Backtest-r.Live) / r.Backtest * 100),
	}
}
