package performance

import (
	"time"
)

// View is the displayable result of one selection.
type View struct {
	Selection string         `json:"selection"`
	Mode      string         `json:"mode"`
	InRange   bool           `json:"inRange"`
	Rebased   bool           `json:"rebased"`
	Fallback  bool           `json:"fallback"`
	Series    []ReturnRecord `json:"series"`
	Metrics   MetricsSummary `json:"metrics"`
	Display   DisplayMetrics `json:"display"`
	Latest    Headline       `json:"latest"`
}

// Analyzer answers selections against one loaded series. The series is never
// mutated, so an Analyzer is safe for concurrent use.
type Analyzer struct {
	series   []ReturnRecord
	fallback bool
	now      func() time.Time
}

// NewAnalyzer wraps a loaded series; fallback marks the substitute series.
func NewAnalyzer(series []ReturnRecord, fallback bool) *Analyzer {
	return &Analyzer{series: series, fallback: fallback, now: MarketClock}
}

// WithClock overrides the clock that anchors relative windows.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Series returns a copy of the full merged series.
func (a *Analyzer) Series() []ReturnRecord {
	out := make([]ReturnRecord, len(a.series))
	copy(out, a.series)
	return out
}

func (a *Analyzer) Len() int { return len(a.series) }

func (a *Analyzer) Fallback() bool { return a.fallback }

// View filters, rebases and measures the series for sel.
func (a *Analyzer) View(sel Selection) View {
	f := Filter(a.series, sel, a.now())
	m := ComputeMetrics(f.Series)
	return View{
		Selection: sel.String(),
		Mode:      f.Mode.String(),
		InRange:   f.InRange,
		Rebased:   f.Rebased,
		Fallback:  a.fallback,
		Series:    f.Series,
		Metrics:   m,
		Display:   m.Display(),
		Latest:    Latest(f.Series),
	}
}

// Matrix builds the profit matrices over the full series.
func (a *Analyzer) Matrix() ProfitMatrix {
	return BuildProfitMatrix(a.series)
}

func (a *Analyzer) AvailableYears() []int {
	return AvailableYears(a.series)
}
