package performance

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Field selects which return column feeds the matrix.
type Field int

const (
	FieldBacktest Field = iota
	FieldLive
	FieldBenchmark
)

func (f Field) String() string {
	switch f {
	case FieldLive:
		return "live"
	case FieldBenchmark:
		return "benchmark"
	default:
		return "backtest"
	}
}

// ParseField accepts "backtest", "live" or "benchmark"; empty means backtest.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "backtest":
		return FieldBacktest, nil
	case "live":
		return FieldLive, nil
	case "benchmark", "sp500":
		return FieldBenchmark, nil
	}
	return 0, fmt.Errorf("unknown matrix field %q", s)
}

func (f Field) value(r ReturnRecord) float64 {
	switch f {
	case FieldLive:
		return r.Live
	case FieldBenchmark:
		return r.Benchmark
	default:
		return r.Backtest
	}
}

// MonthlyMatrix maps a year to its twelve month-over-month returns. A nil
// month had no data.
type MonthlyMatrix struct {
	Field  Field
	Months map[int][12]*float64
}

// ProfitMatrix pairs the backtest and live matrices built over the same grouping.
type ProfitMatrix struct {
	Backtest MonthlyMatrix `json:"backtest"`
	Live     MonthlyMatrix `json:"live"`
}

// BuildProfitMatrix builds the backtest and live matrices of series.
func BuildProfitMatrix(series []ReturnRecord) ProfitMatrix {
	return ProfitMatrix{
		Backtest: BuildMatrix(series, FieldBacktest),
		Live:     BuildMatrix(series, FieldLive),
	}
}

type monthKey struct {
	year  int
	month int // 0-11
}

// BuildMatrix averages field per calendar month, then chains the monthly
// averages as ((cur+100)/(prev+100)-1)*100. The first month reads 0.
// Non-finite values are ignored.
func BuildMatrix(series []ReturnRecord, field Field) MonthlyMatrix {
	sums := map[monthKey]float64{}
	counts := map[monthKey]int{}
	for _, r := range series {
		v := field.value(r)
		if !isFinite(v) {
			continue
		}
		k := monthKey{year: r.Date.Year(), month: int(r.Date.Month()) - 1}
		sums[k] += v
		counts[k]++
	}

	keys := make([]monthKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	m := MonthlyMatrix{Field: field, Months: map[int][12]*float64{}}
	prev := 0.0
	for i, k := range keys {
		avg := sums[k] / float64(counts[k])
		ret := 0.0
		if i > 0 {
			ret = ((avg+100)/(prev+100) - 1) * 100
		}
		prev = avg
		if !isFinite(ret) {
			continue
		}
		row := m.Months[k.year]
		row[k.month] = &ret
		m.Months[k.year] = row
	}
	return m
}

// Years lists the matrix years, newest first.
func (m MonthlyMatrix) Years() []int {
	years := make([]int, 0, len(m.Months))
	for y := range m.Months {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// YearlyTotal sums the populated months of year.
func (m MonthlyMatrix) YearlyTotal(year int) float64 {
	total := 0.0
	for _, v := range m.Months[year] {
		if v != nil {
			total += *v
		}
	}
	return total
}

// MatrixSummary holds the headline figures shown above the matrix.
type MatrixSummary struct {
	LatestYear    int    `json:"latestYear,omitempty"`
	LatestTotal   Metric `json:"latestTotal"`
	PreviousYear  int    `json:"previousYear,omitempty"`
	PreviousTotal Metric `json:"previousTotal"`
	AvgPerYear    Metric `json:"avgPerYear"`
	BestYear      int    `json:"bestYear,omitempty"`
	BestTotal     Metric `json:"bestTotal"`
}

// Summary computes the year-to-date, previous year, average and best year totals.
func (m MonthlyMatrix) Summary() MatrixSummary {
	years := m.Years()
	var s MatrixSummary
	if len(years) == 0 {
		return s
	}
	s.LatestYear = years[0]
	s.LatestTotal = Available(m.YearlyTotal(years[0]))
	if len(years) > 1 {
		s.PreviousYear = years[1]
		s.PreviousTotal = Available(m.YearlyTotal(years[1]))
	}
	sum := 0.0
	for i, y := range years {
		t := m.YearlyTotal(y)
		sum += t
		if i == 0 || t > s.BestTotal.Value {
			s.BestYear, s.BestTotal = y, Available(t)
		}
	}
	s.AvgPerYear = Available(sum / float64(len(years)))
	return s
}

type matrixRowJSON struct {
	Year   int          `json:"year"`
	Months [12]*float64 `json:"months"`
	Total  float64      `json:"total"`
}

func (m MonthlyMatrix) MarshalJSON() ([]byte, error) {
	rows := make([]matrixRowJSON, 0, len(m.Months))
	for _, y := range m.Years() {
		rows = append(rows, matrixRowJSON{Year: y, Months: m.Months[y], Total: m.YearlyTotal(y)})
	}
	return json.Marshal(struct {
		Field   string          `json:"field"`
		Rows    []matrixRowJSON `json:"rows"`
		Summary MatrixSummary   `json:"summary"`
	}{Field: m.Field.String(), Rows: rows, Summary: m.Summary()})
}
