package performance

import (
	"math"
	"sort"
	"time"
)

const (
	// AlignToleranceDays is the widest gap, in days, accepted for a nearest-date match.
	AlignToleranceDays = 3
	// FallbackBenchmarkBaseline is used when the benchmark series has no usable value.
	FallbackBenchmarkBaseline = 1400.0
)

const day = 24 * time.Hour

// BenchmarkIndex is the benchmark close mapping plus its dates in ascending order.
type BenchmarkIndex struct {
	closes map[string]float64
	dates  []time.Time
}

// NewBenchmarkIndex indexes closes keyed by YYYY-MM-DD. Unparseable keys are ignored.
func NewBenchmarkIndex(closes map[string]float64) *BenchmarkIndex {
	idx := &BenchmarkIndex{closes: make(map[string]float64, len(closes))}
	for k, v := range closes {
		d, err := time.Parse(DateLayout, k)
		if err != nil {
			continue
		}
		idx.closes[k] = v
		idx.dates = append(idx.dates, d)
	}
	sort.Slice(idx.dates, func(i, j int) bool { return idx.dates[i].Before(idx.dates[j]) })
	return idx
}

func (b *BenchmarkIndex) Len() int { return len(b.dates) }

func (b *BenchmarkIndex) at(i int) float64 {
	return b.closes[b.dates[i].Format(DateLayout)]
}

// Lookup returns the close on date, or the close of the nearest date at most
// AlignToleranceDays away. Equidistant candidates resolve to the earlier date.
// A zero close does not count as a match.
func (b *BenchmarkIndex) Lookup(date time.Time) (float64, bool) {
	if v, ok := b.closes[date.Format(DateLayout)]; ok && v != 0 {
		return v, true
	}
	if len(b.dates) == 0 {
		return 0, false
	}
	i := sort.Search(len(b.dates), func(i int) bool { return !b.dates[i].Before(date) })

	best, bestDiff := -1, math.Inf(1)
	// the neighbours on both sides of the insertion point; the earlier one is
	// checked first so a tie keeps it
	for _, j := range []int{i - 1, i, i + 1} {
		if j < 0 || j >= len(b.dates) || b.at(j) == 0 {
			continue
		}
		diff := math.Abs(date.Sub(b.dates[j]).Hours()) / 24
		if diff <= AlignToleranceDays && diff < bestDiff {
			best, bestDiff = j, diff
		}
	}
	if best < 0 {
		return 0, false
	}
	return b.at(best), true
}

// Baseline is the benchmark value used as 0%: the close aligned to anchor,
// else the earliest close, else FallbackBenchmarkBaseline.
func (b *BenchmarkIndex) Baseline(anchor time.Time) float64 {
	if v, ok := b.Lookup(anchor); ok {
		return v
	}
	if len(b.dates) > 0 {
		if v := b.at(0); v != 0 {
			return v
		}
	}
	return FallbackBenchmarkBaseline
}

// Align returns the close for date, or baseline when nothing is within tolerance.
func (b *BenchmarkIndex) Align(date time.Time, baseline float64) float64 {
	if v, ok := b.Lookup(date); ok {
		return v
	}
	return baseline
}

// Align resolves date against a raw close mapping. It never fails: with an
// empty mapping it returns baseline.
func Align(date time.Time, closes map[string]float64, baseline float64) float64 {
	return NewBenchmarkIndex(closes).Align(date, baseline)
}
