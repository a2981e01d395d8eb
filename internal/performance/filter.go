package performance

import (
	"sort"
	"time"
)

// Filtered is the outcome of applying a Selection.
type Filtered struct {
	Series []ReturnRecord
	Mode   Mode
	// InRange is false when the selection matched nothing and Series is the
	// unfiltered input.
	InRange bool
	Rebased bool
}

// Filter keeps the records matched by sel and rebases them so the first kept
// record reads 0%. The "all" mode returns the series untouched. An empty
// match fails open to the input series with InRange set to false. now anchors
// relative windows.
func Filter(series []ReturnRecord, sel Selection, now time.Time) Filtered {
	mode := sel.Mode()
	if mode == ModeAll {
		return Filtered{Series: series, Mode: mode, InRange: len(series) > 0}
	}

	keep := matcher(sel, mode, now)
	var out []ReturnRecord
	for _, r := range series {
		if keep(r.Date) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return Filtered{Series: series, Mode: mode, InRange: false}
	}
	return Filtered{Series: Rebase(out), Mode: mode, InRange: true, Rebased: true}
}

func matcher(sel Selection, mode Mode, now time.Time) func(time.Time) bool {
	switch mode {
	case ModeYearRange:
		return func(d time.Time) bool {
			y := d.Year()
			return y >= sel.FromYear && y <= sel.ToYear
		}
	case ModeDateRange:
		from, to := calendarDay(sel.From), calendarDay(sel.To)
		return func(d time.Time) bool {
			cd := calendarDay(d)
			return !cd.Before(from) && !cd.After(to)
		}
	default:
		n, _ := windowYears(sel.Window)
		cutoff := calendarDay(now).AddDate(-n, 0, 0)
		return func(d time.Time) bool { return !calendarDay(d).Before(cutoff) }
	}
}

// calendarDay drops the clock, keeping the date as seen in t's location.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Rebase re-expresses every return field against the first record using
// ((v+100)/(base+100)-1)*100. A base of -100 yields non-finite values
// rather than a panic.
func Rebase(series []ReturnRecord) []ReturnRecord {
	if len(series) == 0 {
		return nil
	}
	first := series[0]
	out := make([]ReturnRecord, len(series))
	for i, r := range series {
		out[i] = ReturnRecord{
			Date:      r.Date,
			Backtest:  rebaseValue(r.Backtest, first.Backtest),
			Benchmark: rebaseValue(r.Benchmark, first.Benchmark),
			Live:      rebaseValue(r.Live, first.Live),
		}
	}
	return out
}

func rebaseValue(v, base float64) float64 {
	return ((v+100)/(base+100) - 1) * 100
}

// AvailableYears lists the distinct calendar years of the series, ascending.
func AvailableYears(series []ReturnRecord) []int {
	seen := map[int]struct{}{}
	var years []int
	for _, r := range series {
		y := r.Date.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
