package performance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Mode is the filter applied by a Selection, in precedence order.
type Mode int

const (
	ModeYearRange Mode = iota
	ModeDateRange
	ModeAll
	ModeRelative
)

func (m Mode) String() string {
	switch m {
	case ModeYearRange:
		return "custom-year"
	case ModeDateRange:
		return "custom"
	case ModeRelative:
		return "relative"
	default:
		return "all"
	}
}

// Selection describes the chosen date window. A year range wins over a date
// range, which wins over Window.
type Selection struct {
	Window   string    `json:"window,omitempty"` // "all" or "<N>y"
	FromYear int       `json:"fromYear,omitempty"`
	ToYear   int       `json:"toYear,omitempty"`
	From     time.Time `json:"-"`
	To       time.Time `json:"-"`
}

// All selects the whole series.
var All = Selection{Window: "all"}

// Mode resolves the effective filter. Unknown windows behave as "all".
func (s Selection) Mode() Mode {
	switch {
	case s.FromYear != 0 && s.ToYear != 0:
		return ModeYearRange
	case !s.From.IsZero() && !s.To.IsZero():
		return ModeDateRange
	}
	if _, ok := windowYears(s.Window); ok {
		return ModeRelative
	}
	return ModeAll
}

func (s Selection) String() string {
	switch s.Mode() {
	case ModeYearRange:
		if s.FromYear == s.ToYear {
			return strconv.Itoa(s.FromYear)
		}
		return fmt.Sprintf("%d-%d", s.FromYear, s.ToYear)
	case ModeDateRange:
		return s.From.Format(DateLayout) + ".." + s.To.Format(DateLayout)
	case ModeRelative:
		return strings.ToLower(s.Window)
	default:
		return "all"
	}
}

// windowYears reads a relative window such as "3y".
func windowYears(window string) (int, bool) {
	w := strings.ToLower(strings.TrimSpace(window))
	if !strings.HasSuffix(w, "y") {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSuffix(w, "y"), "%d", &n); err != nil || n < 1 {
		return 0, false
	}
	if strconv.Itoa(n)+"y" != w {
		return 0, false
	}
	return n, true
}

var (
	reYear      = regexp.MustCompile(`^(\d{4})$`)
	reYearRange = regexp.MustCompile(`^(\d{4})\s*(?:-|\s)\s*(\d{4})$`)
	reDateRange = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|\s)\s*(\d{4}-\d{2}-\d{2})$`)
)

// ParseSelection reads a textual window: "all", "3y", "2021", "2019-2021",
// "2019 2021", "2020-01-01 2021-06-30" or "2020-01-01..2021-06-30".
// An empty string selects everything.
func ParseSelection(args string) (Selection, error) {
	a := strings.ToLower(strings.TrimSpace(args))
	switch {
	case a == "" || a == "all":
		return All, nil

	case reYear.MatchString(a):
		y, _ := strconv.Atoi(a)
		return yearSelection(y, y)

	case reYearRange.MatchString(a):
		g := reYearRange.FindStringSubmatch(a)
		from, _ := strconv.Atoi(g[1])
		to, _ := strconv.Atoi(g[2])
		return yearSelection(from, to)

	case reDateRange.MatchString(a):
		g := reDateRange.FindStringSubmatch(a)
		return dateSelection(g[1], g[2])
	}
	if _, ok := windowYears(a); ok {
		return Selection{Window: a}, nil
	}
	return Selection{}, fmt.Errorf("%w: %q", ErrInvalidSelection, args)
}

// SelectionFromParams builds a Selection from discrete query values, any of
// which may be empty.
func SelectionFromParams(window, fromYear, toYear, from, to string) (Selection, error) {
	sel := Selection{Window: strings.ToLower(strings.TrimSpace(window))}
	if sel.Window == "" {
		sel.Window = "all"
	}
	if sel.Window != "all" && sel.Window != "custom" && sel.Window != "custom-year" {
		if _, ok := windowYears(sel.Window); !ok {
			return Selection{}, fmt.Errorf("%w: range %q", ErrInvalidSelection, window)
		}
	}
	if fromYear != "" || toYear != "" {
		fy, err1 := strconv.Atoi(fromYear)
		ty, err2 := strconv.Atoi(toYear)
		if err1 != nil || err2 != nil {
			return Selection{}, fmt.Errorf("%w: year range %q..%q", ErrInvalidSelection, fromYear, toYear)
		}
		ys, err := yearSelection(fy, ty)
		if err != nil {
			return Selection{}, err
		}
		sel.FromYear, sel.ToYear = ys.FromYear, ys.ToYear
	}
	if from != "" || to != "" {
		ds, err := dateSelection(from, to)
		if err != nil {
			return Selection{}, err
		}
		sel.From, sel.To = ds.From, ds.To
	}
	return sel, nil
}

func yearSelection(from, to int) (Selection, error) {
	if from < 1 || to < 1 || from > to {
		return Selection{}, fmt.Errorf("%w: year range %d-%d", ErrInvalidSelection, from, to)
	}
	return Selection{FromYear: from, ToYear: to}, nil
}

func dateSelection(from, to string) (Selection, error) {
	f, err := time.Parse(DateLayout, strings.TrimSpace(from))
	if err != nil {
		return Selection{}, fmt.Errorf("%w: from date %q", ErrInvalidSelection, from)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(to))
	if err != nil {
		return Selection{}, fmt.Errorf("%w: to date %q", ErrInvalidSelection, to)
	}
	if t.Before(f) {
		return Selection{}, fmt.Errorf("%w: %s is after %s", ErrInvalidSelection, from, to)
	}
	return Selection{From: f, To: t}, nil
}
