package performance

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// eachRow walks a comma-delimited body, skipping the header row. Rows the
// csv reader rejects are counted and the walk continues.
func eachRow(r io.Reader, fn func(fields []string) bool) (kept, dropped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return kept, dropped, err
			}
			dropped++
			continue
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 2 || !fn(rec) {
			dropped++
			continue
		}
		kept++
	}
	return kept, dropped, nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// ParseBalances reads `date,balance` rows (YYYY-MM-DD dates). Malformed rows are
// dropped; the result is sorted ascending by date.
func ParseBalances(r io.Reader) ([]RawBalancePoint, error) {
	var out []RawBalancePoint
	kept, dropped, err := eachRow(r, func(f []string) bool {
		ds := strings.TrimSpace(f[0])
		if ds == "" {
			return false
		}
		d, err := time.Parse(DateLayout, ds)
		if err != nil {
			return false
		}
		v, ok := parseNumber(f[1])
		if !ok {
			return false
		}
		out = append(out, RawBalancePoint{Date: d, Balance: v})
		return true
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("kept", kept).Int("dropped", dropped).Msg("portfolio rows parsed")
	if kept == 0 {
		return nil, ErrNoValidRows
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// NormalizeBenchmarkDate converts MM/DD/YYYY into YYYY-MM-DD.
func NormalizeBenchmarkDate(s string) (string, bool) {
	d, err := time.Parse(benchmarkDateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return d.Format(DateLayout), true
}

// ParseCloses reads `date,close` rows (MM/DD/YYYY dates) into a map keyed by
// normalized date. A repeated date keeps the last close.
func ParseCloses(r io.Reader) (map[string]float64, error) {
	out := map[string]float64{}
	kept, dropped, err := eachRow(r, func(f []string) bool {
		key, ok := NormalizeBenchmarkDate(f[0])
		if !ok {
			return false
		}
		v, ok := parseNumber(f[1])
		if !ok {
			return false
		}
		out[key] = v
		return true
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("kept", kept).Int("dropped", dropped).Msg("benchmark rows parsed")
	if kept == 0 {
		return nil, ErrNoValidRows
	}
	return out, nil
}
