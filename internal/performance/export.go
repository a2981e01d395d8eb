package performance

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ExportFilename is the suggested download name for WriteCSV output.
const ExportFilename = "quantumine-performance-data.csv"

var exportHeader = []string{"Date", "Backtest Return (%)", "S&P500 Return (%)", "Live Trade Return (%)"}

// WriteCSV serializes series with full precision, one row per record.
func WriteCSV(w io.Writer, series []ReturnRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range series {
		row := []string{
			r.Date.Format(DateLayout),
			formatExport(r.Backtest),
			formatExport(r.Benchmark),
			formatExport(r.Live),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatExport(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
