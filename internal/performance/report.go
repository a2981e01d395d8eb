package performance

import (
	"fmt"
	"strings"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatBriefing renders a view as a short plain-text performance report.
func FormatBriefing(v View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 Quantumine Performance (%s)\n", strings.ToUpper(v.Selection))
	if len(v.Series) > 0 {
		fmt.Fprintf(&sb, "Period: %s → %s (%d points)\n",
			v.Series[0].Date.Format(DateLayout), v.Series[len(v.Series)-1].Date.Format(DateLayout), len(v.Series))
	}
	if !v.InRange {
		sb.WriteString("⚠️ No data in the selected range, showing the full history.\n")
	}
	if v.Fallback {
		sb.WriteString("⚠️ Sample data shown, performance files are unavailable.\n")
	}
	sb.WriteString("\n")

	d := v.Display
	fmt.Fprintf(&sb, "Total Return: %s%%\n", d.TotalReturn)
	fmt.Fprintf(&sb, "S&P500 Return: %s%%\n", d.BenchmarkTotalReturn)
	fmt.Fprintf(&sb, "CAGR: %s%%\n", d.CAGR)
	fmt.Fprintf(&sb, "Sharpe: %s\n", d.Sharpe)
	fmt.Fprintf(&sb, "Max Drawdown: %s%%\n", d.MaxDrawdown)
	fmt.Fprintf(&sb, "Volatility: %s%%\n", d.Volatility)

	if v.Latest.Outperformance.Valid {
		fmt.Fprintf(&sb, "\nOutperformance vs S&P500: %s%%\n", v.Latest.Outperformance.Format(1))
	}
	if v.Latest.LiveDeviation.Valid {
		fmt.Fprintf(&sb, "Live trading consistency: %s%% variance from backtest\n", v.Latest.LiveDeviation.Format(1))
	}
	return sb.String()
}

// FormatMatrix renders a matrix as a monospace table, newest year first.
func FormatMatrix(m MonthlyMatrix) string {
	years := m.Years()
	if len(years) == 0 {
		return "No monthly data available."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Monthly returns (%s)\n\n", m.Field)
	sb.WriteString("Year ")
	for _, name := range monthNames {
		fmt.Fprintf(&sb, "%6s", name)
	}
	sb.WriteString("  Total\n")
	for _, y := range years {
		fmt.Fprintf(&sb, "%d ", y)
		for _, v := range m.Months[y] {
			if v == nil {
				fmt.Fprintf(&sb, "%6s", "-")
				continue
			}
			fmt.Fprintf(&sb, "%6.1f", *v)
		}
		fmt.Fprintf(&sb, " %6.1f\n", m.YearlyTotal(y))
	}

	s := m.Summary()
	fmt.Fprintf(&sb, "\nYTD %d: %s%%", s.LatestYear, s.LatestTotal.Format(1))
	if s.PreviousYear != 0 {
		fmt.Fprintf(&sb, " | %d Total: %s%%", s.PreviousYear, s.PreviousTotal.Format(1))
	}
	fmt.Fprintf(&sb, " | Avg/Year: %s%% | Best Year: %d (%s%%)", s.AvgPerYear.Format(1), s.BestYear, s.BestTotal.Format(1))
	return sb.String()
}
