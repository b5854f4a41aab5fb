package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goldbook/loanbook-cli/internal/interest"
	"github.com/goldbook/loanbook-cli/internal/pivot"
)

// printer groups large currency figures (1,234,567).
var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func (r Health) text(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Health — snapshot %s\n\n", r.SnapshotID)
	fmt.Fprintf(&b, "%-26s %6.1f\n", "LTV health", r.Scores.LTVHealth)
	fmt.Fprintf(&b, "%-26s %6.1f\n", "Collection health", r.Scores.CollectionHealth)
	fmt.Fprintf(&b, "%-26s %6.1f\n", "Diversification health", r.Scores.DiversificationHealth)
	fmt.Fprintf(&b, "%-26s %6.1f\n", "Interest coverage health", r.Scores.InterestCoverageHealth)
	fmt.Fprintf(&b, "%-26s %6.1f\n\n", "Overall", r.Scores.Overall)
	fmt.Fprintf(&b, "%-26s %6.1f%%\n", "Avg LTV (active)", r.Scores.AvgLTVActivePct)
	fmt.Fprintf(&b, "%-26s %6.1f%%\n", "Collection efficiency", r.Scores.CollectionEfficiencyPct)
	fmt.Fprintf(&b, "%-26s %6.1f%%\n", "Top-5 concentration", r.Scores.Top5ConcentrationPct)
	fmt.Fprintf(&b, "%-26s %6.1f%%\n", "Interest coverage", r.Scores.InterestCoveragePct)
	writeQuality(&b, r.Quality)
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write health text")
}

func (r Yield) text(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Yield — snapshot %s\n\n", r.SnapshotID)
	writeCohortLine(&b, "Portfolio", r.Portfolio, 0)
	fmt.Fprintf(&b, "\nBy holding band:\n")
	writeCohortLine(&b, r.ShortBand.Label, r.ShortBand.Metrics, r.ShortBand.CapitalSharePct)
	writeCohortLine(&b, r.LongBand.Label, r.LongBand.Metrics, r.LongBand.CapitalSharePct)
	writeSegmentBlock(&b, "By principal range:", r.ByRange)
	writeSegmentBlock(&b, "By segment:", r.BySegment)
	writeSegmentBlock(&b, "By release year:", r.ByYear)
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write yield text")
}

func (r Aging) text(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk Flags — snapshot %s (as of %s)\n\n",
		r.SnapshotID, r.AsOf.Format("2006-01-02"))
	if len(r.Flagged) == 0 {
		b.WriteString("No flagged loans.\n")
		_, err := io.WriteString(w, b.String())
		return eris.Wrap(err, "report: write aging text")
	}
	fmt.Fprintf(&b, "%-12s %-24s %-8s %6s %7s %8s  %s\n",
		"Loan", "Customer", "Segment", "Days", "LTV%", "Equity%", "Flags")
	fmt.Fprintln(&b, strings.Repeat("-", 90))
	for _, a := range r.Flagged {
		name := a.CustomerName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		flags := make([]string, len(a.Flags))
		for i, f := range a.Flags {
			flags[i] = string(f)
		}
		fmt.Fprintf(&b, "%-12s %-24s %-8s %6d %7.1f %8.1f  %s\n",
			a.LoanID, name, a.Segment, a.DaysActive, a.LTVPct,
			a.EquityRemainingPct, strings.Join(flags, ", "))
	}
	fmt.Fprintf(&b, "\n%d flagged", len(r.Flagged))
	for f, n := range r.FlagCounts {
		fmt.Fprintf(&b, "  %s=%d", f, n)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write aging text")
}

func (r Pivot) text(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly %s — snapshot %s\n\n", r.Metric, r.SnapshotID)
	writePivotTable(&b, r.Table)
	if r.YoY != nil {
		b.WriteString("\nYoY change (%):\n")
		writeDelta(&b, *r.YoY)
	}
	if r.MoM != nil {
		b.WriteString("\nMoM change (%):\n")
		writeDelta(&b, *r.MoM)
	}
	if r.Table.Skipped > 0 {
		fmt.Fprintf(&b, "\n%d records skipped (no usable date or principal)\n", r.Table.Skipped)
	}
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write pivot text")
}

func (r Summary) text(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Period Summary %s to %s — snapshot %s\n\n",
		r.From.Format("2006-01-02"), r.To.Format("2006-01-02"), r.SnapshotID)
	f := r.Figures
	fmt.Fprintf(&b, "%-22s %14s   (%+.1f%%)\n", "Disbursed", money(f.Disbursed), f.DisbursedGrowthPct)
	fmt.Fprintf(&b, "%-22s %14d   (%+.1f%%)\n", "Loans disbursed", f.LoanCount, f.LoanCountGrowthPct)
	fmt.Fprintf(&b, "%-22s %14s\n", "Avg loan size", money(f.AvgLoanSize))
	fmt.Fprintf(&b, "%-22s %14s\n", "Outstanding", money(f.Outstanding))
	fmt.Fprintf(&b, "%-22s %14d\n", "Active loans", f.ActiveLoans)
	fmt.Fprintf(&b, "%-22s %14d\n", "Active customers", f.ActiveCustomers)
	fmt.Fprintf(&b, "%-22s %14s   (%+.1f%%)\n", "Interest earned", money(f.InterestEarned), f.InterestGrowthPct)
	writeQuality(&b, r.Quality)
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write summary text")
}

func writeQuality(b *strings.Builder, q Quality) {
	fmt.Fprintf(b, "\nData quality: %d of %d records flagged\n", q.Flagged, q.Records)
	for f, n := range q.FlagCounts {
		fmt.Fprintf(b, "  %-32s %d\n", f, n)
	}
}

func writeCohortLine(b *strings.Builder, label string, m interest.CohortMetrics, sharePct float64) {
	line := fmt.Sprintf("  %-16s %6.2f%% yield  %6.2f%% simple  %6.0f days  %3d loans  cap %s",
		label, m.PortfolioYieldPct, m.SimpleReturnPct, m.WeightedAvgDays,
		m.LoanCount, money(m.TotalCapital))
	if sharePct > 0 {
		line += fmt.Sprintf(" (%.1f%%)", sharePct)
	}
	b.WriteString(line + "\n")
}

func writeSegmentBlock(b *strings.Builder, title string, segs []interest.SegmentMetrics) {
	if len(segs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for _, s := range segs {
		writeCohortLine(b, s.Label, s.Metrics, s.CapitalSharePct)
	}
}

func writePivotTable(b *strings.Builder, t pivot.Table) {
	fmt.Fprintf(b, "%-6s", "")
	for _, y := range t.Years {
		fmt.Fprintf(b, "%14d", y)
	}
	if t.HasTotalColumn() {
		fmt.Fprintf(b, "%14s", "Total")
	}
	b.WriteString("\n")
	for m := 0; m < 12; m++ {
		fmt.Fprintf(b, "%-6s", pivot.MonthAbbr(m))
		for j := range t.Years {
			fmt.Fprintf(b, "%14s", money(t.Values[m][j]))
		}
		if t.HasTotalColumn() {
			fmt.Fprintf(b, "%14s", money(t.MonthTotals[m]))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%-6s", "Total")
	for j := range t.Years {
		fmt.Fprintf(b, "%14s", money(t.YearTotals[j]))
	}
	if t.HasTotalColumn() {
		fmt.Fprintf(b, "%14s", money(t.GrandTotal))
	}
	b.WriteString("\n")
}

func writeDelta(b *strings.Builder, d pivot.Delta) {
	fmt.Fprintf(b, "%-6s", "")
	for _, y := range d.Years {
		fmt.Fprintf(b, "%10d", y)
	}
	b.WriteString("\n")
	for m := 0; m < 12; m++ {
		fmt.Fprintf(b, "%-6s", pivot.MonthAbbr(m))
		for j := range d.Years {
			v := d.Values[m][j]
			if v == nil {
				fmt.Fprintf(b, "%10s", "-")
			} else {
				fmt.Fprintf(b, "%+9.1f%%", *v)
			}
		}
		b.WriteString("\n")
	}
}
