package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goldbook/loanbook-cli/internal/report"
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Month-by-year pivot table with YoY and MoM deltas",
	Long: `Builds a month x year pivot over a chosen metric. Rows are always the
full Jan-Dec calendar; a Total row is always present and a Total column
appears when more than one year is covered. Transitions from a zero prior
render as "-", never as an infinite percentage.

Metrics:
  disbursed    principal disbursed, by disbursement month
  interest     realized interest, by release month
  loan_count   loans disbursed, by disbursement month
  avg_loan     mean loan size, by disbursement month
  expenses     expense amounts, by expense month

Examples:
  loanbook pivot --metric disbursed
  loanbook pivot --metric expenses --format yaml`,
	RunE: runPivot,
}

func init() {
	addReportFlags(pivotCmd)
	pivotCmd.Flags().String("metric", "disbursed", "metric to pivot: disbursed, interest, loan_count, avg_loan, expenses")
	rootCmd.AddCommand(pivotCmd)
}

func runPivot(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	metric, _ := cmd.Flags().GetString("metric")

	snap, closeSrc, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	rep, err := report.BuildPivot(snap, metric)
	if err != nil {
		return err
	}

	w, closeOut, err := outputTarget(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return report.Render(w, format, rep)
}
