package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/goldbook/loanbook-cli/internal/health"
	"github.com/goldbook/loanbook-cli/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Executive period summary with growth vs the prior window",
	Long: `Summarizes deployment and earnings for a date window: principal
disbursed, loan counts, average loan size, outstanding principal, active
customers, and interest earned, each with growth against the immediately
preceding window of equal length.

Examples:
  loanbook summary --from 2026-01-01 --to 2026-03-31
  loanbook summary --from 2026-01-01 --to 2026-12-31 --format yaml`,
	RunE: runSummary,
}

func init() {
	addReportFlags(summaryCmd)
	f := summaryCmd.Flags()
	f.String("from", "", "period start YYYY-MM-DD (required)")
	f.String("to", "", "period end YYYY-MM-DD (required)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	period, err := summaryPeriod(cmd)
	if err != nil {
		return err
	}
	epoch, err := cfg.Analytics.Epoch()
	if err != nil {
		return err
	}

	snap, closeSrc, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	rep := report.BuildSummary(snap, period, epoch)

	w, closeOut, err := outputTarget(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return report.Render(w, format, rep)
}

func summaryPeriod(cmd *cobra.Command) (health.Period, error) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	if fromStr == "" || toStr == "" {
		return health.Period{}, eris.New("summary: --from and --to are required")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return health.Period{}, eris.Wrapf(err, "parse --from %q", fromStr)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return health.Period{}, eris.Wrapf(err, "parse --to %q", toStr)
	}
	if to.Before(from) {
		return health.Period{}, eris.Errorf("summary: --to %s precedes --from %s", toStr, fromStr)
	}
	return health.Period{From: from, To: to}, nil
}
