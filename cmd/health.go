package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goldbook/loanbook-cli/internal/health"
	"github.com/goldbook/loanbook-cli/internal/report"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Composite portfolio health scorecard",
	Long: `Scores the loan book 0-100 on four axes and reports their mean:

  ltv_health                distance of active average LTV from the 75% target
  collection_health         interest collected vs. the benchmark expectation
  diversification_health    top-5 customer concentration of pending principal
  interest_coverage_health  interest earned vs. deployed principal since the
                            reference epoch

Examples:
  loanbook health
  loanbook health --as-of 2026-03-31 --format yaml`,
	RunE: runHealth,
}

func init() {
	addReportFlags(healthCmd)
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}
	now, err := asOf(cmd)
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

	zap.L().Info("scoring portfolio health",
		zap.Int("loans", len(snap.Loans)),
		zap.Time("as_of", now),
	)

	rep := report.BuildHealth(snap, health.Params{
		BenchmarkRate:  cfg.Analytics.BenchmarkRate,
		ReferenceEpoch: epoch,
		Now:            now,
	})

	w, closeOut, err := outputTarget(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return report.Render(w, format, rep)
}
