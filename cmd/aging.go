package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goldbook/loanbook-cli/internal/aging"
	"github.com/goldbook/loanbook-cli/internal/report"
)

var agingCmd = &cobra.Command{
	Use:   "aging",
	Short: "Aging and overdue risk flags for active loans",
	Long: `Flags active loans by risk category. A loan may carry several flags:

  segment_aged     active past the segment threshold (Private 365d, Vyapari 730d)
  payment_overdue  remaining collateral equity below one month of accrual
  expiring_soon    maturity date inside the warning window

Equity remaining = 100 - (LTV + accrual x months active); months use the
30.44-day average.

Examples:
  loanbook aging
  loanbook aging --as-of 2026-06-30 --format yaml`,
	RunE: runAging,
}

func init() {
	addReportFlags(agingCmd)
	rootCmd.AddCommand(agingCmd)
}

func runAging(cmd *cobra.Command, _ []string) error {
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

	snap, closeSrc, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	rep, err := report.BuildAging(snap, aging.Params{
		Now:                    now,
		AccrualRatePctPerMonth: cfg.Analytics.AccrualRatePctPerMonth,
		PrivateAgedAfterDays:   cfg.Analytics.PrivateAgedAfterDays,
		VyapariAgedAfterDays:   cfg.Analytics.VyapariAgedAfterDays,
		ExpiryWarningDays:      cfg.Analytics.ExpiryWarningDays,
	})
	if err != nil {
		return err
	}

	zap.L().Info("aging assessment complete",
		zap.Int("active_flagged", len(rep.Flagged)),
	)

	w, closeOut, err := outputTarget(cmd)
	if err != nil {
		return err
	}
	defer closeOut()
	return report.Render(w, format, rep)
}
