package interest

import (
	"go.uber.org/zap"

	"github.com/goldbook/loanbook-cli/internal/model"
)

// CohortMetrics is the capital-weighted yield summary for one cohort of
// released loans. Zero-valued for a degenerate cohort.
type CohortMetrics struct {
	TotalInterest     float64 `json:"total_interest" yaml:"total_interest"`
	TotalCapital      float64 `json:"total_capital" yaml:"total_capital"`
	WeightedAvgDays   float64 `json:"weighted_avg_days" yaml:"weighted_avg_days"`
	PortfolioYieldPct float64 `json:"portfolio_yield_pct" yaml:"portfolio_yield_pct"`
	SimpleReturnPct   float64 `json:"simple_return_pct" yaml:"simple_return_pct"`
	LoanCount         int     `json:"loan_count" yaml:"loan_count"`
	Excluded          int     `json:"excluded" yaml:"excluded"`
}

// CohortYield computes the portfolio-level annualized yield over a cohort.
//
// The aggregation is sum-then-divide:
//
//	portfolio_yield = (Σ interest / Σ capital) × (365 / weighted_avg_days) × 100
//
// and never a mean of per-loan annualized yields. A ten-day loan's
// individually-annualized figure is mathematically correct and wildly
// extreme; averaging it with year-long loans inflates the aggregate. The
// capital-weighted holding period keeps every rupee-day counted once.
//
// Loans that are unreleased, have a non-positive principal, or a
// non-positive holding period are excluded from the cohort (counted in
// Excluded), not zero-filled.
func CohortYield(loans []model.Loan) CohortMetrics {
	var m CohortMetrics
	var weightedDays float64

	for i := range loans {
		l := loans[i]
		days := l.HoldingDays()
		if !l.Released() || l.Principal <= 0 || days <= 0 {
			m.Excluded++
			continue
		}
		m.TotalInterest += Realized(l)
		m.TotalCapital += l.Principal
		weightedDays += l.Principal * float64(days)
		m.LoanCount++
	}

	if m.TotalCapital <= 0 {
		return CohortMetrics{Excluded: m.Excluded}
	}

	m.WeightedAvgDays = weightedDays / m.TotalCapital
	m.SimpleReturnPct = (m.TotalInterest / m.TotalCapital) * 100
	if m.WeightedAvgDays > 0 {
		m.PortfolioYieldPct = (m.TotalInterest / m.TotalCapital) * (365 / m.WeightedAvgDays) * 100
	}

	zap.L().Debug("interest: cohort yield computed",
		zap.Int("loans", m.LoanCount),
		zap.Int("excluded", m.Excluded),
		zap.Float64("portfolio_yield_pct", m.PortfolioYieldPct),
	)

	return m
}

// WeightedAvgDays returns the capital-weighted mean holding period over the
// cohort, applying the same exclusion filter as CohortYield.
func WeightedAvgDays(loans []model.Loan) float64 {
	return CohortYield(loans).WeightedAvgDays
}
