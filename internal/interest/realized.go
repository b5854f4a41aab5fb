// Package interest implements cash-basis interest attribution and the
// cohort-level yield aggregation used by every performance report.
package interest

import "github.com/goldbook/loanbook-cli/internal/model"

// Realized returns the interest actually attributable to a loan.
//
// Deposits are the primary signal: cash that reached the ledger. Released
// loans predating deposit tracking fall back to the contracted amount —
// those loans were closed, so their interest was recovered even though no
// deposit row exists. Active loans without deposits have earned nothing yet.
func Realized(l model.Loan) float64 {
	if l.Deposited() > 0 {
		return l.Deposited()
	}
	if l.Released() {
		return l.ContractedInterest
	}
	return 0
}

// AnnualizedYield returns the single-loan annualized yield percentage.
// Valid only for display at the individual-loan level: averaging these
// across a cohort systematically overweights short-duration loans. Use
// CohortYield for any aggregate figure.
func AnnualizedYield(l model.Loan) float64 {
	days := l.HoldingDays()
	if l.Principal <= 0 || days <= 0 {
		return 0
	}
	return (Realized(l) / l.Principal) * (365 / float64(days)) * 100
}
