// Package ltv computes collateral coverage for gold-backed loans.
package ltv

import "github.com/goldbook/loanbook-cli/internal/model"

// CollateralValue is net weight × rate per gram × purity fraction.
func CollateralValue(l model.Loan) float64 {
	return l.NetWeightGrams * l.RatePerGram * (l.PurityPct / 100)
}

// Ratio returns the loan-to-value percentage: principal over collateral
// value. A non-positive collateral value yields 0, not an error — rows with
// missing weight or rate simply carry no coverage signal.
func Ratio(l model.Loan) float64 {
	cv := CollateralValue(l)
	if cv <= 0 {
		return 0
	}
	return (l.Principal / cv) * 100
}

// AverageActive returns the mean computed LTV across active loans with a
// positive principal. Returns 0 when no loan qualifies.
func AverageActive(loans []model.Loan) float64 {
	var sum float64
	var n int
	for i := range loans {
		l := loans[i]
		if l.Released() || l.Principal <= 0 {
			continue
		}
		sum += Ratio(l)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
