package health

import (
	"math"
	"time"

	"github.com/goldbook/loanbook-cli/internal/model"
)

// Period is a half-open-free date window, inclusive on both ends.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.IsZero() && !t.Before(p.From) && !t.After(p.To)
}

// Previous returns the adjacent window of equal length ending the day
// before From.
func (p Period) Previous() Period {
	length := p.To.Sub(p.From)
	end := p.From.AddDate(0, 0, -1)
	return Period{From: end.Add(-length), To: end}
}

// Summary is the executive-level period snapshot: deployment, earnings and
// growth against the preceding window.
type Summary struct {
	Disbursed       float64 `json:"disbursed" yaml:"disbursed"`
	LoanCount       int     `json:"loan_count" yaml:"loan_count"`
	AvgLoanSize     float64 `json:"avg_loan_size" yaml:"avg_loan_size"`
	Outstanding     float64 `json:"outstanding" yaml:"outstanding"`
	ActiveLoans     int     `json:"active_loans" yaml:"active_loans"`
	ActiveCustomers int     `json:"active_customers" yaml:"active_customers"`
	InterestEarned  float64 `json:"interest_earned" yaml:"interest_earned"`

	DisbursedGrowthPct float64 `json:"disbursed_growth_pct" yaml:"disbursed_growth_pct"`
	InterestGrowthPct  float64 `json:"interest_growth_pct" yaml:"interest_growth_pct"`
	LoanCountGrowthPct float64 `json:"loan_count_growth_pct" yaml:"loan_count_growth_pct"`
}

// Summarize computes the period summary over a snapshot. Loans with a
// missing disbursement date or non-positive principal are excluded from the
// averaging statistics but still contribute deposits to interest earned —
// exclusion policy is per statistic, never blanket.
func Summarize(loans []model.Loan, period Period, epoch time.Time) Summary {
	var s Summary
	var prevDisbursed, prevInterest float64
	var prevCount int
	prev := period.Previous()

	seen := map[string]bool{}
	for i := range loans {
		l := loans[i]

		if !l.Released() {
			s.ActiveLoans++
			s.Outstanding += l.OutstandingPrincipal
			key := l.CustomerID
			if key == "" {
				key = l.CustomerName
			}
			if key != "" && !seen[key] {
				seen[key] = true
				s.ActiveCustomers++
			}
		}

		if l.Principal > 0 && period.Contains(l.DisbursedOn) {
			s.Disbursed += l.Principal
			s.LoanCount++
		}
		if l.Principal > 0 && prev.Contains(l.DisbursedOn) {
			prevDisbursed += l.Principal
			prevCount++
		}
	}

	s.InterestEarned = earnedThrough(loans, epoch, period.To)
	prevInterest = earnedThrough(loans, epoch, prev.To)

	if s.LoanCount > 0 {
		s.AvgLoanSize = s.Disbursed / float64(s.LoanCount)
	}
	s.DisbursedGrowthPct = growth(s.Disbursed, prevDisbursed)
	s.InterestGrowthPct = growth(s.InterestEarned, prevInterest)
	s.LoanCountGrowthPct = growth(float64(s.LoanCount), float64(prevCount))

	return s
}

// earnedThrough applies the recovery rule over [epoch, cutoff]: released
// loans in the window contribute max(contracted, deposited); active loans
// with deposits contribute the deposits.
func earnedThrough(loans []model.Loan, epoch, cutoff time.Time) float64 {
	var earned float64
	for i := range loans {
		l := loans[i]
		if l.Released() {
			if l.ReleasedOn.Before(epoch) || l.ReleasedOn.After(cutoff) {
				continue
			}
			earned += math.Max(l.ContractedInterest, l.Deposited())
		} else if l.Deposited() > 0 {
			earned += l.Deposited()
		}
	}
	return earned
}

func growth(cur, prev float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
