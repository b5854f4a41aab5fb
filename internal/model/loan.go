// Package model defines the strict, canonical record types the analytics
// engine computes over. Records are immutable snapshots: the engine reads
// them and never writes back.
package model

import "time"

// Segment identifies which customer book a loan belongs to.
type Segment string

const (
	SegmentPrivate Segment = "Private"
	SegmentVyapari Segment = "Vyapari"
	SegmentUnknown Segment = ""
)

// Loan is a single disbursement event against pledged gold collateral.
// All monetary amounts are in rupees.
type Loan struct {
	LoanID       string  `json:"loan_id" yaml:"loan_id"`
	CustomerID   string  `json:"customer_id" yaml:"customer_id"`
	CustomerName string  `json:"customer_name" yaml:"customer_name"`
	Segment      Segment `json:"segment" yaml:"segment"`

	Principal      float64 `json:"principal" yaml:"principal"`
	NetWeightGrams float64 `json:"net_weight_grams" yaml:"net_weight_grams"`
	RatePerGram    float64 `json:"rate_per_gram" yaml:"rate_per_gram"`
	PurityPct      float64 `json:"purity_pct" yaml:"purity_pct"`
	QuotedLTVPct   float64 `json:"quoted_ltv_pct" yaml:"quoted_ltv_pct"`

	DisbursedOn time.Time  `json:"disbursed_on" yaml:"disbursed_on"`
	ReleasedOn  *time.Time `json:"released_on,omitempty" yaml:"released_on,omitempty"`
	ExpiresOn   *time.Time `json:"expires_on,omitempty" yaml:"expires_on,omitempty"`

	InterestRatePct    float64 `json:"interest_rate_pct" yaml:"interest_rate_pct"`
	ContractedInterest float64 `json:"contracted_interest" yaml:"contracted_interest"`
	// DepositedInterest is nil for legacy rows that predate deposit-level
	// tracking. A missing value is NOT the same as zero: the realized-interest
	// fallback treats it as zero, averaging statistics must exclude the row.
	DepositedInterest *float64 `json:"deposited_interest,omitempty" yaml:"deposited_interest,omitempty"`

	OutstandingPrincipal float64    `json:"outstanding_principal" yaml:"outstanding_principal"`
	LastInterestPaidOn   *time.Time `json:"last_interest_paid_on,omitempty" yaml:"last_interest_paid_on,omitempty"`
}

// Released reports whether the loan is closed. Presence of the release date
// is the single source of truth; the stored flag from legacy data is only
// consulted by the normalizer, which flags disagreements.
func (l *Loan) Released() bool {
	return l.ReleasedOn != nil
}

// HoldingDays returns the number of days between disbursement and release.
// Zero for active loans.
func (l *Loan) HoldingDays() int {
	if l.ReleasedOn == nil || l.DisbursedOn.IsZero() {
		return 0
	}
	return int(l.ReleasedOn.Sub(l.DisbursedOn).Hours() / 24)
}

// Deposited returns the deposited interest, treating a missing ledger as zero.
func (l *Loan) Deposited() float64 {
	if l.DepositedInterest == nil {
		return 0
	}
	return *l.DepositedInterest
}
