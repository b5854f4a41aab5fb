// Package aging flags active loans whose age or accrued interest has eroded
// the collateral cushion. Released loans are never assessed.
package aging

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/goldbook/loanbook-cli/internal/ltv"
	"github.com/goldbook/loanbook-cli/internal/model"
)

// daysPerMonth converts loan age to fractional months (365.25 / 12).
const daysPerMonth = 30.44

// Flag is one risk-category membership. A loan may carry several at once;
// the assessment returns a set, not a single classification.
type Flag string

const (
	FlagSegmentAged    Flag = "segment_aged"
	FlagPaymentOverdue Flag = "payment_overdue"
	FlagExpiringSoon   Flag = "expiring_soon"
)

// Params carries the externally configured detection thresholds.
type Params struct {
	// Now is the evaluation instant.
	Now time.Time
	// AccrualRatePctPerMonth is the monthly interest accrual eating into the
	// collateral cushion. Default 1.25.
	AccrualRatePctPerMonth float64
	// Per-segment age thresholds in days.
	PrivateAgedAfterDays int
	VyapariAgedAfterDays int
	// ExpiryWarningDays flags loans maturing within the window.
	ExpiryWarningDays int
}

// DefaultParams returns the book's standard thresholds.
func DefaultParams(now time.Time) Params {
	return Params{
		Now:                    now,
		AccrualRatePctPerMonth: 1.25,
		PrivateAgedAfterDays:   365,
		VyapariAgedAfterDays:   730,
		ExpiryWarningDays:      7,
	}
}

// Validate fails fast on parameters that indicate a caller bug. Dirty data
// never errors; a negative accrual rate always does.
func (p Params) Validate() error {
	if p.AccrualRatePctPerMonth < 0 {
		return eris.New("aging: accrual rate must be >= 0")
	}
	if p.PrivateAgedAfterDays <= 0 || p.VyapariAgedAfterDays <= 0 {
		return eris.New("aging: segment age thresholds must be > 0")
	}
	if p.ExpiryWarningDays < 0 {
		return eris.New("aging: expiry warning window must be >= 0")
	}
	return nil
}

// Assessment is the per-loan risk readout for an active loan.
type Assessment struct {
	LoanID       string        `json:"loan_id" yaml:"loan_id"`
	CustomerName string        `json:"customer_name" yaml:"customer_name"`
	Segment      model.Segment `json:"segment" yaml:"segment"`
	DaysActive   int           `json:"days_active" yaml:"days_active"`
	MonthsActive float64       `json:"months_active" yaml:"months_active"`
	LTVPct       float64       `json:"ltv_pct" yaml:"ltv_pct"`
	// EquityRemainingPct may go negative: the loan is already
	// undercollateralized once accrual has consumed the cushion.
	EquityRemainingPct float64 `json:"equity_remaining_pct" yaml:"equity_remaining_pct"`
	Flags              []Flag  `json:"flags" yaml:"flags"`
}

// EquityRemaining returns the residual collateral cushion after the LTV and
// the accrued-but-unpaid interest over monthsActive.
func EquityRemaining(ltvPct, monthsActive, accrualRatePctPerMonth float64) float64 {
	return 100 - (ltvPct + accrualRatePctPerMonth*monthsActive)
}

// Assess evaluates one loan. The second result is false for released loans
// and loans without a disbursement date, which carry no aging signal.
func Assess(l model.Loan, p Params) (Assessment, bool) {
	if l.Released() || l.DisbursedOn.IsZero() {
		return Assessment{}, false
	}

	a := Assessment{
		LoanID:       l.LoanID,
		CustomerName: l.CustomerName,
		Segment:      l.Segment,
		DaysActive:   int(p.Now.Sub(l.DisbursedOn).Hours() / 24),
		LTVPct:       ltv.Ratio(l),
	}
	a.MonthsActive = float64(a.DaysActive) / daysPerMonth
	a.EquityRemainingPct = EquityRemaining(a.LTVPct, a.MonthsActive, p.AccrualRatePctPerMonth)

	switch l.Segment {
	case model.SegmentPrivate:
		if a.DaysActive > p.PrivateAgedAfterDays {
			a.Flags = append(a.Flags, FlagSegmentAged)
		}
	case model.SegmentVyapari:
		if a.DaysActive > p.VyapariAgedAfterDays {
			a.Flags = append(a.Flags, FlagSegmentAged)
		}
	}

	// Less than one month's accrual of cushion left means the borrower is
	// effectively behind on payments.
	if a.EquityRemainingPct < p.AccrualRatePctPerMonth {
		a.Flags = append(a.Flags, FlagPaymentOverdue)
	}

	if p.ExpiryWarningDays > 0 && l.ExpiresOn != nil &&
		!l.ExpiresOn.After(p.Now.AddDate(0, 0, p.ExpiryWarningDays)) {
		a.Flags = append(a.Flags, FlagExpiringSoon)
	}

	return a, true
}

// AssessAll evaluates every active loan in input order and returns only the
// assessments that carry at least one flag.
func AssessAll(loans []model.Loan, p Params) ([]Assessment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out []Assessment
	for i := range loans {
		a, ok := Assess(loans[i], p)
		if ok && len(a.Flags) > 0 {
			out = append(out, a)
		}
	}
	return out, nil
}
