// Package normalize is the single boundary where loose legacy encodings are
// converted into strict model records. String booleans ("TRUE", "false"),
// mixed-case segment names and missing numerics all resolve here, once,
// before any formula runs. Nothing downstream re-parses raw fields.
package normalize

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goldbook/loanbook-cli/internal/model"
)

// Flag marks a per-field data-quality issue on a record. A flagged record is
// never dropped here; each statistic decides which flags disqualify a row.
type Flag string

const (
	FlagMissingDisbursementDate Flag = "missing_disbursement_date"
	FlagNonPositivePrincipal    Flag = "non_positive_principal"
	FlagMissingDepositLedger    Flag = "missing_deposit_ledger"
	FlagReleasedFlagMismatch    Flag = "released_flag_mismatch"
	FlagUnknownSegment          Flag = "unknown_segment"
	FlagPurityOutOfRange        Flag = "purity_out_of_range"
	FlagReleaseBeforeDisbursal  Flag = "release_before_disbursal"
	FlagNegativeAmount          Flag = "negative_amount"
)

// FlagSet is the set of quality flags attached to one record.
type FlagSet map[Flag]bool

// Has reports whether the flag is set.
func (fs FlagSet) Has(f Flag) bool { return fs[f] }

// Report summarizes data quality across a normalized batch. One bad record
// never aborts a report; it shows up here instead.
type Report struct {
	Records    int                `json:"records" yaml:"records"`
	Flagged    int                `json:"flagged" yaml:"flagged"`
	FlagCounts map[Flag]int       `json:"flag_counts" yaml:"flag_counts"`
	LoanFlags  map[string]FlagSet `json:"-" yaml:"-"`
}

func newReport() *Report {
	return &Report{FlagCounts: make(map[Flag]int), LoanFlags: make(map[string]FlagSet)}
}

func (r *Report) add(id string, fs FlagSet) {
	r.Records++
	if len(fs) == 0 {
		return
	}
	r.Flagged++
	r.LoanFlags[id] = fs
	for f := range fs {
		r.FlagCounts[f]++
	}
}

// Loan converts one raw record into a strict model.Loan plus its quality
// flags. It never fails: defaults are resolved per field, not blanket
// zero-filled, and the flags tell callers what was missing.
func Loan(raw RawLoan) (model.Loan, FlagSet) {
	flags := FlagSet{}

	loan := model.Loan{
		LoanID:       strings.TrimSpace(raw.LoanID),
		CustomerID:   strings.TrimSpace(raw.CustomerID),
		CustomerName: strings.TrimSpace(raw.CustomerName),
		Segment:      segment(raw.Segment, flags),

		Principal:      deref(raw.Principal),
		NetWeightGrams: deref(raw.NetWeightGrams),
		RatePerGram:    deref(raw.RatePerGram),
		PurityPct:      deref(raw.PurityPct),
		QuotedLTVPct:   deref(raw.QuotedLTVPct),

		ReleasedOn: raw.ReleasedOn,
		ExpiresOn:  raw.ExpiresOn,

		InterestRatePct:      deref(raw.InterestRatePct),
		ContractedInterest:   deref(raw.ContractedInterest),
		DepositedInterest:    raw.DepositedInterest,
		OutstandingPrincipal: deref(raw.OutstandingPrincipal),
		LastInterestPaidOn:   raw.LastInterestPaidOn,
	}

	if raw.DisbursedOn != nil {
		loan.DisbursedOn = *raw.DisbursedOn
	} else {
		flags[FlagMissingDisbursementDate] = true
	}
	if loan.Principal <= 0 {
		flags[FlagNonPositivePrincipal] = true
	}
	if loan.NetWeightGrams < 0 || loan.RatePerGram < 0 || loan.ContractedInterest < 0 {
		flags[FlagNegativeAmount] = true
	}
	if loan.PurityPct <= 0 || loan.PurityPct > 100 {
		flags[FlagPurityOutOfRange] = true
	}
	if raw.DepositedInterest == nil {
		// Kept as nil on the model: zero for the realized-interest fallback,
		// excluded from averaging statistics.
		flags[FlagMissingDepositLedger] = true
	}
	if loan.ReleasedOn != nil && !loan.DisbursedOn.IsZero() && loan.ReleasedOn.Before(loan.DisbursedOn) {
		flags[FlagReleaseBeforeDisbursal] = true
	}

	// Release date presence wins over the stored flag; disagreements are
	// logged and flagged, never silently reconciled.
	if stored, ok := parseBool(raw.Released); ok && stored != (loan.ReleasedOn != nil) {
		flags[FlagReleasedFlagMismatch] = true
		zap.L().Warn("normalize: released flag disagrees with release date",
			zap.String("loan_id", loan.LoanID),
			zap.Bool("stored_flag", stored),
			zap.Bool("has_release_date", loan.ReleasedOn != nil),
		)
	}

	return loan, flags
}

// Loans normalizes a batch in input order and returns the quality report.
func Loans(raws []RawLoan) ([]model.Loan, *Report) {
	report := newReport()
	loans := make([]model.Loan, 0, len(raws))
	for _, raw := range raws {
		loan, flags := Loan(raw)
		report.add(loan.LoanID, flags)
		loans = append(loans, loan)
	}
	return loans, report
}

// Expense converts one raw expense row.
func Expense(raw RawExpense) (model.Expense, FlagSet) {
	flags := FlagSet{}
	exp := model.Expense{
		ID:         strings.TrimSpace(raw.ID),
		Ledger:     strings.TrimSpace(raw.Ledger),
		Amount:     deref(raw.Amount),
		RecordedBy: strings.TrimSpace(raw.RecordedBy),
	}
	if raw.Date != nil {
		exp.Date = *raw.Date
	} else {
		flags[FlagMissingDisbursementDate] = true
	}
	if exp.Amount < 0 {
		flags[FlagNegativeAmount] = true
	}
	switch strings.ToLower(strings.TrimSpace(raw.PaymentMode)) {
	case "bank", "upi", "transfer":
		exp.PaymentMode = model.PaymentModeBank
	default:
		exp.PaymentMode = model.PaymentModeCash
	}
	if v, ok := parseBool(raw.HasReceipt); ok {
		exp.HasReceipt = v
	}
	return exp, flags
}

// Expenses normalizes a batch in input order.
func Expenses(raws []RawExpense) ([]model.Expense, *Report) {
	report := newReport()
	exps := make([]model.Expense, 0, len(raws))
	for _, raw := range raws {
		exp, flags := Expense(raw)
		report.add(exp.ID, flags)
		exps = append(exps, exp)
	}
	return exps, report
}

func segment(raw string, flags FlagSet) model.Segment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "private":
		return model.SegmentPrivate
	case "vyapari":
		return model.SegmentVyapari
	default:
		flags[FlagUnknownSegment] = true
		return model.SegmentUnknown
	}
}

// parseBool accepts the encodings found in the legacy book: "TRUE"/"False",
// "yes"/"no", "1"/"0". The second result is false when the field is empty or
// unrecognizable.
func parseBool(raw string) (value, ok bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return false, false
	case "true", "yes", "y":
		return true, true
	case "false", "no", "n":
		return false, true
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v, true
	}
	return false, false
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
