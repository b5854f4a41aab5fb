package normalize

import "time"

// RawLoan is a loan row exactly as the record store hands it over: loosely
// typed, with legacy string booleans and nullable numerics. Pointer fields
// distinguish "absent" from "zero".
type RawLoan struct {
	LoanID       string
	CustomerID   string
	CustomerName string
	Segment      string // "Private", "vyapari", "VYAPARI", ...

	Principal      *float64
	NetWeightGrams *float64
	RatePerGram    *float64
	PurityPct      *float64
	QuotedLTVPct   *float64

	DisbursedOn *time.Time
	ReleasedOn  *time.Time
	Released    string // legacy stored flag: "TRUE"/"False"/"" — see Loan()
	ExpiresOn   *time.Time

	InterestRatePct      *float64
	ContractedInterest   *float64
	DepositedInterest    *float64 // nil on rows predating deposit tracking
	OutstandingPrincipal *float64
	LastInterestPaidOn   *time.Time
}

// RawExpense is an expense row as stored, before canonicalization.
type RawExpense struct {
	ID          string
	Date        *time.Time
	Ledger      string
	Amount      *float64
	PaymentMode string // "cash", "Bank", "UPI", ...
	HasReceipt  string // string boolean
	RecordedBy  string
}
