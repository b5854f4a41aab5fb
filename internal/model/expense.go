package model

import "time"

// PaymentMode records how an expense was settled.
type PaymentMode string

const (
	PaymentModeCash PaymentMode = "Cash"
	PaymentModeBank PaymentMode = "Bank"
)

// Expense is a single bookkeeping outflow, supplied alongside loans so that
// expense reports can reuse the same time-bucket machinery.
type Expense struct {
	ID          string      `json:"id" yaml:"id"`
	Date        time.Time   `json:"date" yaml:"date"`
	Ledger      string      `json:"ledger" yaml:"ledger"`
	Amount      float64     `json:"amount" yaml:"amount"`
	PaymentMode PaymentMode `json:"payment_mode" yaml:"payment_mode"`
	HasReceipt  bool        `json:"has_receipt" yaml:"has_receipt"`
	RecordedBy  string      `json:"recorded_by" yaml:"recorded_by"`
}
