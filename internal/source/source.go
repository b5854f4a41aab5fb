// Package source implements the record-store boundary: read-only suppliers
// of ordered raw loan and expense rows. The analytics engine owns no schema
// and performs no writes; a source only hands over whatever the book keeps,
// loosely typed, for the normalizer to canonicalize.
package source

import (
	"context"

	"github.com/goldbook/loanbook-cli/internal/normalize"
)

// Source supplies raw record snapshots in disbursement order.
type Source interface {
	Loans(ctx context.Context) ([]normalize.RawLoan, error)
	Expenses(ctx context.Context) ([]normalize.RawExpense, error)
	Close() error
}
