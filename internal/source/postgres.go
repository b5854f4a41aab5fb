package source

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/goldbook/loanbook-cli/internal/normalize"
)

// querier is the subset of pgxpool.Pool the source needs; pgxmock satisfies
// it in tests.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads snapshots from a Postgres-backed record store.
type Postgres struct {
	q    querier
	pool *pgxpool.Pool
}

// NewPostgres connects a pool to the given database URL.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "source: connect postgres")
	}
	return &Postgres{q: pool, pool: pool}, nil
}

// NewPostgresWithQuerier wraps an existing querier (used by tests).
func NewPostgresWithQuerier(q querier) *Postgres {
	return &Postgres{q: q}
}

const loanQuery = `
SELECT loan_id, customer_id, customer_name, segment,
       principal, net_weight_grams, rate_per_gram, purity_pct, quoted_ltv_pct,
       disbursed_on, released_on, COALESCE(released, ''), expires_on,
       interest_rate_pct, contracted_interest, deposited_interest,
       outstanding_principal, last_interest_paid_on
FROM loans
ORDER BY disbursed_on, loan_id`

// Loans returns the raw loan book in disbursement order.
func (p *Postgres) Loans(ctx context.Context) ([]normalize.RawLoan, error) {
	rows, err := p.q.Query(ctx, loanQuery)
	if err != nil {
		return nil, eris.Wrap(err, "source: query loans")
	}
	defer rows.Close()

	var out []normalize.RawLoan
	for rows.Next() {
		var r normalize.RawLoan
		err := rows.Scan(
			&r.LoanID, &r.CustomerID, &r.CustomerName, &r.Segment,
			&r.Principal, &r.NetWeightGrams, &r.RatePerGram, &r.PurityPct, &r.QuotedLTVPct,
			&r.DisbursedOn, &r.ReleasedOn, &r.Released, &r.ExpiresOn,
			&r.InterestRatePct, &r.ContractedInterest, &r.DepositedInterest,
			&r.OutstandingPrincipal, &r.LastInterestPaidOn,
		)
		if err != nil {
			return nil, eris.Wrap(err, "source: scan loan row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate loan rows")
	}
	return out, nil
}

const expenseQuery = `
SELECT id, date, COALESCE(ledger, ''), amount,
       COALESCE(payment_mode, ''), COALESCE(has_receipt, ''), COALESCE(recorded_by, '')
FROM expenses
ORDER BY date, id`

// Expenses returns the raw expense ledger in date order.
func (p *Postgres) Expenses(ctx context.Context) ([]normalize.RawExpense, error) {
	rows, err := p.q.Query(ctx, expenseQuery)
	if err != nil {
		return nil, eris.Wrap(err, "source: query expenses")
	}
	defer rows.Close()

	var out []normalize.RawExpense
	for rows.Next() {
		var r normalize.RawExpense
		err := rows.Scan(
			&r.ID, &r.Date, &r.Ledger, &r.Amount,
			&r.PaymentMode, &r.HasReceipt, &r.RecordedBy,
		)
		if err != nil {
			return nil, eris.Wrap(err, "source: scan expense row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate expense rows")
	}
	return out, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
