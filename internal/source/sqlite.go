package source

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/goldbook/loanbook-cli/internal/normalize"
)

// SQLite reads snapshots from a local SQLite record store. Dates are stored
// as TEXT in "2006-01-02" form.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database file read-only.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, eris.Wrap(err, "source: open sqlite")
	}
	return &SQLite{db: db}, nil
}

// NewSQLiteFromDB wraps an existing handle (used by tests with in-memory DBs).
func NewSQLiteFromDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Loans returns the raw loan book in disbursement order.
func (s *SQLite) Loans(ctx context.Context) ([]normalize.RawLoan, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT loan_id, customer_id, customer_name, segment,
       principal, net_weight_grams, rate_per_gram, purity_pct, quoted_ltv_pct,
       disbursed_on, released_on, released, expires_on,
       interest_rate_pct, contracted_interest, deposited_interest,
       outstanding_principal, last_interest_paid_on
FROM loans
ORDER BY disbursed_on, loan_id`)
	if err != nil {
		return nil, eris.Wrap(err, "source: query loans")
	}
	defer rows.Close()

	var out []normalize.RawLoan
	for rows.Next() {
		var (
			r                            normalize.RawLoan
			customerID, customerName     sql.NullString
			segment, released            sql.NullString
			principal, netWt, rate       sql.NullFloat64
			purity, quotedLTV, intRate   sql.NullFloat64
			contracted, deposited, outst sql.NullFloat64
			disbursed, releasedOn        sql.NullString
			expires, lastPaid            sql.NullString
		)
		err := rows.Scan(
			&r.LoanID, &customerID, &customerName, &segment,
			&principal, &netWt, &rate, &purity, &quotedLTV,
			&disbursed, &releasedOn, &released, &expires,
			&intRate, &contracted, &deposited,
			&outst, &lastPaid,
		)
		if err != nil {
			return nil, eris.Wrap(err, "source: scan loan row")
		}
		r.CustomerID = customerID.String
		r.CustomerName = customerName.String
		r.Segment = segment.String
		r.Released = released.String
		r.Principal = nullFloat(principal)
		r.NetWeightGrams = nullFloat(netWt)
		r.RatePerGram = nullFloat(rate)
		r.PurityPct = nullFloat(purity)
		r.QuotedLTVPct = nullFloat(quotedLTV)
		r.InterestRatePct = nullFloat(intRate)
		r.ContractedInterest = nullFloat(contracted)
		r.DepositedInterest = nullFloat(deposited)
		r.OutstandingPrincipal = nullFloat(outst)
		if r.DisbursedOn, err = nullDate(disbursed); err != nil {
			return nil, eris.Wrapf(err, "source: loan %s disbursed_on", r.LoanID)
		}
		if r.ReleasedOn, err = nullDate(releasedOn); err != nil {
			return nil, eris.Wrapf(err, "source: loan %s released_on", r.LoanID)
		}
		if r.ExpiresOn, err = nullDate(expires); err != nil {
			return nil, eris.Wrapf(err, "source: loan %s expires_on", r.LoanID)
		}
		if r.LastInterestPaidOn, err = nullDate(lastPaid); err != nil {
			return nil, eris.Wrapf(err, "source: loan %s last_interest_paid_on", r.LoanID)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate loan rows")
	}
	return out, nil
}

// Expenses returns the raw expense ledger in date order.
func (s *SQLite) Expenses(ctx context.Context) ([]normalize.RawExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, date, ledger, amount, payment_mode, has_receipt, recorded_by
FROM expenses
ORDER BY date, id`)
	if err != nil {
		return nil, eris.Wrap(err, "source: query expenses")
	}
	defer rows.Close()

	var out []normalize.RawExpense
	for rows.Next() {
		var (
			r                         normalize.RawExpense
			date                      sql.NullString
			ledger, mode, receipt, by sql.NullString
			amount                    sql.NullFloat64
		)
		err := rows.Scan(&r.ID, &date, &ledger, &amount, &mode, &receipt, &by)
		if err != nil {
			return nil, eris.Wrap(err, "source: scan expense row")
		}
		r.Ledger = ledger.String
		r.PaymentMode = mode.String
		r.HasReceipt = receipt.String
		r.RecordedBy = by.String
		r.Amount = nullFloat(amount)
		if r.Date, err = nullDate(date); err != nil {
			return nil, eris.Wrapf(err, "source: expense %s date", r.ID)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "source: iterate expense rows")
	}
	return out, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v.String)
	if err != nil {
		return nil, eris.Wrapf(err, "parse date %q", v.String)
	}
	return &t, nil
}
