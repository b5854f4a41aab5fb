package source

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE loans (
	loan_id TEXT PRIMARY KEY,
	customer_id TEXT, customer_name TEXT, segment TEXT,
	principal REAL, net_weight_grams REAL, rate_per_gram REAL,
	purity_pct REAL, quoted_ltv_pct REAL,
	disbursed_on TEXT, released_on TEXT, released TEXT, expires_on TEXT,
	interest_rate_pct REAL, contracted_interest REAL, deposited_interest REAL,
	outstanding_principal REAL, last_interest_paid_on TEXT
);
CREATE TABLE expenses (
	id TEXT PRIMARY KEY,
	date TEXT, ledger TEXT, amount REAL,
	payment_mode TEXT, has_receipt TEXT, recorded_by TEXT
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteLoans(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO loans VALUES
('GL-1','C-1','Asha Devi','Private',100000,50,6000,91.6,75,
 '2024-01-01','2025-01-01','TRUE',NULL,12,5000,4200,0,NULL),
('GL-2','C-2','Mohan Lal','vyapari',60000,NULL,NULL,NULL,NULL,
 '2024-03-01',NULL,'',NULL,NULL,3000,NULL,60000,NULL)`)
	require.NoError(t, err)

	src := NewSQLiteFromDB(db)
	loans, err := src.Loans(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 2)

	assert.Equal(t, "GL-1", loans[0].LoanID)
	require.NotNil(t, loans[0].Principal)
	assert.InDelta(t, 100_000, *loans[0].Principal, 0.001)
	require.NotNil(t, loans[0].ReleasedOn)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *loans[0].ReleasedOn)
	assert.Equal(t, "TRUE", loans[0].Released)

	// NULLs stay nil, not zero.
	assert.Nil(t, loans[1].NetWeightGrams)
	assert.Nil(t, loans[1].DepositedInterest)
	assert.Nil(t, loans[1].ReleasedOn)
}

func TestSQLiteLoansBadDate(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO loans (loan_id, disbursed_on) VALUES ('GL-9', '01/02/2024')`)
	require.NoError(t, err)

	src := NewSQLiteFromDB(db)
	_, err = src.Loans(context.Background())
	assert.Error(t, err)
}

func TestSQLiteExpenses(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO expenses VALUES
('E-1','2026-01-05','Rent',12000,'Bank','TRUE','admin'),
('E-2','2026-01-06',NULL,NULL,NULL,NULL,NULL)`)
	require.NoError(t, err)

	src := NewSQLiteFromDB(db)
	expenses, err := src.Expenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	assert.Equal(t, "Rent", expenses[0].Ledger)
	require.NotNil(t, expenses[0].Amount)
	assert.InDelta(t, 12_000, *expenses[0].Amount, 0.001)
	assert.Nil(t, expenses[1].Amount)
	assert.Empty(t, expenses[1].Ledger)
}
