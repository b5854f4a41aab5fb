package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/goldbook/loanbook-cli/internal/normalize"
)

// XLSX reads snapshots from a workbook export of the record store. The
// workbook carries a "loans" sheet and an "expenses" sheet, each with a
// header row naming the columns.
type XLSX struct {
	path string
}

// NewXLSX points a source at a workbook file. The file is re-opened on every
// load so a replaced export is picked up without restarting.
func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

// Loans parses the "loans" sheet.
func (x *XLSX) Loans(_ context.Context) ([]normalize.RawLoan, error) {
	rows, idx, err := x.readSheet("loans")
	if err != nil {
		return nil, err
	}

	var out []normalize.RawLoan
	for i, cells := range rows {
		get := func(col string) string { return cellAt(cells, idx, col) }

		var r normalize.RawLoan
		r.LoanID = get("loan_id")
		r.CustomerID = get("customer_id")
		r.CustomerName = get("customer_name")
		r.Segment = get("segment")
		r.Released = get("released")

		for _, f := range []struct {
			col  string
			dest **float64
		}{
			{"principal", &r.Principal},
			{"net_weight_grams", &r.NetWeightGrams},
			{"rate_per_gram", &r.RatePerGram},
			{"purity_pct", &r.PurityPct},
			{"quoted_ltv_pct", &r.QuotedLTVPct},
			{"interest_rate_pct", &r.InterestRatePct},
			{"contracted_interest", &r.ContractedInterest},
			{"deposited_interest", &r.DepositedInterest},
			{"outstanding_principal", &r.OutstandingPrincipal},
		} {
			if *f.dest, err = cellFloat(get(f.col)); err != nil {
				return nil, eris.Wrapf(err, "xlsx: loans row %d column %s", i+2, f.col)
			}
		}

		for _, f := range []struct {
			col  string
			dest **time.Time
		}{
			{"disbursed_on", &r.DisbursedOn},
			{"released_on", &r.ReleasedOn},
			{"expires_on", &r.ExpiresOn},
			{"last_interest_paid_on", &r.LastInterestPaidOn},
		} {
			if *f.dest, err = cellDate(get(f.col)); err != nil {
				return nil, eris.Wrapf(err, "xlsx: loans row %d column %s", i+2, f.col)
			}
		}

		out = append(out, r)
	}
	return out, nil
}

// Expenses parses the "expenses" sheet.
func (x *XLSX) Expenses(_ context.Context) ([]normalize.RawExpense, error) {
	rows, idx, err := x.readSheet("expenses")
	if err != nil {
		return nil, err
	}

	var out []normalize.RawExpense
	for i, cells := range rows {
		get := func(col string) string { return cellAt(cells, idx, col) }

		var r normalize.RawExpense
		r.ID = get("id")
		r.Ledger = get("ledger")
		r.PaymentMode = get("payment_mode")
		r.HasReceipt = get("has_receipt")
		r.RecordedBy = get("recorded_by")
		if r.Amount, err = cellFloat(get("amount")); err != nil {
			return nil, eris.Wrapf(err, "xlsx: expenses row %d column amount", i+2)
		}
		if r.Date, err = cellDate(get("date")); err != nil {
			return nil, eris.Wrapf(err, "xlsx: expenses row %d column date", i+2)
		}
		out = append(out, r)
	}
	return out, nil
}

// Close is a no-op; the workbook is opened per load.
func (x *XLSX) Close() error { return nil }

// readSheet returns the data rows of a sheet plus a header→column index map.
func (x *XLSX) readSheet(name string) ([][]string, map[string]int, error) {
	f, err := xlsx.OpenFile(x.path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "xlsx: open workbook")
	}
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, nil, eris.Errorf("xlsx: sheet %q not found", name)
	}
	if len(sheet.Rows) == 0 {
		return nil, nil, eris.Errorf("xlsx: sheet %q is empty", name)
	}

	idx := make(map[string]int, len(sheet.Rows[0].Cells))
	for j, cell := range sheet.Rows[0].Cells {
		idx[strings.ToLower(strings.TrimSpace(cell.String()))] = j
	}

	var rows [][]string
	for _, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		empty := true
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
			if cells[j] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, cells)
	}
	return rows, idx, nil
}

func cellAt(cells []string, idx map[string]int, col string) string {
	j, ok := idx[col]
	if !ok || j >= len(cells) {
		return ""
	}
	return cells[j]
}

func cellFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil, eris.Wrapf(err, "parse number %q", s)
	}
	return &v, nil
}

func cellDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "01-02-06", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t, nil
		}
	}
	return nil, eris.Errorf("parse date %q", s)
}
