// Package pivot builds the month×year aggregation tables every trend report
// is based on, plus their year-over-year and month-over-month deltas.
package pivot

import "time"

// Agg selects the per-cell aggregation.
type Agg int

const (
	Sum Agg = iota
	Count
	Mean
)

var monthAbbr = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthAbbr returns the fixed calendar row label for month index 0–11.
func MonthAbbr(i int) string { return monthAbbr[i] }

// Row is one dated observation. Callers project whichever record field and
// date they are pivoting on into a Row.
type Row struct {
	Date  time.Time
	Value float64
}

// Table is a month×year pivot. Rows are always the fixed 12-month calendar
// regardless of which months appear in the data; absent months hold zero.
// YearTotals is the synthetic Total row; MonthTotals is the Total column and
// is only populated when more than one year column exists.
type Table struct {
	Years       []int          `json:"years" yaml:"years"`
	Values      [12][]float64  `json:"values" yaml:"values"`
	YearTotals  []float64      `json:"year_totals" yaml:"year_totals"`
	MonthTotals []float64      `json:"month_totals,omitempty" yaml:"month_totals,omitempty"`
	GrandTotal  float64        `json:"grand_total" yaml:"grand_total"`
	// Skipped counts rows without a usable date, excluded rather than
	// misfiled.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// HasTotalColumn reports whether the Total column applies.
func (t Table) HasTotalColumn() bool { return len(t.Years) > 1 }

type cell struct {
	sum   float64
	count int
}

// Monthly groups rows by (month, year) under the given aggregation. Rows
// with a zero date are counted in Skipped. The synthetic totals always sum
// cell values, matching the report convention even under Count or Mean.
func Monthly(rows []Row, agg Agg) Table {
	var t Table
	cells := map[int]*[12]cell{}

	for _, r := range rows {
		if r.Date.IsZero() {
			t.Skipped++
			continue
		}
		y := r.Date.Year()
		m := int(r.Date.Month()) - 1
		byMonth, ok := cells[y]
		if !ok {
			byMonth = &[12]cell{}
			cells[y] = byMonth
		}
		byMonth[m].sum += r.Value
		byMonth[m].count++
	}

	for y := range cells {
		t.Years = insertSorted(t.Years, y)
	}

	for m := 0; m < 12; m++ {
		t.Values[m] = make([]float64, len(t.Years))
		for j, y := range t.Years {
			t.Values[m][j] = aggregate(cells[y][m], agg)
		}
	}

	t.YearTotals = make([]float64, len(t.Years))
	for j := range t.Years {
		for m := 0; m < 12; m++ {
			t.YearTotals[j] += t.Values[m][j]
		}
		t.GrandTotal += t.YearTotals[j]
	}

	if t.HasTotalColumn() {
		t.MonthTotals = make([]float64, 12)
		for m := 0; m < 12; m++ {
			for j := range t.Years {
				t.MonthTotals[m] += t.Values[m][j]
			}
		}
	}

	return t
}

func aggregate(c cell, agg Agg) float64 {
	switch agg {
	case Count:
		return float64(c.count)
	case Mean:
		if c.count == 0 {
			return 0
		}
		return c.sum / float64(c.count)
	default:
		return c.sum
	}
}

func insertSorted(years []int, y int) []int {
	i := 0
	for i < len(years) && years[i] < y {
		i++
	}
	years = append(years, 0)
	copy(years[i+1:], years[i:])
	years[i] = y
	return years
}
