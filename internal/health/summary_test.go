package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goldbook/loanbook-cli/internal/model"
)

func TestPeriodContains(t *testing.T) {
	p := Period{From: day(2026, 1, 1), To: day(2026, 3, 31)}

	assert.True(t, p.Contains(day(2026, 1, 1)))
	assert.True(t, p.Contains(day(2026, 3, 31)))
	assert.True(t, p.Contains(day(2026, 2, 15)))
	assert.False(t, p.Contains(day(2025, 12, 31)))
	assert.False(t, p.Contains(day(2026, 4, 1)))
	assert.False(t, p.Contains(time.Time{}))
}

func TestPeriodPrevious(t *testing.T) {
	p := Period{From: day(2026, 1, 1), To: day(2026, 3, 31)}
	prev := p.Previous()

	assert.Equal(t, day(2025, 12, 31), prev.To)
	assert.Equal(t, prev.To.Sub(prev.From), p.To.Sub(p.From))
}

func TestSummarize(t *testing.T) {
	period := Period{From: day(2026, 1, 1), To: day(2026, 3, 31)}

	loans := []model.Loan{
		// In period, active.
		{LoanID: "GL-1", CustomerID: "A", Principal: 100_000, DisbursedOn: day(2026, 2, 1),
			OutstandingPrincipal: 100_000, DepositedInterest: ptrFloat64(2_000)},
		// In period, active, same customer.
		{LoanID: "GL-2", CustomerID: "A", Principal: 60_000, DisbursedOn: day(2026, 3, 1),
			OutstandingPrincipal: 60_000},
		// Prior window.
		{LoanID: "GL-3", CustomerID: "B", Principal: 80_000, DisbursedOn: day(2025, 11, 1),
			OutstandingPrincipal: 80_000},
		// Released inside the period: earns max(contracted, deposited).
		{LoanID: "GL-4", CustomerID: "C", Principal: 40_000, DisbursedOn: day(2025, 6, 1),
			ReleasedOn: ptrTime(day(2026, 2, 15)), ContractedInterest: 3_000},
	}

	s := Summarize(loans, period, testEpoch)

	assert.InDelta(t, 160_000, s.Disbursed, 0.001)
	assert.Equal(t, 2, s.LoanCount)
	assert.InDelta(t, 80_000, s.AvgLoanSize, 0.001)
	assert.InDelta(t, 240_000, s.Outstanding, 0.001)
	assert.Equal(t, 3, s.ActiveLoans)
	assert.Equal(t, 2, s.ActiveCustomers)
	// 2,000 active deposits + 3,000 released contracted.
	assert.InDelta(t, 5_000, s.InterestEarned, 0.001)
	assert.InDelta(t, (160_000.0-80_000)/80_000*100, s.DisbursedGrowthPct, 0.01)
}

func TestSummarizeGrowthGuards(t *testing.T) {
	period := Period{From: day(2026, 1, 1), To: day(2026, 3, 31)}
	loans := []model.Loan{
		{LoanID: "GL-1", CustomerID: "A", Principal: 100_000, DisbursedOn: day(2026, 2, 1)},
	}

	s := Summarize(loans, period, testEpoch)
	// Nothing in the prior window: growth reports 0, never ±Inf.
	assert.Zero(t, s.DisbursedGrowthPct)
	assert.Zero(t, s.LoanCountGrowthPct)
}

func TestSummarizeExcludesNonPositivePrincipal(t *testing.T) {
	period := Period{From: day(2026, 1, 1), To: day(2026, 3, 31)}
	loans := []model.Loan{
		{LoanID: "GL-1", CustomerID: "A", Principal: 100_000, DisbursedOn: day(2026, 2, 1)},
		{LoanID: "GL-2", CustomerID: "B", Principal: 0, DisbursedOn: day(2026, 2, 1)},
	}

	s := Summarize(loans, period, testEpoch)
	assert.Equal(t, 1, s.LoanCount)
	assert.InDelta(t, 100_000, s.AvgLoanSize, 0.001)
}
