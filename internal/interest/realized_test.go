package interest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goldbook/loanbook-cli/internal/model"
)

func ptrFloat64(v float64) *float64  { return &v }
func ptrTime(t time.Time) *time.Time { return &t }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRealized(t *testing.T) {
	released := ptrTime(day(2025, 6, 1))

	tests := []struct {
		name string
		loan model.Loan
		want float64
	}{
		{
			"deposits win over contracted",
			model.Loan{ReleasedOn: released, ContractedInterest: 5000, DepositedInterest: ptrFloat64(4200)},
			4200,
		},
		{
			"released with zero deposit falls back to contracted",
			model.Loan{ReleasedOn: released, ContractedInterest: 5000, DepositedInterest: ptrFloat64(0)},
			5000,
		},
		{
			"released legacy row without deposit ledger falls back",
			model.Loan{ReleasedOn: released, ContractedInterest: 5000},
			5000,
		},
		{
			"active with deposits",
			model.Loan{ContractedInterest: 5000, DepositedInterest: ptrFloat64(1200)},
			1200,
		},
		{
			"active without deposits earns nothing",
			model.Loan{ContractedInterest: 5000},
			0,
		},
		{
			"active with explicit zero deposit earns nothing",
			model.Loan{ContractedInterest: 5000, DepositedInterest: ptrFloat64(0)},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Realized(tt.loan), 0.001)
		})
	}
}

func TestRealizedDeterministic(t *testing.T) {
	l := model.Loan{ReleasedOn: ptrTime(day(2025, 6, 1)), ContractedInterest: 5000}
	first := Realized(l)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Realized(l))
	}
}

func TestAnnualizedYield(t *testing.T) {
	tests := []struct {
		name string
		loan model.Loan
		want float64
	}{
		{
			"one year at 12%",
			model.Loan{
				Principal:          100_000,
				DisbursedOn:        day(2024, 1, 1),
				ReleasedOn:         ptrTime(day(2024, 12, 31)),
				DepositedInterest:  ptrFloat64(12_000),
			},
			12_000.0 / 100_000 * (365.0 / 365.0) * 100,
		},
		{
			"ten day loan annualizes high",
			model.Loan{
				Principal:         10_000,
				DisbursedOn:       day(2024, 1, 1),
				ReleasedOn:        ptrTime(day(2024, 1, 11)),
				DepositedInterest: ptrFloat64(260),
			},
			260.0 / 10_000 * (365.0 / 10.0) * 100,
		},
		{"active loan", model.Loan{Principal: 10_000}, 0},
		{
			"zero principal",
			model.Loan{DisbursedOn: day(2024, 1, 1), ReleasedOn: ptrTime(day(2024, 2, 1))},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AnnualizedYield(tt.loan), 0.01)
		})
	}
}
