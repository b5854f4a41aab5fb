package interest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldbook/loanbook-cli/internal/model"
)

// heterogeneousCohort is a short high-churn loan next to a year-long one.
// The naive mean of per-loan annualized yields is wildly inflated by the
// short loan; the capital-weighted aggregate is not.
func heterogeneousCohort() []model.Loan {
	return []model.Loan{
		{
			// 10 days, 260 on 10,000 → ≈94.9% annualized on its own.
			LoanID:            "GL-001",
			Principal:         10_000,
			DisbursedOn:       day(2024, 1, 1),
			ReleasedOn:        ptrTime(day(2024, 1, 11)),
			DepositedInterest: ptrFloat64(260),
		},
		{
			// 372 days, 7,000 on 350,000 → ≈1.96% annualized.
			LoanID:            "GL-002",
			Principal:         350_000,
			DisbursedOn:       day(2023, 1, 1),
			ReleasedOn:        ptrTime(day(2024, 1, 8)),
			DepositedInterest: ptrFloat64(7_000),
		},
	}
}

func TestCohortYieldHeterogeneous(t *testing.T) {
	m := CohortYield(heterogeneousCohort())

	assert.Equal(t, 2, m.LoanCount)
	assert.Equal(t, 0, m.Excluded)
	assert.InDelta(t, 7_260, m.TotalInterest, 0.001)
	assert.InDelta(t, 360_000, m.TotalCapital, 0.001)
	// (10000×10 + 350000×372) / 360000
	assert.InDelta(t, 361.944, m.WeightedAvgDays, 0.01)
	assert.InDelta(t, 2.0167, m.SimpleReturnPct, 0.001)
	// (7260/360000) × (365/361.944) × 100
	assert.InDelta(t, 2.0337, m.PortfolioYieldPct, 0.001)
}

func TestCohortYieldNotMeanOfPerLoanYields(t *testing.T) {
	loans := heterogeneousCohort()
	m := CohortYield(loans)

	var naive float64
	for _, l := range loans {
		naive += AnnualizedYield(l)
	}
	naive /= float64(len(loans))

	// The naive mean sits near 48%; the aggregate must stay near 2%.
	require.Greater(t, naive, 40.0)
	assert.Less(t, m.PortfolioYieldPct, 3.0)
}

func TestCohortYieldTwoLoanDivergence(t *testing.T) {
	// A 10-day flip next to a year-long loan a hundred times its size.
	loans := []model.Loan{
		{
			LoanID:            "GL-A",
			Principal:         10_000,
			DisbursedOn:       day(2024, 1, 1),
			ReleasedOn:        ptrTime(day(2024, 1, 11)),
			DepositedInterest: ptrFloat64(500),
		},
		{
			LoanID:            "GL-B",
			Principal:         1_000_000,
			DisbursedOn:       day(2023, 1, 1),
			ReleasedOn:        ptrTime(day(2024, 1, 1)),
			DepositedInterest: ptrFloat64(20_000),
		},
	}

	m := CohortYield(loans)
	assert.InDelta(t, 20_500, m.TotalInterest, 0.001)
	assert.InDelta(t, 1_010_000, m.TotalCapital, 0.001)
	// (10000×10 + 1000000×365) / 1010000
	assert.InDelta(t, 361.485, m.WeightedAvgDays, 0.01)
	assert.InDelta(t, 2.0297, m.SimpleReturnPct, 0.001)
	assert.InDelta(t, 2.0494, m.PortfolioYieldPct, 0.001)

	// Per-loan: 182.5% and 2.0%. The mean of those is no portfolio figure.
	var naive float64
	for _, l := range loans {
		naive += AnnualizedYield(l)
	}
	naive /= float64(len(loans))
	assert.InDelta(t, 92.25, naive, 0.01)
	assert.Greater(t, naive, 45*m.PortfolioYieldPct)
}

func TestCohortYieldExclusions(t *testing.T) {
	sameDay := day(2024, 3, 1)
	loans := append(heterogeneousCohort(),
		// Active: excluded.
		model.Loan{LoanID: "GL-003", Principal: 50_000, DisbursedOn: day(2024, 1, 1)},
		// Zero principal: excluded.
		model.Loan{LoanID: "GL-004", DisbursedOn: day(2024, 1, 1), ReleasedOn: ptrTime(day(2024, 2, 1))},
		// Released same day it was disbursed: zero holding days, excluded.
		model.Loan{LoanID: "GL-005", Principal: 20_000, DisbursedOn: sameDay, ReleasedOn: ptrTime(sameDay)},
	)

	m := CohortYield(loans)
	assert.Equal(t, 2, m.LoanCount)
	assert.Equal(t, 3, m.Excluded)
	assert.InDelta(t, 360_000, m.TotalCapital, 0.001)
}

func TestCohortYieldDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		loans []model.Loan
		want  int // excluded
	}{
		{"empty", nil, 0},
		{"all active", []model.Loan{{Principal: 10_000, DisbursedOn: day(2024, 1, 1)}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CohortYield(tt.loans)
			assert.Zero(t, m.PortfolioYieldPct)
			assert.Zero(t, m.SimpleReturnPct)
			assert.Zero(t, m.WeightedAvgDays)
			assert.Zero(t, m.LoanCount)
			assert.Equal(t, tt.want, m.Excluded)
		})
	}
}

func TestByHoldingBand(t *testing.T) {
	short, long := ByHoldingBand(heterogeneousCohort(), 30)

	assert.Equal(t, "<30 days", short.Label)
	assert.Equal(t, "30+ days", long.Label)
	assert.Equal(t, 1, short.Metrics.LoanCount)
	assert.Equal(t, 1, long.Metrics.LoanCount)
	assert.InDelta(t, 10_000.0/360_000*100, short.CapitalSharePct, 0.01)
	assert.InDelta(t, 350_000.0/360_000*100, long.CapitalSharePct, 0.01)

	// Overall is recomputed from combined totals, never a share-weighted
	// mix of the band yields.
	overall := CohortYield(heterogeneousCohort())
	mix := short.Metrics.PortfolioYieldPct*short.CapitalSharePct/100 +
		long.Metrics.PortfolioYieldPct*long.CapitalSharePct/100
	assert.Greater(t, math.Abs(mix-overall.PortfolioYieldPct), 0.0001)
}

func TestByPrincipalRange(t *testing.T) {
	out := ByPrincipalRange(heterogeneousCohort(), []float64{50_000, 100_000})

	// Empty middle bucket omitted.
	if assert.Len(t, out, 2) {
		assert.Equal(t, "≤50K", out[0].Label)
		assert.Equal(t, ">100K", out[1].Label)
		assert.Equal(t, 1, out[0].Metrics.LoanCount)
		assert.Equal(t, 1, out[1].Metrics.LoanCount)
	}
}

func TestBySegment(t *testing.T) {
	loans := heterogeneousCohort()
	loans[0].Segment = model.SegmentPrivate
	loans[1].Segment = model.SegmentVyapari

	out := BySegment(loans)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "Private", out[0].Label)
		assert.Equal(t, "Vyapari", out[1].Label)
	}
}

func TestByReleaseYear(t *testing.T) {
	loans := append(heterogeneousCohort(), model.Loan{
		LoanID:            "GL-010",
		Principal:         80_000,
		DisbursedOn:       day(2022, 5, 1),
		ReleasedOn:        ptrTime(day(2022, 11, 1)),
		DepositedInterest: ptrFloat64(3_000),
		Segment:           model.SegmentPrivate,
	})

	out := ByReleaseYear(loans)
	if assert.Len(t, out, 2) {
		assert.Equal(t, "2022", out[0].Label)
		assert.Equal(t, "2024", out[1].Label)
		assert.Equal(t, 1, out[0].Metrics.LoanCount)
		assert.Equal(t, 2, out[1].Metrics.LoanCount)
	}
}

func TestWeightedAvgDays(t *testing.T) {
	assert.InDelta(t, 361.944, WeightedAvgDays(heterogeneousCohort()), 0.01)
	assert.Zero(t, WeightedAvgDays(nil))
}
