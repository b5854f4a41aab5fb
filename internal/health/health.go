// Package health implements the portfolio's composite 0–100 scorecard:
// collateral positioning, collection efficiency, customer concentration and
// interest coverage, averaged into one overall figure. A balanced scorecard —
// no single metric dominates.
package health

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/goldbook/loanbook-cli/internal/ltv"
	"github.com/goldbook/loanbook-cli/internal/model"
)

const (
	// targetLTVPct centers the collateral band: 2 points lost per 1%
	// deviation from 75%.
	targetLTVPct     = 75.0
	ltvPenaltyPerPct = 2.0
	// coverageScale maps 10% interest coverage to a full score of 100.
	coverageScale = 10.0
	// topNConcentration is the customer count used for the concentration
	// sub-score.
	topNConcentration = 5
)

// Params carries the externally configured inputs of the scorecard.
type Params struct {
	// BenchmarkRate is the expected-interest rate applied to deployed
	// principal, e.g. 0.12. One configured parameter — call sites never
	// carry their own literal.
	BenchmarkRate float64
	// ReferenceEpoch anchors the interest-coverage window (the book's
	// deposit-tracking start).
	ReferenceEpoch time.Time
	// Now is the evaluation instant.
	Now time.Time
}

// ScoreSet is the scorecard output: four clamped sub-scores, their mean, and
// the context figures each was derived from.
type ScoreSet struct {
	LTVHealth              float64 `json:"ltv_health" yaml:"ltv_health"`
	CollectionHealth       float64 `json:"collection_health" yaml:"collection_health"`
	DiversificationHealth  float64 `json:"diversification_health" yaml:"diversification_health"`
	InterestCoverageHealth float64 `json:"interest_coverage_health" yaml:"interest_coverage_health"`
	Overall                float64 `json:"overall" yaml:"overall"`

	AvgLTVActivePct         float64 `json:"avg_ltv_active_pct" yaml:"avg_ltv_active_pct"`
	CollectionEfficiencyPct float64 `json:"collection_efficiency_pct" yaml:"collection_efficiency_pct"`
	Top5ConcentrationPct    float64 `json:"top5_concentration_pct" yaml:"top5_concentration_pct"`
	InterestCoveragePct     float64 `json:"interest_coverage_pct" yaml:"interest_coverage_pct"`
}

// Score evaluates the scorecard over a loan snapshot.
func Score(loans []model.Loan, p Params) ScoreSet {
	var s ScoreSet

	s.AvgLTVActivePct = ltv.AverageActive(loans)
	s.LTVHealth = clamp(100 - math.Abs(targetLTVPct-s.AvgLTVActivePct)*ltvPenaltyPerPct)

	s.CollectionEfficiencyPct = CollectionEfficiency(loans, p.BenchmarkRate)
	s.CollectionHealth = math.Min(100, s.CollectionEfficiencyPct)

	s.Top5ConcentrationPct = TopConcentration(loans, topNConcentration)
	s.DiversificationHealth = clamp(100 - s.Top5ConcentrationPct)

	s.InterestCoveragePct = InterestCoverage(loans, p.ReferenceEpoch, p.Now)
	s.InterestCoverageHealth = math.Min(100, s.InterestCoveragePct*coverageScale)

	s.Overall = (s.LTVHealth + s.CollectionHealth + s.DiversificationHealth + s.InterestCoverageHealth) / 4

	zap.L().Info("health: scorecard computed",
		zap.Float64("overall", s.Overall),
		zap.Float64("ltv", s.LTVHealth),
		zap.Float64("collection", s.CollectionHealth),
		zap.Float64("diversification", s.DiversificationHealth),
		zap.Float64("interest_coverage", s.InterestCoverageHealth),
	)

	return s
}

// CollectionEfficiency is collected-adjusted interest over expected interest,
// as a percentage. Collected-adjusted applies the legacy rule: deposits
// across all loans, plus contracted interest for released loans whose
// deposit ledger is empty. Expected is Σ principal × benchmarkRate.
func CollectionEfficiency(loans []model.Loan, benchmarkRate float64) float64 {
	var expected, collected float64
	for i := range loans {
		l := loans[i]
		if l.Principal > 0 {
			expected += l.Principal * benchmarkRate
		}
		collected += l.Deposited()
		if l.Released() && l.Deposited() <= 0 {
			collected += l.ContractedInterest
		}
	}
	if expected <= 0 {
		return 0
	}
	return (collected / expected) * 100
}

// TopConcentration returns the share of active pending principal held by the
// n largest active customers, as a percentage. An empty active book
// concentrates nothing.
func TopConcentration(loans []model.Loan, n int) float64 {
	pending := map[string]float64{}
	var total float64
	for i := range loans {
		l := loans[i]
		if l.Released() {
			continue
		}
		key := l.CustomerID
		if key == "" {
			key = l.CustomerName
		}
		pending[key] += l.OutstandingPrincipal
		total += l.OutstandingPrincipal
	}
	if total <= 0 {
		return 0
	}

	amounts := make([]float64, 0, len(pending))
	for _, v := range pending {
		amounts = append(amounts, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(amounts)))

	var top float64
	for i := 0; i < n && i < len(amounts); i++ {
		top += amounts[i]
	}
	return (top / total) * 100
}

// InterestCoverage is interest earned over [epoch, now] over principal
// disbursed in the same window, as a percentage. Earned follows the book's
// recovery rule: released loans contribute the larger of contracted and
// deposited interest, active loans contribute deposits only. Loans disbursed
// or released after now belong to a later evaluation, not this one.
func InterestCoverage(loans []model.Loan, epoch, now time.Time) float64 {
	var disbursed float64
	for i := range loans {
		l := loans[i]
		if l.DisbursedOn.IsZero() || l.DisbursedOn.Before(epoch) || l.DisbursedOn.After(now) {
			continue
		}
		disbursed += l.Principal
	}
	if disbursed <= 0 {
		return 0
	}
	return (earnedThrough(loans, epoch, now) / disbursed) * 100
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
