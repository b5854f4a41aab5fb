package interest

import (
	"fmt"
	"math"
	"sort"

	"github.com/goldbook/loanbook-cli/internal/model"
)

// SegmentMetrics labels a CohortMetrics within a segmented analysis.
type SegmentMetrics struct {
	Label           string        `json:"label" yaml:"label"`
	Metrics         CohortMetrics `json:"metrics" yaml:"metrics"`
	CapitalSharePct float64       `json:"capital_share_pct" yaml:"capital_share_pct"`
}

// ByHoldingBand splits the cohort at cutoffDays and computes the cohort
// yield on each side. The overall yield is NOT the share-weighted mix of the
// two band yields; it must always be recomputed from the combined totals.
func ByHoldingBand(loans []model.Loan, cutoffDays int) (short, long SegmentMetrics) {
	var shortLoans, longLoans []model.Loan
	for i := range loans {
		if loans[i].HoldingDays() < cutoffDays {
			shortLoans = append(shortLoans, loans[i])
		} else {
			longLoans = append(longLoans, loans[i])
		}
	}
	total := CohortYield(loans).TotalCapital
	short = SegmentMetrics{
		Label:           fmt.Sprintf("<%d days", cutoffDays),
		Metrics:         CohortYield(shortLoans),
		CapitalSharePct: share(CohortYield(shortLoans).TotalCapital, total),
	}
	long = SegmentMetrics{
		Label:           fmt.Sprintf("%d+ days", cutoffDays),
		Metrics:         CohortYield(longLoans),
		CapitalSharePct: share(CohortYield(longLoans).TotalCapital, total),
	}
	return short, long
}

// ByPrincipalRange buckets the cohort by principal using the given ascending
// upper bounds (the last bucket is open-ended) and computes each bucket's
// cohort yield. Empty buckets are omitted.
func ByPrincipalRange(loans []model.Loan, bounds []float64) []SegmentMetrics {
	buckets := make([][]model.Loan, len(bounds)+1)
	for i := range loans {
		idx := len(bounds)
		for b, upper := range bounds {
			if loans[i].Principal <= upper {
				idx = b
				break
			}
		}
		buckets[idx] = append(buckets[idx], loans[i])
	}

	total := CohortYield(loans).TotalCapital
	var out []SegmentMetrics
	for b, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		out = append(out, SegmentMetrics{
			Label:           rangeLabel(b, bounds),
			Metrics:         CohortYield(bucket),
			CapitalSharePct: share(CohortYield(bucket).TotalCapital, total),
		})
	}
	return out
}

// BySegment computes the cohort yield per customer segment.
func BySegment(loans []model.Loan) []SegmentMetrics {
	bySeg := map[model.Segment][]model.Loan{}
	for i := range loans {
		bySeg[loans[i].Segment] = append(bySeg[loans[i].Segment], loans[i])
	}
	total := CohortYield(loans).TotalCapital

	segs := make([]model.Segment, 0, len(bySeg))
	for s := range bySeg {
		segs = append(segs, s)
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i] < segs[j] })

	out := make([]SegmentMetrics, 0, len(segs))
	for _, s := range segs {
		label := string(s)
		if label == "" {
			label = "Unclassified"
		}
		out = append(out, SegmentMetrics{
			Label:           label,
			Metrics:         CohortYield(bySeg[s]),
			CapitalSharePct: share(CohortYield(bySeg[s]).TotalCapital, total),
		})
	}
	return out
}

// ByReleaseYear computes the cohort yield per release year, ascending.
func ByReleaseYear(loans []model.Loan) []SegmentMetrics {
	byYear := map[int][]model.Loan{}
	for i := range loans {
		if loans[i].ReleasedOn == nil {
			continue
		}
		y := loans[i].ReleasedOn.Year()
		byYear[y] = append(byYear[y], loans[i])
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]SegmentMetrics, 0, len(years))
	for _, y := range years {
		out = append(out, SegmentMetrics{
			Label:   fmt.Sprintf("%d", y),
			Metrics: CohortYield(byYear[y]),
		})
	}
	return out
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return (part / total) * 100
}

func rangeLabel(idx int, bounds []float64) string {
	if len(bounds) == 0 {
		return "all"
	}
	if idx == 0 {
		return fmt.Sprintf("≤%s", compact(bounds[0]))
	}
	if idx == len(bounds) {
		return fmt.Sprintf(">%s", compact(bounds[len(bounds)-1]))
	}
	return fmt.Sprintf("%s–%s", compact(bounds[idx-1]), compact(bounds[idx]))
}

func compact(v float64) string {
	switch {
	case v >= 1_000_000 && math.Mod(v, 1_000_000) == 0:
		return fmt.Sprintf("%.0fM", v/1_000_000)
	case v >= 1_000 && math.Mod(v, 1_000) == 0:
		return fmt.Sprintf("%.0fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
