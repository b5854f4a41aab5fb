// Package report assembles named analytics reports over a snapshot and
// renders them as text or YAML.
package report

import (
	"io"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/goldbook/loanbook-cli/internal/aging"
	"github.com/goldbook/loanbook-cli/internal/health"
	"github.com/goldbook/loanbook-cli/internal/interest"
	"github.com/goldbook/loanbook-cli/internal/model"
	"github.com/goldbook/loanbook-cli/internal/pivot"
	"github.com/goldbook/loanbook-cli/internal/snapshot"
)

// Format selects the rendering of a report.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatYAML:
		return Format(s), nil
	default:
		return "", eris.Errorf("report: format must be text or yaml (got %q)", s)
	}
}

// renderer is implemented by every report type; YAML rendering goes through
// the type's yaml tags instead.
type renderer interface {
	text(w io.Writer) error
}

// Render writes a report in the requested format.
func Render(w io.Writer, f Format, r renderer) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "report: encode yaml")
		}
		return nil
	case FormatText:
		return r.text(w)
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

// Quality summarizes the normalizer's findings for the rendered snapshot.
type Quality struct {
	Records    int            `yaml:"records"`
	Flagged    int            `yaml:"flagged"`
	FlagCounts map[string]int `yaml:"flag_counts,omitempty"`
}

func quality(snap *snapshot.Snapshot) Quality {
	q := Quality{
		Records: snap.Quality.Records,
		Flagged: snap.Quality.Flagged,
	}
	if len(snap.Quality.FlagCounts) > 0 {
		q.FlagCounts = make(map[string]int, len(snap.Quality.FlagCounts))
		for f, n := range snap.Quality.FlagCounts {
			q.FlagCounts[string(f)] = n
		}
	}
	return q
}

// Health is the scorecard report.
type Health struct {
	SnapshotID  string          `yaml:"snapshot_id"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Scores      health.ScoreSet `yaml:"scores"`
	Quality     Quality         `yaml:"quality"`
}

// BuildHealth evaluates the scorecard over a snapshot.
func BuildHealth(snap *snapshot.Snapshot, p health.Params) Health {
	return Health{
		SnapshotID:  snap.ID.String(),
		GeneratedAt: p.Now,
		Scores:      health.Score(snap.Loans, p),
		Quality:     quality(snap),
	}
}

// Yield is the portfolio yield report: the overall cohort plus the
// segment analyses.
type Yield struct {
	SnapshotID string                    `yaml:"snapshot_id"`
	Portfolio  interest.CohortMetrics    `yaml:"portfolio"`
	ShortBand  interest.SegmentMetrics   `yaml:"short_band"`
	LongBand   interest.SegmentMetrics   `yaml:"long_band"`
	ByRange    []interest.SegmentMetrics `yaml:"by_principal_range"`
	BySegment  []interest.SegmentMetrics `yaml:"by_segment"`
	ByYear     []interest.SegmentMetrics `yaml:"by_release_year"`
}

// Principal range boundaries for the yield report's bucket analysis.
var principalBounds = []float64{50_000, 100_000, 200_000, 500_000}

// BuildYield computes the yield report over a snapshot.
func BuildYield(snap *snapshot.Snapshot, bandCutoffDays int) Yield {
	short, long := interest.ByHoldingBand(snap.Loans, bandCutoffDays)
	return Yield{
		SnapshotID: snap.ID.String(),
		Portfolio:  interest.CohortYield(snap.Loans),
		ShortBand:  short,
		LongBand:   long,
		ByRange:    interest.ByPrincipalRange(snap.Loans, principalBounds),
		BySegment:  interest.BySegment(snap.Loans),
		ByYear:     interest.ByReleaseYear(snap.Loans),
	}
}

// Aging is the risk-flag report over active loans.
type Aging struct {
	SnapshotID string             `yaml:"snapshot_id"`
	AsOf       time.Time          `yaml:"as_of"`
	Flagged    []aging.Assessment `yaml:"flagged"`
	FlagCounts map[string]int     `yaml:"flag_counts"`
}

// BuildAging runs the risk detector over a snapshot.
func BuildAging(snap *snapshot.Snapshot, p aging.Params) (Aging, error) {
	flagged, err := aging.AssessAll(snap.Loans, p)
	if err != nil {
		return Aging{}, err
	}
	counts := make(map[string]int)
	for _, a := range flagged {
		for _, f := range a.Flags {
			counts[string(f)]++
		}
	}
	return Aging{
		SnapshotID: snap.ID.String(),
		AsOf:       p.Now,
		Flagged:    flagged,
		FlagCounts: counts,
	}, nil
}

// Pivot is one month×year table plus its deltas.
type Pivot struct {
	SnapshotID string       `yaml:"snapshot_id"`
	Metric     string       `yaml:"metric"`
	Table      pivot.Table  `yaml:"table"`
	YoY        *pivot.Delta `yaml:"yoy,omitempty"`
	MoM        *pivot.Delta `yaml:"mom,omitempty"`
}

// BuildPivot projects the named metric into a monthly pivot with YoY and
// MoM deltas. Metrics: disbursed, interest, loan_count, avg_loan, expenses.
func BuildPivot(snap *snapshot.Snapshot, metric string) (Pivot, error) {
	var (
		rows     []pivot.Row
		agg      = pivot.Sum
		excluded int
	)
	switch metric {
	case "disbursed":
		// Zero disbursement dates flow through so the pivot counts them
		// in Skipped.
		rows = loanRows(snap.Loans, func(l model.Loan) (time.Time, float64, bool) {
			return l.DisbursedOn, l.Principal, true
		})
	case "interest":
		rows = loanRows(snap.Loans, func(l model.Loan) (time.Time, float64, bool) {
			if l.ReleasedOn == nil {
				return time.Time{}, 0, false
			}
			return *l.ReleasedOn, interest.Realized(l), true
		})
	case "loan_count":
		// Non-positive principals are excluded, not zero-filled: a
		// flagged record must not count as a loan.
		agg = pivot.Count
		rows = loanRows(snap.Loans, func(l model.Loan) (time.Time, float64, bool) {
			if l.Principal <= 0 {
				excluded++
				return time.Time{}, 0, false
			}
			return l.DisbursedOn, 1, true
		})
	case "avg_loan":
		// Same exclusion: a zero-filled principal would drag the cell
		// mean toward zero.
		agg = pivot.Mean
		rows = loanRows(snap.Loans, func(l model.Loan) (time.Time, float64, bool) {
			if l.Principal <= 0 {
				excluded++
				return time.Time{}, 0, false
			}
			return l.DisbursedOn, l.Principal, true
		})
	case "expenses":
		for _, e := range snap.Expenses {
			rows = append(rows, pivot.Row{Date: e.Date, Value: e.Amount})
		}
	default:
		return Pivot{}, eris.Errorf("report: unknown pivot metric %q", metric)
	}

	t := pivot.Monthly(rows, agg)
	t.Skipped += excluded
	p := Pivot{
		SnapshotID: snap.ID.String(),
		Metric:     metric,
		Table:      t,
	}
	if len(t.Years) > 0 {
		mom := pivot.MoM(t)
		p.MoM = &mom
	}
	if len(t.Years) > 1 {
		yoy := pivot.YoY(t)
		p.YoY = &yoy
	}
	return p, nil
}

func loanRows(loans []model.Loan, project func(model.Loan) (time.Time, float64, bool)) []pivot.Row {
	var rows []pivot.Row
	for _, l := range loans {
		d, v, ok := project(l)
		if !ok {
			continue
		}
		rows = append(rows, pivot.Row{Date: d, Value: v})
	}
	return rows
}

// Summary is the executive period summary.
type Summary struct {
	SnapshotID string         `yaml:"snapshot_id"`
	From       time.Time      `yaml:"from"`
	To         time.Time      `yaml:"to"`
	Figures    health.Summary `yaml:"figures"`
	Quality    Quality        `yaml:"quality"`
}

// BuildSummary computes the period summary over a snapshot.
func BuildSummary(snap *snapshot.Snapshot, period health.Period, epoch time.Time) Summary {
	return Summary{
		SnapshotID: snap.ID.String(),
		From:       period.From,
		To:         period.To,
		Figures:    health.Summarize(snap.Loans, period, epoch),
		Quality:    quality(snap),
	}
}
