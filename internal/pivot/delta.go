package pivot

// Delta holds percentage changes over a pivot. A nil cell is an undefined
// transition — the prior value was zero or absent — and must render as null,
// never as ±Inf.
type Delta struct {
	Years  []int          `json:"years" yaml:"years"`
	Values [12][]*float64 `json:"values" yaml:"values"`
}

// YoY computes the year-over-year change between adjacent year columns for
// each month row. Column j of the result compares Years[j] against the
// preceding year. Tables with fewer than two year columns yield no deltas.
func YoY(t Table) Delta {
	var d Delta
	if len(t.Years) < 2 {
		return d
	}
	d.Years = t.Years[1:]
	for m := 0; m < 12; m++ {
		d.Values[m] = make([]*float64, len(d.Years))
		for j := range d.Years {
			d.Values[m][j] = pctChange(t.Values[m][j], t.Values[m][j+1])
		}
	}
	return d
}

// MoM computes the month-over-month change down each year column. January
// has no predecessor. The synthetic Total row is structurally outside the
// table's 12 month rows, so it can never enter the chain as a 13th month.
func MoM(t Table) Delta {
	var d Delta
	d.Years = t.Years
	for m := 0; m < 12; m++ {
		d.Values[m] = make([]*float64, len(t.Years))
		if m == 0 {
			continue
		}
		for j := range t.Years {
			d.Values[m][j] = pctChange(t.Values[m-1][j], t.Values[m][j])
		}
	}
	return d
}

func pctChange(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := (cur - prev) / prev * 100
	return &v
}
