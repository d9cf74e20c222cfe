package report

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"liyu1981.xyz/agri-maintenance/pkg/dataset"
)

// ColumnSummary mirrors one column of a pandas describe() table.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// quantile interpolates linearly between closest ranks, the same definition
// pandas describe() uses. sorted must be ascending and non-empty.
func quantile(p float64, sorted []float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func summarize(column string, values []float64) ColumnSummary {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}

	s := ColumnSummary{Column: column, Count: len(clean)}
	if len(clean) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	s.Mean = stat.Mean(clean, nil)
	s.Std = math.NaN()
	if len(clean) > 1 {
		s.Std = stat.StdDev(clean, nil)
	}
	s.Min = floats.Min(clean)
	s.Max = floats.Max(clean)

	slices.Sort(clean)
	s.P25 = quantile(0.25, clean)
	s.P50 = quantile(0.5, clean)
	s.P75 = quantile(0.75, clean)
	return s
}

// Describe summarizes every numeric column of the table, in column order.
func Describe(t *dataset.FeatureTable) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.NumericColumns()))
	for _, col := range t.NumericColumns() {
		values, _ := t.Column(col)
		out = append(out, summarize(col, values))
	}
	return out
}

// Round2 rounds half away from zero to two decimals; NaN stays NaN.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (s ColumnSummary) Rounded() ColumnSummary {
	s.Mean = Round2(s.Mean)
	s.Std = Round2(s.Std)
	s.Min = Round2(s.Min)
	s.P25 = Round2(s.P25)
	s.P50 = Round2(s.P50)
	s.P75 = Round2(s.P75)
	s.Max = Round2(s.Max)
	return s
}
