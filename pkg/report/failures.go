package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

var ErrMissingTarget = errors.New("feature table has no target column")

type ModeCount struct {
	Mode  string `json:"mode"`
	Count int    `json:"count"`
}

// FailuresByMode counts failure_label == 1 rows per operating mode indicator,
// least frequent first.
func FailuresByMode(t *dataset.FeatureTable) ([]ModeCount, error) {
	labelIdx := t.ColumnIndex(models.ColumnFailureLabel)
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingTarget, models.ColumnFailureLabel)
	}

	prefix := models.ColumnOperatingMode + "_"
	modeCols := t.ColumnsWithPrefix(prefix)
	counts := make([]ModeCount, len(modeCols))
	modeIdx := make([]int, len(modeCols))
	for i, col := range modeCols {
		counts[i].Mode = strings.TrimPrefix(col, prefix)
		modeIdx[i] = t.ColumnIndex(col)
	}

	for _, row := range t.Values {
		if row[labelIdx] != 1 {
			continue
		}
		for i, idx := range modeIdx {
			if row[idx] == 1 {
				counts[i].Count++
			}
		}
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count < counts[b].Count
	})
	return counts, nil
}

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits [min, max] into equal-width bins; the last bin includes
// its upper edge. A constant series widens the range by 0.5 on each side.
func Histogram(values []float64, bins int) ([]HistogramBin, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n == 0 {
		return []HistogramBin{}, nil
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out, nil
}

// RULHistogram is the distribution of remaining_minutes.
func RULHistogram(t *dataset.FeatureTable, bins int) ([]HistogramBin, error) {
	values, ok := t.Column(models.ColumnRemainingMinutes)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTarget, models.ColumnRemainingMinutes)
	}
	return Histogram(values, bins)
}
