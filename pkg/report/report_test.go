package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/agri-maintenance/pkg/dataset"
)

func featureTable() *dataset.FeatureTable {
	t := dataset.NewFeatureTable([]string{
		"torque", "failure_label", "remaining_minutes",
		"operating_mode_idle", "operating_mode_pto", "operating_mode_traction",
	}, 5)
	t.MachineIDs = []string{"M001", "M001", "M002", "M002", "M002"}
	t.Values = [][]float64{
		{1, 0, 40, 1, 0, 0},
		{2, 1, 10, 0, 1, 0},
		{3, 1, 0, 0, 1, 0},
		{4, 1, 5, 0, 0, 1},
		{10, 0, 30, 1, 0, 0},
	}
	return t
}

func TestDescribe(t *testing.T) {
	summaries := Describe(featureTable())
	require.Len(t, summaries, 6)

	torque := summaries[0]
	assert.Equal(t, "torque", torque.Column)
	assert.Equal(t, 5, torque.Count)
	assert.InDelta(t, 4.0, torque.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(12.5), torque.Std, 1e-12)
	assert.Equal(t, 1.0, torque.Min)
	assert.Equal(t, 2.0, torque.P25)
	assert.Equal(t, 3.0, torque.P50)
	assert.Equal(t, 4.0, torque.P75)
	assert.Equal(t, 10.0, torque.Max)
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(0.25, sorted), 1e-12)
	assert.InDelta(t, 2.5, quantile(0.5, sorted), 1e-12)
	assert.InDelta(t, 3.25, quantile(0.75, sorted), 1e-12)
	assert.Equal(t, 7.0, quantile(0.5, []float64{7}))
}

func TestSummarize_EdgeCases(t *testing.T) {
	s := summarize("x", []float64{math.NaN(), 5})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 5.0, s.Mean)
	assert.True(t, math.IsNaN(s.Std))

	empty := summarize("x", nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 3.0, Round2(3))
	assert.True(t, math.IsNaN(Round2(math.NaN())))

	r := ColumnSummary{Mean: 1.23456, Std: math.NaN()}.Rounded()
	assert.Equal(t, 1.23, r.Mean)
	assert.True(t, math.IsNaN(r.Std))
}

func TestFailuresByMode(t *testing.T) {
	counts, err := FailuresByMode(featureTable())
	require.NoError(t, err)
	assert.Equal(t, []ModeCount{
		{Mode: "idle", Count: 0},
		{Mode: "traction", Count: 1},
		{Mode: "pto", Count: 2},
	}, counts)

	noLabel := dataset.NewFeatureTable([]string{"torque"}, 0)
	_, err = FailuresByMode(noLabel)
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestHistogram(t *testing.T) {
	bins, err := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)
	require.NoError(t, err)
	require.Len(t, bins, 5)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[4].Upper)
	assert.Equal(t, []int{2, 2, 2, 2, 3}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count, bins[4].Count})

	constant, err := Histogram([]float64{3, 3, math.NaN()}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.5, constant[0].Lower)
	assert.Equal(t, 3.5, constant[1].Upper)
	assert.Equal(t, 0, constant[0].Count)
	assert.Equal(t, 2, constant[1].Count)

	none, err := Histogram(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Histogram([]float64{1}, 0)
	assert.Error(t, err)
}

func TestRULHistogram(t *testing.T) {
	bins, err := RULHistogram(featureTable(), 4)
	require.NoError(t, err)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 40.0, bins[3].Upper)

	_, err = RULHistogram(dataset.NewFeatureTable([]string{"torque"}, 0), 4)
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestBuildAndWriteMarkdown(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rep, err := Build(featureTable(), DefaultHistogramBins, now)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 2, rep.Machines)
	assert.Len(t, rep.RULHistogram, DefaultHistogramBins)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, rep))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Predictive Maintenance Report\n"))
	for _, section := range []string{"## 1. Executive Summary", "## 2. Dataset Summary", "## 3. Failure Analysis", "## 4. Conclusion"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "| torque | 5 | 4 | 3.54 | 1 | 2 | 3 | 4 | 10 |")
	assert.Contains(t, out, "2024-06-01T12:00:00Z")
	assert.Contains(t, out, "pto")
}
