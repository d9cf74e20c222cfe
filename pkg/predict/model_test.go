package predict

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	_ "liyu1981.xyz/agri-maintenance/pkg/testing"
)

var trainingColumns = []string{
	"ambient_temp",
	"torque",
	"vibration_level",
	"failure_label",
	"remaining_minutes",
	"operating_mode_idle",
	"operating_mode_pto",
}

func torqueOf(i int) float64    { return float64(i % 17) }
func vibrationOf(i int) float64 { return float64((i * 7) % 13) }
func rulOf(torque, vibration float64) float64 {
	return 3*torque - 2*vibration + 50
}

// trainingTable has an exact linear RUL and a failure label that is
// separable on torque alone.
func trainingTable(rows int) *dataset.FeatureTable {
	t := dataset.NewFeatureTable(trainingColumns, rows)
	for i := range rows {
		t.MachineIDs[i] = "M001"
		if i >= rows/2 {
			t.MachineIDs[i] = "M002"
		}
		torque, vibration := torqueOf(i), vibrationOf(i)
		label := 0.0
		if torque >= 13 {
			label = 1
		}
		idle, pto := 1.0, 0.0
		if i%2 == 1 {
			idle, pto = 0, 1
		}
		copy(t.Values[i], []float64{20, torque, vibration, label, rulOf(torque, vibration), idle, pto})
	}
	return t
}

func TestTrainSelectsFeatures(t *testing.T) {
	common.SetTestLoggerNop()

	m, err := Train(trainingTable(204), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"torque", "vibration_level", "operating_mode_pto"}, m.Features)
	assert.Equal(t, 204, m.Rows)
}

func TestPredictRUL(t *testing.T) {
	common.SetTestLoggerNop()

	table := trainingTable(204)
	m, err := Train(table, DefaultOptions())
	require.NoError(t, err)

	for _, row := range []int{0, 16, 57, 203} {
		p, err := m.Predict(table, row)
		require.NoError(t, err)
		assert.Equal(t, row, p.Row)
		assert.InDelta(t, rulOf(torqueOf(row), vibrationOf(row)), p.PredictedRUL, 1e-4, "row %d", row)
	}

	// rows are indexed within the table passed in
	m2 := table.FilterMachine("M002")
	p, err := m.Predict(m2, 0)
	require.NoError(t, err)
	assert.Equal(t, "M002", p.MachineID)
	assert.InDelta(t, rulOf(torqueOf(102), vibrationOf(102)), p.PredictedRUL, 1e-4)
}

func TestPredictRULClampedAtZero(t *testing.T) {
	common.SetTestLoggerNop()

	m, err := Train(trainingTable(204), DefaultOptions())
	require.NoError(t, err)

	extreme := dataset.NewFeatureTable(trainingColumns, 1)
	extreme.MachineIDs[0] = "M009"
	copy(extreme.Values[0], []float64{20, -100, 0, 0, 0, 1, 0})

	p, err := m.Predict(extreme, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.PredictedRUL)
}

func TestPredictFailureProbability(t *testing.T) {
	common.SetTestLoggerNop()

	table := trainingTable(204)
	m, err := Train(table, DefaultOptions())
	require.NoError(t, err)

	for row := range table.Len() {
		p, err := m.Predict(table, row)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.FailureProbability, 0.0)
		assert.LessOrEqual(t, p.FailureProbability, 1.0)
	}

	high, err := m.Predict(table, 16) // torque 16
	require.NoError(t, err)
	low, err := m.Predict(table, 0) // torque 0
	require.NoError(t, err)

	assert.Greater(t, high.FailureProbability, 0.5)
	assert.Less(t, low.FailureProbability, 0.5)
	assert.Greater(t, high.FailureProbability, low.FailureProbability)
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, sigmoid(0))
	assert.InDelta(t, 1.0, sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, sigmoid(-800), 1e-12)
	assert.False(t, math.IsNaN(sigmoid(-800)))
	assert.InDelta(t, 1-sigmoid(2), sigmoid(-2), 1e-12)
}

func TestTrainEdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	t.Run("missing target", func(t *testing.T) {
		table := dataset.NewFeatureTable([]string{"torque", "failure_label"}, 10)
		_, err := Train(table, DefaultOptions())
		assert.ErrorIs(t, err, ErrMissingTarget)
	})

	t.Run("single row", func(t *testing.T) {
		_, err := Train(trainingTable(1), DefaultOptions())
		assert.ErrorIs(t, err, ErrTooFewRows)
	})

	t.Run("fewer rows than parameters", func(t *testing.T) {
		_, err := Train(trainingTable(4), DefaultOptions())
		assert.ErrorIs(t, err, ErrTooFewRows)
	})

	t.Run("NaN cells", func(t *testing.T) {
		table := trainingTable(40)
		table.Values[3][1] = math.NaN()
		_, err := Train(table, DefaultOptions())
		assert.ErrorIs(t, err, ErrNaNCells)
	})

	t.Run("only constant columns", func(t *testing.T) {
		table := dataset.NewFeatureTable([]string{"ambient_temp", "failure_label", "remaining_minutes"}, 10)
		for i := range table.Values {
			table.MachineIDs[i] = "M001"
			copy(table.Values[i], []float64{20, 0, float64(10 - i)})
		}
		_, err := Train(table, DefaultOptions())
		assert.ErrorIs(t, err, ErrNoUsableFeatures)
	})
}

func TestPredictEdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	table := trainingTable(204)
	m, err := Train(table, DefaultOptions())
	require.NoError(t, err)

	_, err = m.Predict(table, -1)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = m.Predict(table, table.Len())
	assert.ErrorIs(t, err, ErrRowOutOfRange)

	other := dataset.NewFeatureTable([]string{"torque", "failure_label", "remaining_minutes"}, 1)
	other.MachineIDs[0] = "M001"
	_, err = m.Predict(other, 0)
	assert.ErrorIs(t, err, ErrMissingFeature)
}

func TestPredictionRounded(t *testing.T) {
	p := Prediction{MachineID: "M001", Row: 3, FailureProbability: 0.123456, PredictedRUL: 41.005}.Rounded()
	assert.Equal(t, 0.1235, p.FailureProbability)
	assert.Equal(t, 41.01, p.PredictedRUL)
	assert.Equal(t, "M001", p.MachineID)
}
