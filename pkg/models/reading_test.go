package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatingModesSorted(t *testing.T) {
	assert.IsIncreasing(t, OperatingModes)
	assert.Len(t, OperatingModes, 4)
}

func TestSensorLookup(t *testing.T) {
	r := SensorReading{
		VibrationLevel: 1.5,
		MotorCurrent:   2.5,
		AmbientTemp:    3.5,
		MotorTemp:      4.5,
		Torque:         5.5,
		RPM:            6.5,
	}

	expected := []float64{1.5, 2.5, 3.5, 4.5, 5.5, 6.5}
	for i, col := range SensorColumns {
		v, ok := r.Sensor(col)
		assert.True(t, ok, col)
		assert.Equal(t, expected[i], v, col)
	}

	_, ok := r.Sensor(ColumnOperatingMode)
	assert.False(t, ok)
}

func TestCleanSummary(t *testing.T) {
	s := CleanSummary{
		RowsIn:      10,
		RowsDropped: 3,
		NullCounts:  map[string]int{ColumnTorque: 2, ColumnRPM: 2},
	}
	assert.Equal(t, 7, s.RowsOut())
	assert.Equal(t, 4, s.NullCells())
}
