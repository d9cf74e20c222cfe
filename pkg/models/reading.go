package models

import "time"

type OperatingMode string

const (
	OperatingModeIdle      OperatingMode = "idle"
	OperatingModeHydraulic OperatingMode = "hydraulic"
	OperatingModeTraction  OperatingMode = "traction"
	OperatingModePTO       OperatingMode = "pto"
)

// OperatingModes lists every mode a machine can report, in sorted order.
var OperatingModes = []OperatingMode{
	OperatingModeHydraulic,
	OperatingModeIdle,
	OperatingModePTO,
	OperatingModeTraction,
}

// SensorReading is one row of the raw sensor log.
type SensorReading struct {
	Timestamp        time.Time
	MachineID        string
	VibrationLevel   float64
	MotorCurrent     float64
	AmbientTemp      float64
	MotorTemp        float64
	Torque           float64
	RPM              float64
	OperatingMode    OperatingMode
	FailureLabel     int
	RemainingMinutes int
}

// Sensor returns the value of a numeric sensor column by its CSV name.
func (r *SensorReading) Sensor(column string) (float64, bool) {
	switch column {
	case ColumnVibrationLevel:
		return r.VibrationLevel, true
	case ColumnMotorCurrent:
		return r.MotorCurrent, true
	case ColumnAmbientTemp:
		return r.AmbientTemp, true
	case ColumnMotorTemp:
		return r.MotorTemp, true
	case ColumnTorque:
		return r.Torque, true
	case ColumnRPM:
		return r.RPM, true
	}
	return 0, false
}

// CleanSummary describes what the cleaning stage did to a raw table.
type CleanSummary struct {
	RowsIn      int
	RowsDropped int
	NullCounts  map[string]int
}

func (s *CleanSummary) RowsOut() int {
	return s.RowsIn - s.RowsDropped
}

func (s *CleanSummary) NullCells() int {
	total := 0
	for _, n := range s.NullCounts {
		total += n
	}
	return total
}
