package models

const (
	ColumnTimestamp        = "timestamp"
	ColumnMachineID        = "machine_id"
	ColumnVibrationLevel   = "vibration_level"
	ColumnMotorCurrent     = "motor_current"
	ColumnAmbientTemp      = "ambient_temp"
	ColumnMotorTemp        = "motor_temp"
	ColumnTorque           = "torque"
	ColumnRPM              = "rpm"
	ColumnOperatingMode    = "operating_mode"
	ColumnFailureLabel     = "failure_label"
	ColumnRemainingMinutes = "remaining_minutes"
)

// RawColumns is the canonical column order of the raw and cleaned CSV files.
var RawColumns = []string{
	ColumnTimestamp,
	ColumnMachineID,
	ColumnVibrationLevel,
	ColumnMotorCurrent,
	ColumnAmbientTemp,
	ColumnMotorTemp,
	ColumnTorque,
	ColumnRPM,
	ColumnOperatingMode,
	ColumnFailureLabel,
	ColumnRemainingMinutes,
}

var SensorColumns = []string{
	ColumnVibrationLevel,
	ColumnMotorCurrent,
	ColumnAmbientTemp,
	ColumnMotorTemp,
	ColumnTorque,
	ColumnRPM,
}

// TimestampLayout is how timestamps are written back to CSV.
const TimestampLayout = "2006-01-02 15:04:05"
