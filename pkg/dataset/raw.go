package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"liyu1981.xyz/agri-maintenance/pkg/models"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyInput    = errors.New("empty input")
)

var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"null": {},
	"na":   {},
	"n/a":  {},
}

// IsNull reports whether a raw cell holds no value.
func IsNull(cell string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// RawTable holds raw records re-ordered into models.RawColumns order.
// Line numbers are kept so parse errors can point at the source file.
type RawTable struct {
	Records [][]string
	Lines   []int
}

func (t *RawTable) Len() int {
	return len(t.Records)
}

// NullCounts returns the number of null cells per column.
func (t *RawTable) NullCounts() map[string]int {
	counts := make(map[string]int, len(models.RawColumns))
	for _, col := range models.RawColumns {
		counts[col] = 0
	}
	for _, rec := range t.Records {
		for i, cell := range rec {
			if IsNull(cell) {
				counts[models.RawColumns[i]]++
			}
		}
	}
	return counts
}

// HasNull reports whether row i contains any null cell.
func (t *RawTable) HasNull(i int) bool {
	for _, cell := range t.Records[i] {
		if IsNull(cell) {
			return true
		}
	}
	return false
}

// ReadRaw reads a sensor log CSV. Extra columns are ignored; every column of
// models.RawColumns must be present.
func ReadRaw(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	positions := make([]int, len(models.RawColumns))
	for i, col := range models.RawColumns {
		idx, ok := headerMap[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		positions[i] = idx
	}

	table := &RawTable{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv read error at line %d: %w", line, err)
		}

		row := make([]string, len(positions))
		for i, idx := range positions {
			if idx < len(record) {
				row[i] = strings.TrimSpace(record[idx])
			}
		}
		table.Records = append(table.Records, row)
		table.Lines = append(table.Lines, line)
	}

	return table, nil
}

// ParseTimestamp accepts the pandas default layout and RFC3339.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(models.TimestampLayout, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s)
}

// parseInt accepts "3" as well as "3.0", which pandas writes for integer
// columns that once held NaN.
func parseInt(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid integer: %s", s)
	}
	return int(f), nil
}

// ParseReading converts one canonical record into a SensorReading.
func ParseReading(record []string) (models.SensorReading, error) {
	var reading models.SensorReading
	if len(record) != len(models.RawColumns) {
		return reading, fmt.Errorf("expected %d fields, got %d", len(models.RawColumns), len(record))
	}

	ts, err := ParseTimestamp(record[0])
	if err != nil {
		return reading, err
	}
	reading.Timestamp = ts
	reading.MachineID = record[1]

	floats := []*float64{
		&reading.VibrationLevel,
		&reading.MotorCurrent,
		&reading.AmbientTemp,
		&reading.MotorTemp,
		&reading.Torque,
		&reading.RPM,
	}
	for i, dst := range floats {
		v, err := strconv.ParseFloat(record[2+i], 64)
		if err != nil {
			return reading, fmt.Errorf("invalid %s value: %s", models.RawColumns[2+i], record[2+i])
		}
		*dst = v
	}

	reading.OperatingMode = models.OperatingMode(strings.ToLower(record[8]))

	if reading.FailureLabel, err = parseInt(record[9]); err != nil {
		return reading, fmt.Errorf("invalid %s value: %w", models.ColumnFailureLabel, err)
	}
	if reading.RemainingMinutes, err = parseInt(record[10]); err != nil {
		return reading, fmt.Errorf("invalid %s value: %w", models.ColumnRemainingMinutes, err)
	}

	return reading, nil
}

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatReading renders a reading as a canonical record.
func FormatReading(r *models.SensorReading) []string {
	return []string{
		r.Timestamp.Format(models.TimestampLayout),
		r.MachineID,
		FormatFloat(r.VibrationLevel),
		FormatFloat(r.MotorCurrent),
		FormatFloat(r.AmbientTemp),
		FormatFloat(r.MotorTemp),
		FormatFloat(r.Torque),
		FormatFloat(r.RPM),
		string(r.OperatingMode),
		strconv.Itoa(r.FailureLabel),
		strconv.Itoa(r.RemainingMinutes),
	}
}

// WriteReadings writes readings in canonical column order.
func WriteReadings(w io.Writer, readings []models.SensorReading) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.RawColumns); err != nil {
		return err
	}

	for i := range readings {
		if err := writer.Write(FormatReading(&readings[i])); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadReadings reads and parses a cleaned sensor log. Unlike the cleaning
// stage it treats any null cell as an error.
func ReadReadings(r io.Reader) ([]models.SensorReading, error) {
	table, err := ReadRaw(r)
	if err != nil {
		return nil, err
	}

	readings := make([]models.SensorReading, 0, table.Len())
	for i, rec := range table.Records {
		if table.HasNull(i) {
			return nil, fmt.Errorf("line %d: unexpected null value in cleaned data", table.Lines[i])
		}
		reading, err := ParseReading(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", table.Lines[i], err)
		}
		readings = append(readings, reading)
	}
	return readings, nil
}
