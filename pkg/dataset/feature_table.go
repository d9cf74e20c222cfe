package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

// FeatureTable is the output of feature engineering: a machine_id column
// followed by numeric columns. Values[i][j] belongs to Columns[j+1].
type FeatureTable struct {
	Columns    []string
	MachineIDs []string
	Values     [][]float64
}

func NewFeatureTable(numericColumns []string, rows int) *FeatureTable {
	t := &FeatureTable{
		Columns:    append([]string{models.ColumnMachineID}, numericColumns...),
		MachineIDs: make([]string, rows),
		Values:     make([][]float64, rows),
	}
	for i := range t.Values {
		t.Values[i] = make([]float64, len(numericColumns))
	}
	return t
}

func (t *FeatureTable) Len() int {
	return len(t.MachineIDs)
}

func (t *FeatureTable) NumericColumns() []string {
	return t.Columns[1:]
}

// ColumnIndex returns the index of name within a row of Values, or -1.
func (t *FeatureTable) ColumnIndex(name string) int {
	for i, col := range t.Columns[1:] {
		if col == name {
			return i
		}
	}
	return -1
}

// Column copies out a numeric column.
func (t *FeatureTable) Column(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, t.Len())
	for i, row := range t.Values {
		out[i] = row[idx]
	}
	return out, true
}

func (t *FeatureTable) ColumnsWithPrefix(prefix string) []string {
	var out []string
	for _, col := range t.Columns[1:] {
		if strings.HasPrefix(col, prefix) {
			out = append(out, col)
		}
	}
	return out
}

// Machines returns the distinct machine ids in first-seen order.
func (t *FeatureTable) Machines() []string {
	return common.Distinct(t.MachineIDs)
}

// FilterMachine returns the rows belonging to machineID, sharing row storage
// with t.
func (t *FeatureTable) FilterMachine(machineID string) *FeatureTable {
	out := &FeatureTable{Columns: t.Columns}
	for i, id := range t.MachineIDs {
		if id == machineID {
			out.MachineIDs = append(out.MachineIDs, id)
			out.Values = append(out.Values, t.Values[i])
		}
	}
	return out
}

// CountNaN returns the number of NaN cells in the numeric columns.
func (t *FeatureTable) CountNaN() int {
	n := 0
	for _, row := range t.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func WriteFeatureTable(w io.Writer, t *FeatureTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Values {
		record[0] = t.MachineIDs[i]
		for j, v := range row {
			record[j+1] = FormatFloat(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadFeatureTable reads a CSV written by WriteFeatureTable. Null cells are
// read back as NaN.
func ReadFeatureTable(r io.Reader) (*FeatureTable, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) == 0 || strings.TrimSpace(header[0]) != models.ColumnMachineID {
		return nil, fmt.Errorf("%w: %s must be the first column", ErrMissingColumn, models.ColumnMachineID)
	}

	t := &FeatureTable{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

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

		row := make([]float64, len(record)-1)
		for j, cell := range record[1:] {
			if IsNull(cell) {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				// get_dummies output written as booleans
				switch strings.ToLower(cell) {
				case "true":
					v = 1
				case "false":
					v = 0
				default:
					return nil, fmt.Errorf("line %d: invalid %s value: %s", line, t.Columns[j+1], cell)
				}
			}
			row[j] = v
		}
		t.MachineIDs = append(t.MachineIDs, record[0])
		t.Values = append(t.Values, row)
	}

	return t, nil
}
