package dataset

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *FeatureTable {
	t := NewFeatureTable([]string{"torque", "failure_label", "operating_mode_idle", "operating_mode_pto"}, 3)
	t.MachineIDs = []string{"M002", "M001", "M002"}
	t.Values = [][]float64{
		{140.5, 0, 1, 0},
		{150, 1, 0, 1},
		{141, 1, 1, 0},
	}
	return t
}

func TestFeatureTableLookups(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"machine_id", "torque", "failure_label", "operating_mode_idle", "operating_mode_pto"}, table.Columns)
	assert.Equal(t, 1, table.ColumnIndex("failure_label"))
	assert.Equal(t, -1, table.ColumnIndex("machine_id"))

	torque, ok := table.Column("torque")
	require.True(t, ok)
	assert.Equal(t, []float64{140.5, 150, 141}, torque)

	_, ok = table.Column("rpm")
	assert.False(t, ok)

	assert.Equal(t, []string{"operating_mode_idle", "operating_mode_pto"}, table.ColumnsWithPrefix("operating_mode_"))
	assert.Equal(t, []string{"M002", "M001"}, table.Machines())

	m2 := table.FilterMachine("M002")
	assert.Equal(t, 2, m2.Len())
	assert.Equal(t, [][]float64{{140.5, 0, 1, 0}, {141, 1, 1, 0}}, m2.Values)
	assert.Equal(t, 0, table.FilterMachine("M404").Len())
}

func TestFeatureTableRoundTrip(t *testing.T) {
	table := sampleTable()

	var buf bytes.Buffer
	require.NoError(t, WriteFeatureTable(&buf, table))
	assert.True(t, strings.HasPrefix(buf.String(), "machine_id,torque,failure_label,operating_mode_idle,operating_mode_pto\nM002,140.5,0,1,0\n"))

	read, err := ReadFeatureTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, table, read)
	assert.Equal(t, 0, read.CountNaN())
}

func TestReadFeatureTable_EdgeCases(t *testing.T) {
	_, err := ReadFeatureTable(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ReadFeatureTable(strings.NewReader("torque,machine_id\n1,M1\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	table, err := ReadFeatureTable(strings.NewReader("machine_id,torque,operating_mode_idle\nM1,,True\nM1,2,False\n"))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(table.Values[0][0]))
	assert.Equal(t, 1.0, table.Values[0][1])
	assert.Equal(t, 0.0, table.Values[1][1])
	assert.Equal(t, 1, table.CountNaN())

	_, err = ReadFeatureTable(strings.NewReader("machine_id,torque\nM1,heavy\n"))
	assert.Error(t, err)
}
