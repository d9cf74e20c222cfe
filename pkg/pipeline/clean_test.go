package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
	_ "liyu1981.xyz/agri-maintenance/pkg/testing"
)

func rawTable(t *testing.T, rows ...string) *dataset.RawTable {
	t.Helper()
	table, err := dataset.ReadRaw(strings.NewReader(rawHeader + strings.Join(rows, "\n") + "\n"))
	require.NoError(t, err)
	return table
}

func TestCleanReadings(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _ := GetMockPipelineWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	table := rawTable(t,
		"2024-01-01 00:01:00,M002,0.61,13.0,20.5,60.1,150.0,1900,traction,0,200",
		"2024-01-01 00:01:00,M001,0.52,12.1,21.0,55.3,140.2,1800,Idle,0,420",
		"2024-01-01 00:00:00,M001,0.50,,21.0,55.0,140.0,1800,idle,0,421",
		"2024-01-01 00:00:00,M002,0.60,12.9,20.5,60.0,149.0,1895,traction,0,201",
		"2024-01-01 00:00:30,M001,0.51,12.0,21.0,55.1,140.1,1801,pto,1,25",
	)

	readings, summary, err := p.Cleaner.CleanReadings(table)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.RowsIn)
	assert.Equal(t, 1, summary.RowsDropped)
	assert.Equal(t, 4, summary.RowsOut())
	assert.Equal(t, 1, summary.NullCounts[models.ColumnMotorCurrent])
	assert.Equal(t, 1, summary.NullCells())

	require.Len(t, readings, 4)
	assert.Equal(t, "M001", readings[0].MachineID)
	assert.Equal(t, models.OperatingModePTO, readings[0].OperatingMode)
	assert.Equal(t, models.OperatingModeIdle, readings[1].OperatingMode)
	assert.Equal(t, "M002", readings[2].MachineID)
	assert.Equal(t, 201, readings[2].RemainingMinutes)
	assert.Equal(t, 200, readings[3].RemainingMinutes)
}

func TestCleanReadingsPreservesCompleteRows(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _ := GetMockPipelineWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	table := rawTable(t,
		"2024-01-01 00:00:00,M001,0.52,12.1,21.0,55.3,140.2,1800,idle,0,420",
		"2024-01-01 00:01:00,M001,0.52,12.1,21.0,55.3,140.2,1800,idle,0,419",
	)

	readings, summary, err := p.Cleaner.CleanReadings(table)
	require.NoError(t, err)
	assert.Len(t, readings, table.Len())
	assert.Zero(t, summary.RowsDropped)
}

func TestCleanReadings_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _ := GetMockPipelineWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"bad float", "2024-01-01 00:00:00,M001,abc,12.1,21.0,55.3,140.2,1800,idle,0,420", "line 2: invalid vibration_level"},
		{"bad timestamp", "01/01/2024,M001,0.5,12.1,21.0,55.3,140.2,1800,idle,0,420", "line 2: invalid timestamp"},
		{"unknown mode", "2024-01-01 00:00:00,M001,0.5,12.1,21.0,55.3,140.2,1800,plowing,0,420", "line 2: validation error"},
		{"label out of range", "2024-01-01 00:00:00,M001,0.5,12.1,21.0,55.3,140.2,1800,idle,2,420", "line 2: validation error"},
		{"negative rul", "2024-01-01 00:00:00,M001,0.5,12.1,21.0,55.3,140.2,1800,idle,0,-1", "line 2: validation error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Cleaner.CleanReadings(rawTable(t, tt.row))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	readings, summary, err := p.Cleaner.CleanReadings(&dataset.RawTable{})
	require.NoError(t, err)
	assert.Empty(t, readings)
	assert.Zero(t, summary.RowsIn)
}

func TestCleanReadingsLogsNullCounts(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)
	defer common.SetTestLoggerNop()

	ctrl, p, _, _, _ := GetMockPipelineWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	table := rawTable(t, "2024-01-01 00:00:00,M001,,12.1,21.0,55.3,140.2,1800,idle,0,420")
	_, _, err := p.Cleaner.CleanReadings(table)
	require.NoError(t, err)

	logs := ParseLogs(&buf)
	require.NotEmpty(t, logs)

	var found bool
	for _, l := range logs {
		entry := l.(map[string]any)
		if entry["msg"] != "Null count per column" {
			continue
		}
		found = true
		assert.Equal(t, "pipeline", entry["logger"])
		assert.Equal(t, common.LoggerCategoryClean, entry["category"])
		counts := entry["null_counts"].(map[string]any)
		assert.EqualValues(t, 1, counts[models.ColumnVibrationLevel])
	}
	assert.True(t, found, "expected null count log entry")
}

func TestSortChronologically(t *testing.T) {
	table := rawTable(t,
		"2024-01-01 00:02:00,M001,1,1,1,1,1,1,idle,0,3",
		"2024-01-01 00:00:00,M001,2,1,1,1,1,1,idle,0,5",
		"2024-01-01 00:00:00,M001,3,1,1,1,1,1,idle,0,4",
	)
	var readings []models.SensorReading
	for _, rec := range table.Records {
		r, err := dataset.ParseReading(rec)
		require.NoError(t, err)
		readings = append(readings, r)
	}

	SortChronologically(readings)

	assert.Equal(t, []int{5, 4, 3}, common.Mapper(readings, func(r models.SensorReading) int {
		return r.RemainingMinutes
	}))
}
