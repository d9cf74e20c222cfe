package pipeline

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"

	"liyu1981.xyz/agri-maintenance/pkg/config"
	"liyu1981.xyz/agri-maintenance/pkg/db"
	"liyu1981.xyz/agri-maintenance/pkg/models"
	"liyu1981.xyz/agri-maintenance/pkg/pipeline/mocks"
)

func GetMockPipelineWithMemorySqliteDialector(t *testing.T, useMockCleaner, useMockEngineer, useMockRuns bool) (
	*gomock.Controller,
	*Pipeline,
	*mocks.MockICleaner,
	*mocks.MockIFeatureEngineer,
	*mocks.MockIRunLog,
) {
	ctrl := gomock.NewController(t)

	mockCleaner := mocks.NewMockICleaner(ctrl)
	mockEngineer := mocks.NewMockIFeatureEngineer(ctrl)
	mockRuns := mocks.NewMockIRunLog(ctrl)
	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	p := &Pipeline{Db: *dbInstance, Features: config.DefaultFeatureConfig()}

	cleaner := p.GetICleaner()
	if useMockCleaner {
		cleaner = mockCleaner
	}

	engineer := p.GetIFeatureEngineer()
	if useMockEngineer {
		engineer = mockEngineer
	}

	runs := p.GetIRunLog()
	if useMockRuns {
		runs = mockRuns
	}

	p.WithServices(ServiceOpts{
		Cleaner:  cleaner,
		Engineer: engineer,
		Runs:     runs,
	})

	return ctrl, p, mockCleaner, mockEngineer, mockRuns
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		var j any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

const rawHeader = "timestamp,machine_id,vibration_level,motor_current,ambient_temp,motor_temp,torque,rpm,operating_mode,failure_label,remaining_minutes\n"

// resetRuns empties the shared in-memory ledger between tests.
func resetRuns(t *testing.T, p *Pipeline) {
	t.Helper()
	if err := p.Db.Conn.Where("1 = 1").Delete(&models.PipelineRun{}).Error; err != nil {
		t.Fatalf("failed to reset pipeline runs: %v", err)
	}
}
