package pipeline

import (
	"fmt"
	"sort"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

type readingDomain struct {
	OperatingMode    string
	FailureLabel     int
	RemainingMinutes int
}

var readingDomainSchema = z.Struct(z.Shape{
	"OperatingMode": z.String().OneOf(common.Mapper(models.OperatingModes, func(m models.OperatingMode) string {
		return string(m)
	})).Required(),
	"FailureLabel":     z.Int().GTE(0).LTE(1),
	"RemainingMinutes": z.Int().GTE(0),
})

func validateReading(r *models.SensorReading) error {
	domain := readingDomain{
		OperatingMode:    string(r.OperatingMode),
		FailureLabel:     r.FailureLabel,
		RemainingMinutes: r.RemainingMinutes,
	}
	if issues := readingDomainSchema.Validate(&domain); issues != nil {
		return fmt.Errorf("validation error: %v", issues)
	}
	return nil
}

// SortChronologically orders readings by machine, then timestamp. Equal keys
// keep their input order.
func SortChronologically(readings []models.SensorReading) {
	sort.SliceStable(readings, func(a, b int) bool {
		if readings[a].MachineID != readings[b].MachineID {
			return readings[a].MachineID < readings[b].MachineID
		}
		return readings[a].Timestamp.Before(readings[b].Timestamp)
	})
}

func (p *Pipeline) cleanReadings(table *dataset.RawTable) ([]models.SensorReading, *models.CleanSummary, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipeline,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryClean),
	)

	summary := &models.CleanSummary{
		RowsIn:     table.Len(),
		NullCounts: table.NullCounts(),
	}

	logger.Info("Null count per column", zap.Reflect("null_counts", summary.NullCounts))

	readings := make([]models.SensorReading, 0, table.Len())
	for i, record := range table.Records {
		if table.HasNull(i) {
			summary.RowsDropped++
			continue
		}

		reading, err := dataset.ParseReading(record)
		if err != nil {
			return nil, summary, fmt.Errorf("line %d: %w", table.Lines[i], err)
		}
		if err := validateReading(&reading); err != nil {
			return nil, summary, fmt.Errorf("line %d: %w", table.Lines[i], err)
		}
		readings = append(readings, reading)
	}

	SortChronologically(readings)

	logger.Info("Cleaned sensor log",
		zap.Int("rows_in", summary.RowsIn),
		zap.Int("rows_dropped", summary.RowsDropped),
		zap.Int("rows_out", summary.RowsOut()),
	)

	return readings, summary, nil
}

type ICleanerImpl struct {
	pipeline *Pipeline
}

func (ic *ICleanerImpl) CleanReadings(table *dataset.RawTable) ([]models.SensorReading, *models.CleanSummary, error) {
	return ic.pipeline.cleanReadings(table)
}

func (p *Pipeline) GetICleaner() ICleaner {
	return &ICleanerImpl{pipeline: p}
}
