package features

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/config"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

// passthroughColumns are raw columns copied into the feature table as-is.
// timestamp is dropped and operating_mode is replaced by indicator columns.
var passthroughColumns = []string{
	models.ColumnVibrationLevel,
	models.ColumnMotorCurrent,
	models.ColumnAmbientTemp,
	models.ColumnMotorTemp,
	models.ColumnTorque,
	models.ColumnRPM,
	models.ColumnFailureLabel,
	models.ColumnRemainingMinutes,
}

func passthroughValue(r *models.SensorReading, column string) float64 {
	switch column {
	case models.ColumnFailureLabel:
		return float64(r.FailureLabel)
	case models.ColumnRemainingMinutes:
		return float64(r.RemainingMinutes)
	}
	v, _ := r.Sensor(column)
	return v
}

type Engineer struct {
	Config config.FeatureConfig
}

func NewEngineer(cfg config.FeatureConfig) *Engineer {
	return &Engineer{Config: cfg}
}

// Layout returns the numeric columns of the feature table in output order.
func (e *Engineer) Layout(categories []string) []string {
	cols := append([]string(nil), passthroughColumns...)
	for _, col := range e.Config.Columns {
		for _, s := range e.Config.Stats {
			cols = append(cols, config.RollingColumnName(col, s))
		}
	}
	for _, c := range categories {
		cols = append(cols, IndicatorColumnName(c))
	}
	return cols
}

// ChronologicalGroups returns row indices grouped by machine, each group in
// timestamp order. Groups are ordered by machine id; ties keep input order.
func ChronologicalGroups(readings []models.SensorReading) [][]int {
	order := make([]int, len(readings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := &readings[order[a]], &readings[order[b]]
		if ra.MachineID != rb.MachineID {
			return ra.MachineID < rb.MachineID
		}
		return ra.Timestamp.Before(rb.Timestamp)
	})

	var groups [][]int
	for i, idx := range order {
		if i == 0 || readings[idx].MachineID != readings[order[i-1]].MachineID {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], idx)
	}
	return groups
}

// Build derives the feature table. Output rows keep the input order while
// every window runs over its machine's chronologically sorted readings.
func (e *Engineer) Build(readings []models.SensorReading) (*dataset.FeatureTable, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipeline,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryFeatures),
	)

	if err := e.Config.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(e.Config.FillValue) {
		return nil, fmt.Errorf("fill value must not be NaN")
	}
	window := Window{Size: e.Config.Window, MinPeriods: e.Config.MinPeriods}

	categories := Categories(readings, e.Config.Categories)
	layout := e.Layout(categories)
	table := dataset.NewFeatureTable(layout, len(readings))

	for i := range readings {
		table.MachineIDs[i] = readings[i].MachineID
		for j, col := range passthroughColumns {
			table.Values[i][j] = passthroughValue(&readings[i], col)
		}
	}

	groups := ChronologicalGroups(readings)
	logger.Info("Computing rolling features",
		zap.Int("rows", len(readings)),
		zap.Int("machines", len(groups)),
		zap.Int("window", window.Size),
		zap.Int("min_periods", window.MinPeriods),
	)

	filled := 0
	colIdx := len(passthroughColumns)
	for _, col := range e.Config.Columns {
		for _, s := range e.Config.Stats {
			for _, group := range groups {
				values := make([]float64, len(group))
				for k, idx := range group {
					values[k], _ = readings[idx].Sensor(col)
				}

				rolled, err := Rolling(values, window, s)
				if err != nil {
					return nil, fmt.Errorf("rolling %s of %s: %w", s, col, err)
				}
				filled += FillNaN(rolled, e.Config.FillValue)

				for k, idx := range group {
					table.Values[idx][colIdx] = rolled[k]
				}
			}
			colIdx++
		}
	}

	unknown := 0
	for i, c := range OneHot(readings, categories) {
		if c < 0 {
			unknown++
			continue
		}
		table.Values[i][colIdx+c] = 1
	}
	if unknown > 0 {
		logger.Warn("Operating mode outside pinned categories, indicators left at 0", zap.Int("rows", unknown))
	}

	if nan := table.CountNaN(); nan > 0 {
		return nil, fmt.Errorf("feature table still holds %d NaN cells", nan)
	}
	logger.Info("Feature table built",
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)),
		zap.Int("filled_cells", filled),
		zap.Strings("categories", categories),
	)

	return table, nil
}
