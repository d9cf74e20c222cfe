package features

import (
	"slices"

	"liyu1981.xyz/agri-maintenance/pkg/models"
)

// IndicatorColumnName follows pandas.get_dummies naming: operating_mode_idle.
func IndicatorColumnName(category string) string {
	return models.ColumnOperatingMode + "_" + category
}

// Categories returns the pinned categories when given, otherwise the observed
// modes. Both are returned sorted so the column layout is stable.
func Categories(readings []models.SensorReading, pinned []string) []string {
	var out []string
	if len(pinned) > 0 {
		out = slices.Clone(pinned)
	} else {
		seen := map[string]struct{}{}
		for i := range readings {
			mode := string(readings[i].OperatingMode)
			if _, ok := seen[mode]; ok {
				continue
			}
			seen[mode] = struct{}{}
			out = append(out, mode)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// OneHot returns, for every reading, the index into categories its mode maps
// to, or -1 when the mode is not among them.
func OneHot(readings []models.SensorReading, categories []string) []int {
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}

	out := make([]int, len(readings))
	for i := range readings {
		if idx, ok := index[string(readings[i].OperatingMode)]; ok {
			out[i] = idx
		} else {
			out[i] = -1
		}
	}
	return out
}
