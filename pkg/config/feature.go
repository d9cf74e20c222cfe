package config

import (
	"fmt"
	"os"

	z "github.com/Oudwins/zog"
	"gopkg.in/yaml.v3"

	"liyu1981.xyz/agri-maintenance/pkg/models"
)

const (
	StatMean = "mean"
	StatStd  = "std"
	StatMin  = "min"
	StatMax  = "max"
)

var Stats = []string{StatMean, StatStd, StatMin, StatMax}

// FeatureConfig drives the rolling-window feature stage.
type FeatureConfig struct {
	Window     int      `yaml:"window"`
	MinPeriods int      `yaml:"min_periods"`
	Columns    []string `yaml:"columns"`
	Stats      []string `yaml:"stats"`
	FillValue  float64  `yaml:"fill_value"`
	// Categories pins the one-hot columns; empty means use the observed modes.
	Categories []string `yaml:"categories"`
}

func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		Window:     30,
		MinPeriods: 1,
		Columns: []string{
			models.ColumnVibrationLevel,
			models.ColumnMotorCurrent,
			models.ColumnMotorTemp,
			models.ColumnTorque,
			models.ColumnRPM,
		},
		Stats:     append([]string(nil), Stats...),
		FillValue: 0,
	}
}

func modeNames() []string {
	names := make([]string, len(models.OperatingModes))
	for i, m := range models.OperatingModes {
		names[i] = string(m)
	}
	return names
}

var featureConfigSchema = z.Struct(z.Shape{
	"Window":     z.Int().GTE(1).Required(),
	"MinPeriods": z.Int().GTE(1).Required(),
	"Columns":    z.Slice(z.String().OneOf(models.SensorColumns)).Min(1).Required(),
	"Stats":      z.Slice(z.String().OneOf(Stats)).Min(1).Required(),
	"Categories": z.Slice(z.String().OneOf(modeNames())),
})

func (c *FeatureConfig) Validate() error {
	if issues := featureConfigSchema.Validate(c); issues != nil {
		return fmt.Errorf("invalid feature config: %v", issues)
	}
	if c.MinPeriods > c.Window {
		return fmt.Errorf("invalid feature config: min_periods %d exceeds window %d", c.MinPeriods, c.Window)
	}
	// repeated entries would emit repeated CSV headers
	for field, values := range map[string][]string{
		"columns":    c.Columns,
		"stats":      c.Stats,
		"categories": c.Categories,
	} {
		if dup, ok := firstDuplicate(values); ok {
			return fmt.Errorf("invalid feature config: duplicate %s entry %q", field, dup)
		}
	}
	return nil
}

func firstDuplicate(values []string) (string, bool) {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v, true
		}
		seen[v] = struct{}{}
	}
	return "", false
}

// RollingColumnName is the output column for a stat over a sensor column,
// e.g. torque_rolling_std.
func RollingColumnName(column, stat string) string {
	return column + "_rolling_" + stat
}

// LoadFeatureConfig overlays the YAML file at path on the defaults. An empty
// path returns the defaults.
func LoadFeatureConfig(path string) (FeatureConfig, error) {
	cfg := DefaultFeatureConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read feature config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse feature config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
