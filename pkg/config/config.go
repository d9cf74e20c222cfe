package config

import (
	"fmt"
	"strconv"

	z "github.com/Oudwins/zog"

	"liyu1981.xyz/agri-maintenance/pkg/common"
)

const (
	DBTypeFile   = "file"
	DBTypeMemory = "memory"
)

// Config is the process configuration, read from the environment after
// godotenv has loaded .env.
type Config struct {
	DBType string

	RawPath           string
	CleanedPath       string
	FeaturesPath      string
	ReportPath        string
	FeatureConfigPath string

	SynthMachines int
	SynthMinutes  int
	SynthSeed     int64

	HTTPHostPort string
	DefaultRate  float64
	DefaultBurst int
}

var configSchema = z.Struct(z.Shape{
	"DBType":        z.String().OneOf([]string{DBTypeFile, DBTypeMemory}).Required(),
	"RawPath":       z.String().Min(1).Required(),
	"CleanedPath":   z.String().Min(1).Required(),
	"FeaturesPath":  z.String().Min(1).Required(),
	"ReportPath":    z.String().Min(1).Required(),
	"SynthMachines": z.Int().GTE(1).Required(),
	"SynthMinutes":  z.Int().GTE(1).Required(),
	"DefaultRate":   z.Float64().GTE(0),
	"DefaultBurst":  z.Int().GTE(0),
})

func parseIntEnv(key string, fallback int) (int, error) {
	raw := common.GetEnvOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s, should be an int value: %w", key, err)
	}
	return v, nil
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DBType:            common.GetEnvOr(common.EnvKeyPDMDBType, DBTypeFile),
		RawPath:           common.GetEnvOr(common.EnvKeyPDMRawPath, "data/raw/agri_sensor_data.csv"),
		CleanedPath:       common.GetEnvOr(common.EnvKeyPDMCleanedPath, "data/processed/agri_sensor_data_cleaned.csv"),
		FeaturesPath:      common.GetEnvOr(common.EnvKeyPDMFeaturesPath, "data/processed/agri_features.csv"),
		ReportPath:        common.GetEnvOr(common.EnvKeyPDMReportPath, "reports/Predictive_Maintenance_Report.md"),
		FeatureConfigPath: common.GetEnvOr(common.EnvKeyPDMFeatureConfigPath, ""),
		HTTPHostPort:      common.GetEnvOr(common.EnvKeyPDMHttpHostPort, ":1080"),
	}

	var err error
	if cfg.SynthMachines, err = parseIntEnv(common.EnvKeyPDMSynthMachines, 10); err != nil {
		return nil, err
	}
	if cfg.SynthMinutes, err = parseIntEnv(common.EnvKeyPDMSynthMinutes, 3240); err != nil {
		return nil, err
	}
	seed, err := parseIntEnv(common.EnvKeyPDMSynthSeed, 42)
	if err != nil {
		return nil, err
	}
	cfg.SynthSeed = int64(seed)

	if cfg.DefaultRate, err = strconv.ParseFloat(common.GetEnvOr(common.EnvKeyPDMDefaultRate, "50"), 64); err != nil {
		return nil, fmt.Errorf("invalid %s, should be a float64 value: %w", common.EnvKeyPDMDefaultRate, err)
	}
	if cfg.DefaultBurst, err = parseIntEnv(common.EnvKeyPDMDefaultBurst, 100); err != nil {
		return nil, err
	}

	if issues := configSchema.Validate(cfg); issues != nil {
		return nil, fmt.Errorf("invalid configuration: %v", issues)
	}
	return cfg, nil
}
