package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/config"
	"liyu1981.xyz/agri-maintenance/pkg/db"
	"liyu1981.xyz/agri-maintenance/pkg/models"
	"liyu1981.xyz/agri-maintenance/pkg/pipeline"
	"liyu1981.xyz/agri-maintenance/pkg/report"
	"liyu1981.xyz/agri-maintenance/pkg/synth"
)

const usage = `usage: pipeline [-feature-config path] [generate|clean|features|report|all]

Runs one stage of the predictive maintenance pipeline, or all of them in
order. Paths and parameters come from PDM_* environment variables or .env.`

func main() {
	featureConfig := flag.String("feature-config", "", "Feature YAML file (env: PDM_FEATURE_CONFIG)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := common.LoadDotEnv()

	stage := "all"
	if args := flag.Args(); len(args) > 0 {
		stage = args[0]
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	if strings.TrimSpace(*featureConfig) != "" {
		cfg.FeatureConfigPath = strings.TrimSpace(*featureConfig)
	}

	features, err := config.LoadFeatureConfig(cfg.FeatureConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	dialector, ok := db.UseDialector(cfg.DBType)
	if !ok {
		log.Fatal("Unknown PDM_DB_TYPE: " + cfg.DBType)
	}

	p := &pipeline.Pipeline{
		Db:       *db.GetInstance(dialector),
		Features: features,
	}
	p.WithDefaultServices()

	generate := func() (*models.PipelineRun, error) {
		opts := synth.DefaultOptions()
		opts.Machines = cfg.SynthMachines
		opts.Minutes = cfg.SynthMinutes
		opts.Seed = cfg.SynthSeed
		return p.RunGenerate(opts, cfg.RawPath)
	}
	clean := func() (*models.PipelineRun, error) {
		return p.RunClean(cfg.RawPath, cfg.CleanedPath)
	}
	engineer := func() (*models.PipelineRun, error) {
		return p.RunFeatures(cfg.CleanedPath, cfg.FeaturesPath)
	}
	summarize := func() (*models.PipelineRun, error) {
		return p.RunReport(cfg.FeaturesPath, cfg.ReportPath, report.DefaultHistogramBins)
	}

	var stages []func() (*models.PipelineRun, error)
	switch stage {
	case "generate":
		stages = append(stages, generate)
	case "clean":
		stages = append(stages, clean)
	case "features":
		stages = append(stages, engineer)
	case "report":
		stages = append(stages, summarize)
	case "all":
		stages = append(stages, generate, clean, engineer, summarize)
	default:
		flag.Usage()
		os.Exit(2)
	}

	for _, run := range stages {
		r, err := run()
		if err != nil {
			log.Fatalf("stage %s failed: %v", r.Stage, err)
		}
		logger.Info("Stage completed",
			zap.String("stage", string(r.Stage)),
			zap.String("output", r.OutputPath),
			zap.Int("rows_out", r.RowsOut),
			zap.Int("columns_out", r.ColumnsOut),
		)
	}
}
