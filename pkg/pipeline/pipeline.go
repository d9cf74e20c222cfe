package pipeline

import (
	"liyu1981.xyz/agri-maintenance/pkg/config"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/db"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

type ICleaner interface {
	CleanReadings(table *dataset.RawTable) ([]models.SensorReading, *models.CleanSummary, error)
}

type IFeatureEngineer interface {
	BuildFeatures(readings []models.SensorReading) (*dataset.FeatureTable, error)
}

type IRunLog interface {
	RecordRun(run *models.PipelineRun) error
	ListRuns(stage models.Stage, limit int) ([]models.PipelineRun, error)
}

type Pipeline struct {
	Db       db.DB
	Features config.FeatureConfig
	Cleaner  ICleaner
	Engineer IFeatureEngineer
	Runs     IRunLog
}

type ServiceOpts struct {
	Cleaner  ICleaner
	Engineer IFeatureEngineer
	Runs     IRunLog
}

func (p *Pipeline) WithServices(opts ServiceOpts) *Pipeline {
	if opts.Cleaner != nil {
		p.Cleaner = opts.Cleaner
	}
	if opts.Engineer != nil {
		p.Engineer = opts.Engineer
	}
	if opts.Runs != nil {
		p.Runs = opts.Runs
	}
	return p
}

// WithDefaultServices wires the database-backed implementations.
func (p *Pipeline) WithDefaultServices() *Pipeline {
	return p.WithServices(ServiceOpts{
		Cleaner:  p.GetICleaner(),
		Engineer: p.GetIFeatureEngineer(),
		Runs:     p.GetIRunLog(),
	})
}
