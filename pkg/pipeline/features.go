package pipeline

import (
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/features"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

type IFeatureEngineerImpl struct {
	pipeline *Pipeline
}

func (ie *IFeatureEngineerImpl) BuildFeatures(readings []models.SensorReading) (*dataset.FeatureTable, error) {
	return features.NewEngineer(ie.pipeline.Features).Build(readings)
}

func (p *Pipeline) GetIFeatureEngineer() IFeatureEngineer {
	return &IFeatureEngineerImpl{pipeline: p}
}
