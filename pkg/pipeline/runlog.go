package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

func (p *Pipeline) recordRun(run *models.PipelineRun) error {
	logger := common.GetLoggerWith(
		common.LoggerNamePipeline,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRuns),
	)

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	if err := p.Db.Conn.Create(run).Error; err != nil {
		return err
	}

	logger.Info("Recorded pipeline run", zap.Reflect("run", run))
	return nil
}

// listRuns returns the newest runs first; an empty stage matches all stages
// and a non-positive limit returns everything.
func (p *Pipeline) listRuns(stage models.Stage, limit int) ([]models.PipelineRun, error) {
	var runs []models.PipelineRun
	q := p.Db.Conn.Order("started_at desc")
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&runs).Error
	return runs, err
}

type IRunLogImpl struct {
	pipeline *Pipeline
}

func (ir *IRunLogImpl) RecordRun(run *models.PipelineRun) error {
	return ir.pipeline.recordRun(run)
}

func (ir *IRunLogImpl) ListRuns(stage models.Stage, limit int) ([]models.PipelineRun, error) {
	return ir.pipeline.listRuns(stage, limit)
}

func (p *Pipeline) GetIRunLog() IRunLog {
	return &IRunLogImpl{pipeline: p}
}
