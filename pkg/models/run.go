package models

import "time"

type Stage string

const (
	StageGenerate Stage = "generate"
	StageClean    Stage = "clean"
	StageFeatures Stage = "features"
	StageReport   Stage = "report"
)

type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun is the ledger entry written for every stage execution.
type PipelineRun struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Stage      Stage     `gorm:"type:varchar(20);index;check:stage IN ('generate','clean','features','report')" json:"stage"`
	Status     RunStatus `gorm:"type:varchar(20);check:status IN ('succeeded','failed')" json:"status"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	RowsIn     int       `json:"rows_in"`
	RowsOut    int       `json:"rows_out"`
	ColumnsOut int       `json:"columns_out"`
	NullCells  int       `json:"null_cells"`
	Message    string    `json:"message"`
	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *PipelineRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
