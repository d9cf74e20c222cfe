package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
	"liyu1981.xyz/agri-maintenance/pkg/report"
	"liyu1981.xyz/agri-maintenance/pkg/synth"
)

var (
	ErrRunLogUnavailable   = errors.New("run log service not available")
	ErrCleanerUnavailable  = errors.New("cleaner service not available")
	ErrEngineerUnavailable = errors.New("feature engineer service not available")
)

var stageCategories = map[models.Stage]string{
	models.StageGenerate: common.LoggerCategoryGenerate,
	models.StageClean:    common.LoggerCategoryClean,
	models.StageFeatures: common.LoggerCategoryFeatures,
	models.StageReport:   common.LoggerCategoryReport,
}

// track runs one stage and records its outcome, failed runs included.
func (p *Pipeline) track(stage models.Stage, inPath, outPath string, fn func(run *models.PipelineRun) error) (*models.PipelineRun, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipeline,
		zap.String(common.LoggerFieldCategory, stageCategories[stage]),
	)

	run := &models.PipelineRun{
		ID:         uuid.NewString(),
		Stage:      stage,
		InputPath:  inPath,
		OutputPath: outPath,
		StartedAt:  time.Now(),
	}

	logger.Info("Stage started", zap.String("input", inPath), zap.String("output", outPath))

	err := fn(run)
	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Message = err.Error()
		logger.Error("Stage failed", zap.Error(err))
	} else {
		run.Status = models.RunStatusSucceeded
		run.Message = "OK"
		logger.Info("Stage finished",
			zap.Int("rows_in", run.RowsIn),
			zap.Int("rows_out", run.RowsOut),
			zap.Duration("took", run.Duration()),
		)
	}

	if p.Runs == nil {
		return run, errors.Join(err, ErrRunLogUnavailable)
	}
	if recErr := p.Runs.RecordRun(run); recErr != nil {
		return run, errors.Join(err, fmt.Errorf("failed to record run: %w", recErr))
	}
	return run, err
}

func readFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return read(f)
}

// writeFile hands a temp file next to path to write and renames it over path
// only once write succeeded, so a failed stage never leaves a partial output.
func writeFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = write(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// RunGenerate writes a synthetic raw sensor log.
func (p *Pipeline) RunGenerate(opts synth.Options, outPath string) (*models.PipelineRun, error) {
	return p.track(models.StageGenerate, "", outPath, func(run *models.PipelineRun) error {
		g, err := synth.NewGenerator(opts)
		if err != nil {
			return err
		}
		rows := g.Generate()
		for i := range rows {
			run.NullCells += len(rows[i].Nulls)
		}
		run.RowsOut = len(rows)
		run.ColumnsOut = len(models.RawColumns)
		return writeFile(outPath, func(w io.Writer) error {
			return synth.WriteCSV(w, rows)
		})
	})
}

// RunClean drops incomplete rows from the raw log and writes it back sorted
// per machine in time order.
func (p *Pipeline) RunClean(inPath, outPath string) (*models.PipelineRun, error) {
	return p.track(models.StageClean, inPath, outPath, func(run *models.PipelineRun) error {
		if p.Cleaner == nil {
			return ErrCleanerUnavailable
		}

		table, err := readFile(inPath, dataset.ReadRaw)
		if err != nil {
			return err
		}
		run.RowsIn = table.Len()

		readings, summary, err := p.Cleaner.CleanReadings(table)
		if summary != nil {
			run.NullCells = summary.NullCells()
		}
		if err != nil {
			return err
		}
		run.RowsOut = len(readings)
		run.ColumnsOut = len(models.RawColumns)

		return writeFile(outPath, func(w io.Writer) error {
			return dataset.WriteReadings(w, readings)
		})
	})
}

// RunFeatures derives rolling-window and one-hot features from a cleaned log.
func (p *Pipeline) RunFeatures(inPath, outPath string) (*models.PipelineRun, error) {
	return p.track(models.StageFeatures, inPath, outPath, func(run *models.PipelineRun) error {
		if p.Engineer == nil {
			return ErrEngineerUnavailable
		}

		readings, err := readFile(inPath, dataset.ReadReadings)
		if err != nil {
			return err
		}
		run.RowsIn = len(readings)

		table, err := p.Engineer.BuildFeatures(readings)
		if err != nil {
			return err
		}
		if table.Len() != len(readings) {
			return fmt.Errorf("feature table has %d rows, expected %d", table.Len(), len(readings))
		}
		run.RowsOut = table.Len()
		run.ColumnsOut = len(table.Columns)
		run.NullCells = table.CountNaN()

		return writeFile(outPath, func(w io.Writer) error {
			return dataset.WriteFeatureTable(w, table)
		})
	})
}

// RunReport summarizes a feature table into a markdown report.
func (p *Pipeline) RunReport(inPath, outPath string, bins int) (*models.PipelineRun, error) {
	return p.track(models.StageReport, inPath, outPath, func(run *models.PipelineRun) error {
		table, err := readFile(inPath, dataset.ReadFeatureTable)
		if err != nil {
			return err
		}
		run.RowsIn = table.Len()

		rep, err := report.Build(table, bins, time.Now())
		if err != nil {
			return err
		}
		run.RowsOut = len(rep.Summary)

		return writeFile(outPath, func(w io.Writer) error {
			return report.WriteMarkdown(w, rep)
		})
	})
}
