package predict

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ezoic/scigo/linear"
	"github.com/ezoic/scigo/preprocessing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
)

var (
	ErrMissingTarget    = errors.New("feature table has no target column")
	ErrTooFewRows       = errors.New("not enough rows to train")
	ErrRowOutOfRange    = errors.New("row out of range")
	ErrMissingFeature   = errors.New("feature table lacks a model feature")
	ErrNoUsableFeatures = errors.New("no non-constant feature columns")
	ErrNaNCells         = errors.New("feature table holds NaN cells")
)

// targetColumns never feed the models.
var targetColumns = []string{models.ColumnFailureLabel, models.ColumnRemainingMinutes}

type Options struct {
	Iterations   int     // gradient steps for the failure classifier
	LearningRate float64 // step size on standardized features
	L2           float64 // ridge penalty on classifier weights
}

func DefaultOptions() Options {
	return Options{
		Iterations:   300,
		LearningRate: 0.5,
		L2:           1e-3,
	}
}

// Model pairs a failure classifier with a remaining-minutes regressor, both
// trained on the same standardized feature columns.
type Model struct {
	Features []string
	Rows     int

	scaler  *preprocessing.StandardScaler
	rul     *linear.LinearRegression
	failure *logistic
}

type Prediction struct {
	MachineID          string  `json:"machine_id"`
	Row                int     `json:"row"`
	FailureProbability float64 `json:"failure_probability"`
	PredictedRUL       float64 `json:"predicted_rul"`
}

// Rounded keeps four decimals of probability and two of RUL.
func (p Prediction) Rounded() Prediction {
	p.FailureProbability = decimal.NewFromFloat(p.FailureProbability).Round(4).InexactFloat64()
	p.PredictedRUL = decimal.NewFromFloat(p.PredictedRUL).Round(2).InexactFloat64()
	return p
}

// selectFeatures keeps every numeric column except the targets. The first
// operating_mode indicator is dropped since the indicators sum to the
// intercept, and so are columns that never vary.
func selectFeatures(t *dataset.FeatureTable) []string {
	indicatorPrefix := models.ColumnOperatingMode + "_"
	droppedIndicator := false

	var out []string
	for _, col := range t.NumericColumns() {
		if slices.Contains(targetColumns, col) {
			continue
		}
		if strings.HasPrefix(col, indicatorPrefix) && !droppedIndicator {
			droppedIndicator = true
			continue
		}
		idx := t.ColumnIndex(col)
		first := t.Values[0][idx]
		constant := true
		for _, row := range t.Values {
			if row[idx] != first {
				constant = false
				break
			}
		}
		if !constant {
			out = append(out, col)
		}
	}
	return out
}

func (m *Model) design(t *dataset.FeatureTable, rows []int) (*mat.Dense, error) {
	idx := make([]int, len(m.Features))
	for j, col := range m.Features {
		if idx[j] = t.ColumnIndex(col); idx[j] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, col)
		}
	}

	x := mat.NewDense(len(rows), len(m.Features), nil)
	for i, r := range rows {
		for j, c := range idx {
			x.Set(i, j, t.Values[r][c])
		}
	}
	return x, nil
}

// Train fits both models on every row of t.
func Train(t *dataset.FeatureTable, opts Options) (*Model, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipeline,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryPredict),
	)

	labelIdx := t.ColumnIndex(models.ColumnFailureLabel)
	rulIdx := t.ColumnIndex(models.ColumnRemainingMinutes)
	if labelIdx < 0 || rulIdx < 0 {
		return nil, fmt.Errorf("%w: need %s and %s", ErrMissingTarget, models.ColumnFailureLabel, models.ColumnRemainingMinutes)
	}
	if t.Len() < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRows, t.Len())
	}
	if nan := t.CountNaN(); nan > 0 {
		return nil, fmt.Errorf("%w: %d", ErrNaNCells, nan)
	}

	m := &Model{Features: selectFeatures(t), Rows: t.Len()}
	if len(m.Features) == 0 {
		return nil, ErrNoUsableFeatures
	}
	if t.Len() <= len(m.Features)+1 {
		return nil, fmt.Errorf("%w: %d rows for %d features", ErrTooFewRows, t.Len(), len(m.Features))
	}

	rows := make([]int, t.Len())
	labels := make([]float64, t.Len())
	rul := mat.NewDense(t.Len(), 1, nil)
	for i, row := range t.Values {
		rows[i] = i
		labels[i] = row[labelIdx]
		rul.Set(i, 0, row[rulIdx])
	}

	x, err := m.design(t, rows)
	if err != nil {
		return nil, err
	}

	m.scaler = preprocessing.NewStandardScaler(true, true)
	if err := m.scaler.Fit(x); err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}
	xs, err := m.scaler.Transform(x)
	if err != nil {
		return nil, fmt.Errorf("failed to scale features: %w", err)
	}

	m.rul = linear.NewLinearRegression()
	if err := m.rul.Fit(xs, rul); err != nil {
		return nil, fmt.Errorf("failed to fit RUL regression: %w", err)
	}

	score, err := m.rul.Score(xs, rul)
	if err != nil {
		return nil, fmt.Errorf("failed to score RUL regression: %w", err)
	}

	m.failure = fitLogistic(xs, labels, opts)

	logger.Info("Trained failure and RUL models",
		zap.Int("rows", m.Rows),
		zap.Int("features", len(m.Features)),
		zap.Float64("rul_r2", score),
	)
	return m, nil
}

// Predict scores row (0-based, within t) of t. Predicted RUL is clamped at 0.
func (m *Model) Predict(t *dataset.FeatureTable, row int) (Prediction, error) {
	if row < 0 || row >= t.Len() {
		return Prediction{}, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, row, t.Len())
	}

	x, err := m.design(t, []int{row})
	if err != nil {
		return Prediction{}, err
	}
	xs, err := m.scaler.Transform(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to scale features: %w", err)
	}

	rul, err := m.rul.Predict(xs)
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to predict RUL: %w", err)
	}

	return Prediction{
		MachineID:          t.MachineIDs[row],
		Row:                row,
		FailureProbability: m.failure.probability(mat.Row(nil, 0, xs)),
		PredictedRUL:       math.Max(0, rul.At(0, 0)),
	}, nil
}
