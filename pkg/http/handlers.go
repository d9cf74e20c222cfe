package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/models"
	"liyu1981.xyz/agri-maintenance/pkg/predict"
	"liyu1981.xyz/agri-maintenance/pkg/report"
)

const maxHistogramBins = 200

var (
	errTableNotLoaded = errors.New("feature table not loaded")
	errNoPredictor    = errors.New("prediction model not trained")
)

func dashboardLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDashboard),
	)
}

func (rs *RestfulServer) tableLoaded(c *gin.Context) bool {
	if rs.Table == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errTableNotLoaded.Error()})
		return false
	}
	return true
}

// jsonFloat maps NaN, which encoding/json rejects, to null.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type ColumnSummaryResponse struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	P25    *float64 `json:"p25"`
	P50    *float64 `json:"p50"`
	P75    *float64 `json:"p75"`
	Max    *float64 `json:"max"`
}

func toColumnSummaryResponse(s report.ColumnSummary) ColumnSummaryResponse {
	s = s.Rounded()
	return ColumnSummaryResponse{
		Column: s.Column,
		Count:  s.Count,
		Mean:   jsonFloat(s.Mean),
		Std:    jsonFloat(s.Std),
		Min:    jsonFloat(s.Min),
		P25:    jsonFloat(s.P25),
		P50:    jsonFloat(s.P50),
		P75:    jsonFloat(s.P75),
		Max:    jsonFloat(s.Max),
	}
}

type MachineSummaryResponse struct {
	MachineID string                  `json:"machine_id"`
	Rows      int                     `json:"rows"`
	Summary   []ColumnSummaryResponse `json:"summary"`
}

func (rs *RestfulServer) GetMachines(c *gin.Context) {
	if !rs.tableLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"machines": rs.Table.Machines()})
}

// machineRows answers 503 or 404 itself and returns false unless machineID is
// in the loaded table. It runs before any limiter lookup so unknown ids never
// allocate a bucket.
func (rs *RestfulServer) machineRows(c *gin.Context, machineID string) (*dataset.FeatureTable, bool) {
	if !rs.tableLoaded(c) {
		return nil, false
	}
	machine := rs.Table.FilterMachine(machineID)
	if machine.Len() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown machine: " + machineID})
		return nil, false
	}
	return machine, true
}

func (rs *RestfulServer) GetMachineSummary(c *gin.Context) {
	machineID := c.Param("machine_id")

	machine, ok := rs.machineRows(c, machineID)
	if !ok {
		return
	}
	if !rs.CheckMachineLimiter(machineID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	c.JSON(http.StatusOK, MachineSummaryResponse{
		MachineID: machineID,
		Rows:      machine.Len(),
		Summary:   common.Mapper(report.Describe(machine), toColumnSummaryResponse),
	})
}

type PredictQuery struct {
	Row int `json:"row"`
}

var predictQuerySchema = z.Struct(z.Shape{
	"row": z.Int().GTE(0),
})

// GetMachinePrediction scores one of the machine's rows, indexed from 0 in
// table order.
func (rs *RestfulServer) GetMachinePrediction(c *gin.Context) {
	machineID := c.Param("machine_id")

	var query PredictQuery
	if err := predictQuerySchema.Parse(zhttp.Request(c.Request), &query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	machine, ok := rs.machineRows(c, machineID)
	if !ok {
		return
	}
	if rs.Predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errNoPredictor.Error()})
		return
	}
	if !rs.CheckMachineLimiter(machineID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	p, err := rs.Predictor.Predict(machine, query.Row)
	if errors.Is(err, predict.ErrRowOutOfRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		dashboardLogger().Error("Failed to predict", zap.String("machine_id", machineID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p.Rounded())
}

func (rs *RestfulServer) GetFailuresByMode(c *gin.Context) {
	if !rs.tableLoaded(c) {
		return
	}

	counts, err := report.FailuresByMode(rs.Table)
	if err != nil {
		dashboardLogger().Error("Failed to count failures by mode", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, counts)
}

type HistogramQuery struct {
	Bins int `json:"bins"`
}

var histogramQuerySchema = z.Struct(z.Shape{
	"bins": z.Int().Required().Default(report.DefaultHistogramBins).GTE(1).LTE(maxHistogramBins),
})

func (rs *RestfulServer) GetRULHistogram(c *gin.Context) {
	var query HistogramQuery
	if err := histogramQuerySchema.Parse(zhttp.Request(c.Request), &query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if !rs.tableLoaded(c) {
		return
	}

	bins, err := report.RULHistogram(rs.Table, query.Bins)
	if err != nil {
		dashboardLogger().Error("Failed to build RUL histogram", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bins": bins})
}

type RunsQuery struct {
	Stage string `json:"stage"`
	Limit int    `json:"limit"`
}

var runsQuerySchema = z.Struct(z.Shape{
	"stage": z.String().OneOf([]string{
		string(models.StageGenerate),
		string(models.StageClean),
		string(models.StageFeatures),
		string(models.StageReport),
	}),
	"limit": z.Int().Required().Default(50).GTE(1).LTE(1000),
})

func (rs *RestfulServer) GetRuns(c *gin.Context) {
	var query RunsQuery
	if err := runsQuerySchema.Parse(zhttp.Request(c.Request), &query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if rs.Pipeline == nil || rs.Pipeline.Runs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run log not available"})
		return
	}

	runs, err := rs.Pipeline.Runs.ListRuns(models.Stage(query.Stage), query.Limit)
	if err != nil {
		dashboardLogger().Error("Failed to list pipeline runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required().GT(0),
	"burst": z.Int().Required().GTE(1),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	machineID := c.Param("machine_id")

	if _, ok := rs.machineRows(c, machineID); !ok {
		return
	}

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(machineID, req.Rate, req.Burst)

	common.GetLoggerWith(
		common.LoggerNameRestfulServer,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRateLimits),
	).Info("Machine limiter updated",
		zap.String("machine_id", machineID),
		zap.Float64("rate", req.Rate),
		zap.Int("burst", req.Burst),
	)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
