package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/pipeline"
	"liyu1981.xyz/agri-maintenance/pkg/predict"
)

// RestfulServer serves the engineered feature table and the pipeline run
// ledger. Table is loaded once at startup and never mutated. Predictor is
// trained on Table and may be nil when training failed.
type RestfulServer struct {
	Server           *gin.Engine
	Pipeline         *pipeline.Pipeline
	Table            *dataset.FeatureTable
	Predictor        *predict.Model
	RateLimiterStore *RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(machineID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(machineID)
}

func (rs *RestfulServer) CheckMachineLimiter(machineID string) bool {
	limiter := rs.GetLimiter(machineID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(machineID string, machineRate float64, machineBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(machineID, rate.Limit(machineRate), machineBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/machines", rs.GetMachines)
	rs.Server.GET("/failures/by-mode", rs.GetFailuresByMode)
	rs.Server.GET("/rul/histogram", rs.GetRULHistogram)
	rs.Server.GET("/runs", rs.GetRuns)

	machines := rs.Server.Group("/machines/:machine_id")
	{
		machines.GET("/summary", rs.GetMachineSummary)
		machines.GET("/predict", rs.GetMachinePrediction)
		machines.POST("/limiter", rs.PostLimiter)
	}
}
