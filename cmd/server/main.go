package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"liyu1981.xyz/agri-maintenance/pkg/common"
	"liyu1981.xyz/agri-maintenance/pkg/config"
	"liyu1981.xyz/agri-maintenance/pkg/dataset"
	"liyu1981.xyz/agri-maintenance/pkg/db"
	pdmHttp "liyu1981.xyz/agri-maintenance/pkg/http"
	"liyu1981.xyz/agri-maintenance/pkg/pipeline"
	"liyu1981.xyz/agri-maintenance/pkg/predict"
)

func main() {
	logger := common.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	dialector, ok := db.UseDialector(cfg.DBType)
	if !ok {
		log.Fatal("Unknown PDM_DB_TYPE: " + cfg.DBType)
	}
	dbInstance := db.GetInstance(dialector)

	p := &pipeline.Pipeline{Db: *dbInstance}
	p.WithDefaultServices()

	rs := &pdmHttp.RestfulServer{
		Server:           gin.Default(),
		Pipeline:         p,
		RateLimiterStore: pdmHttp.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst),
	}

	if f, err := os.Open(cfg.FeaturesPath); err != nil {
		logger.Warn("Feature table not found, data endpoints will return 503 until the pipeline has run",
			zap.String("path", cfg.FeaturesPath))
	} else {
		rs.Table, err = dataset.ReadFeatureTable(f)
		f.Close()
		if err != nil {
			log.Fatalf("failed to load feature table %s: %v", cfg.FeaturesPath, err)
		}
		logger.Info("Feature table loaded",
			zap.String("path", cfg.FeaturesPath),
			zap.Int("rows", rs.Table.Len()),
			zap.Int("columns", len(rs.Table.Columns)),
		)

		if rs.Predictor, err = predict.Train(rs.Table, predict.DefaultOptions()); err != nil {
			logger.Warn("Prediction model not trained, /predict will return 503", zap.Error(err))
		}
	}

	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst)))

	logger.Info("Starting HTTP server on: " + cfg.HTTPHostPort)
	if err := rs.Server.Run(cfg.HTTPHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
