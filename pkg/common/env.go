package common

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadDotEnv loads .env (or the given files) into the process environment and
// only then builds the global logger, which reads PDM_LOG_* and GO_ENV once.
// Variables already set in the environment win over the file.
func LoadDotEnv(filenames ...string) *zap.Logger {
	err := godotenv.Load(filenames...)

	logger := GetLogger()
	if err != nil {
		logger.Warn("No .env file loaded, using process environment and defaults", zap.Error(err))
	}
	return logger
}
