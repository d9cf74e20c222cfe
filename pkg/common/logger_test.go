package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/agri-maintenance/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNamePipeline, zap.String(LoggerFieldCategory, LoggerCategoryClean))
	logger.Info("Null count per column", zap.Int("motor_temp", 3))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Null count per column") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
	assert.Contains(t, logOutput, `"logger":"pipeline"`)
	assert.Contains(t, logOutput, `"category":"clean"`)
}

func TestLoggingCaptureRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.WarnLevel)

	GetLogger().Info("should be dropped")
	GetLogger().Warn("should be kept")

	assert.NotContains(t, buf.String(), "should be dropped")
	assert.Contains(t, buf.String(), "should be kept")
}
