package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyPDMDBType string = "PDM_DB_TYPE"
	EnvKeyPDMDbPath string = "PDM_DB_PATH"

	EnvKeyPDMRawPath           string = "PDM_RAW_PATH"
	EnvKeyPDMCleanedPath       string = "PDM_CLEANED_PATH"
	EnvKeyPDMFeaturesPath      string = "PDM_FEATURES_PATH"
	EnvKeyPDMReportPath        string = "PDM_REPORT_PATH"
	EnvKeyPDMFeatureConfigPath string = "PDM_FEATURE_CONFIG"

	EnvKeyPDMSynthMachines string = "PDM_SYNTH_MACHINES"
	EnvKeyPDMSynthMinutes  string = "PDM_SYNTH_MINUTES"
	EnvKeyPDMSynthSeed     string = "PDM_SYNTH_SEED"

	EnvKeyPDMHttpHostPort string = "PDM_HTTP_HOST_PORT"

	EnvKeyPDMLogDir       string = "PDM_LOG_DIR"
	EnvKeyPDMLogMaxSizeMB string = "PDM_LOG_MAX_SIZE_MB"

	EnvKeyPDMDefaultRate  string = "PDM_DEFAULT_RATE"
	EnvKeyPDMDefaultBurst string = "PDM_DEFAULT_BURST"

	LoggerNamePipeline       string = "pipeline"
	LoggerNameRestfulServer  string = "restful_server"
	LoggerFieldCategory      string = "category"
	LoggerCategoryGenerate   string = "generate"
	LoggerCategoryClean      string = "clean"
	LoggerCategoryFeatures   string = "features"
	LoggerCategoryReport     string = "report"
	LoggerCategoryRuns       string = "runs"
	LoggerCategoryDashboard  string = "dashboard"
	LoggerCategoryRateLimits string = "limiter"
	LoggerCategoryPredict    string = "predict"
)
