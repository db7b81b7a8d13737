package config

import "os"

const (
	baseURLVar    = "GAMETRADE_BASE_URL"
	dataFolderVar = "GAMETRADE_DATA_DIR"
	logLevelVar   = "GAMETRADE_LOG_LEVEL"
	appNameVar    = "GAMETRADE_APP_NAME"
	envVar        = "GAMETRADE_ENV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "GameTrade")
}

func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "https://localhost:3000")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(dataFolderVar, "./data")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
