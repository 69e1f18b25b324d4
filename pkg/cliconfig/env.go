package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvBackend    = "FIREFLOW_BACKEND"
	EnvCollection = "FIREFLOW_COLLECTION"
	EnvDataFile   = "FIREFLOW_DATA_FILE"
	EnvDBURL      = "FIREFLOW_DB_URL"
	EnvAPIKey     = "FIREFLOW_API_KEY"
	EnvTimeout    = "FIREFLOW_TIMEOUT"
	EnvListen     = "FIREFLOW_LISTEN"
	EnvEmbeddedDB = "FIREFLOW_EMBEDDED_DB"
	EnvWSOrigin   = "FIREFLOW_WS_ORIGIN_CHECK"
	EnvLogLevel   = "FIREFLOW_LOG_LEVEL"
	EnvLogFormat  = "FIREFLOW_LOG_FORMAT"
	EnvJSON       = "FIREFLOW_JSON"
	EnvConfig     = "FIREFLOW_CONFIG"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	setString := func(env, key string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			cfg.Sources[key] = SourceEnv
		}
	}

	setString(EnvBackend, "backend", &cfg.Backend)
	setString(EnvCollection, "collection", &cfg.Collection)
	setString(EnvDataFile, "dataFile", &cfg.DataFile)
	setString(EnvDBURL, "dbUrl", &cfg.DBURL)
	setString(EnvAPIKey, "apiKey", &cfg.APIKey)
	setString(EnvListen, "listen", &cfg.Listen)
	setString(EnvLogLevel, "logLevel", &cfg.LogLevel)
	setString(EnvLogFormat, "logFormat", &cfg.LogFormat)

	// FIREFLOW_TIMEOUT
	if v := os.Getenv(EnvTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = timeout
			cfg.Sources["timeout"] = SourceEnv
		}
	}

	// FIREFLOW_EMBEDDED_DB
	if v := os.Getenv(EnvEmbeddedDB); v != "" {
		cfg.EmbeddedDB = parseBool(v)
		cfg.Sources["embeddedDb"] = SourceEnv
	}

	// FIREFLOW_WS_ORIGIN_CHECK
	if v := os.Getenv(EnvWSOrigin); v != "" {
		cfg.WSOriginCheck = parseBool(v)
		cfg.Sources["wsOriginCheck"] = SourceEnv
	}

	// FIREFLOW_JSON
	if v := os.Getenv(EnvJSON); v != "" {
		cfg.JSON = parseBool(v)
		cfg.Sources["json"] = SourceEnv
	}
}

func parseBool(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}
