package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultKeyFileName is the default file name for storing the REST backend API key.
const DefaultKeyFileName = "api-key"

// GetAPIKeyFilePath returns the default path for the API key file.
// Location: $XDG_DATA_HOME/fireflow/api-key (or ~/.local/share/fireflow/api-key)
func GetAPIKeyFilePath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, GlobalConfigDir, DefaultKeyFileName)
}

// LoadAPIKeyFromPath loads the API key from a specific file path.
// A missing file yields an empty key and no error.
func LoadAPIKeyFromPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveAPIKey returns the REST backend API key, checking sources in
// priority order:
// 1. apiKey from flags, environment or config files
// 2. apiKeyFile, when configured
// 3. The default key file
// 4. Empty string (no auth header)
func (c *CLIConfig) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	if c.APIKeyFile != "" {
		return LoadAPIKeyFromPath(c.APIKeyFile)
	}
	return LoadAPIKeyFromPath(GetAPIKeyFilePath())
}
