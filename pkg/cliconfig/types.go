// Package cliconfig provides configuration types and loading for the fireflow CLI.
package cliconfig

import "github.com/getmockd/fireflow/pkg/collection"

// CLIConfig represents the complete configuration for the fireflow CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Explicit config file (--config or FIREFLOW_CONFIG)
// 4. Local config file (.fireflowrc.yaml in current directory)
// 5. Global config file (~/.config/fireflow/config.yaml)
// 6. Default values (lowest priority)
type CLIConfig struct {
	// Collection backend
	Backend    string              `yaml:"backend" json:"backend"`
	Collection string              `yaml:"collection" json:"collection"`
	DataFile   string              `yaml:"dataFile,omitempty" json:"dataFile,omitempty"`
	DBURL      string              `yaml:"dbUrl,omitempty" json:"dbUrl,omitempty"`
	APIKey     string              `yaml:"apiKey,omitempty" json:"-"`
	APIKeyFile string              `yaml:"apiKeyFile,omitempty" json:"apiKeyFile,omitempty"`
	Timeout    int                 `yaml:"timeout" json:"timeout"`
	FieldMap   collection.FieldMap `yaml:"fieldMap" json:"fieldMap"`

	// Seed documents for the memory backend
	Seed []map[string]any `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Server settings
	Listen     string `yaml:"listen" json:"listen"`
	EmbeddedDB bool   `yaml:"embeddedDb" json:"embeddedDb"`
	// WSOriginCheck rejects WebSocket upgrades from other origins.
	WSOriginCheck bool `yaml:"wsOriginCheck" json:"wsOriginCheck"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// ConfigFile is the explicit config file, if any.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Source tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the top-level keys present in a loaded file so
	// explicit false and empty values can be told apart from absent ones.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendREST   = "rest"
)

// Backends lists the supported backends.
var Backends = []string{BackendMemory, BackendFile, BackendREST}
