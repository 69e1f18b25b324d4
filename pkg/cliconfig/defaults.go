package cliconfig

import "github.com/getmockd/fireflow/pkg/collection"

// DefaultBackend is the collection backend used when none is configured.
const DefaultBackend = BackendMemory

// DefaultCollection is the default collection name.
const DefaultCollection = "users"

// DefaultDataFile is the default file for the file backend.
const DefaultDataFile = "fireflow-data.json"

// DefaultTimeout is the default REST backend timeout in seconds.
const DefaultTimeout = 10

// DefaultListen is the default server listen address.
const DefaultListen = "127.0.0.1:4380"

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default log format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Backend:    DefaultBackend,
		Collection: DefaultCollection,
		DataFile:   DefaultDataFile,
		Timeout:    DefaultTimeout,
		FieldMap:   collection.DefaultFieldMap(),
		Listen:     DefaultListen,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		Sources:    make(map[string]string),
	}

	for _, key := range []string{
		"backend", "collection", "dataFile", "timeout", "fieldMap",
		"listen", "embeddedDb", "wsOriginCheck", "logLevel", "logFormat", "json",
	} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
