package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CLIConfig)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*CLIConfig) {},
			wantErr: "",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *CLIConfig) { c.Backend = "firestore" },
			wantErr: `backend "firestore" is not supported`,
		},
		{
			name:    "empty collection",
			mutate:  func(c *CLIConfig) { c.Collection = "" },
			wantErr: "collection name is required",
		},
		{
			name:    "collection with slash",
			mutate:  func(c *CLIConfig) { c.Collection = "a/b" },
			wantErr: "must not contain slashes",
		},
		{
			name: "file backend without data file",
			mutate: func(c *CLIConfig) {
				c.Backend = BackendFile
				c.DataFile = ""
			},
			wantErr: "dataFile is required",
		},
		{
			name:    "rest backend without url",
			mutate:  func(c *CLIConfig) { c.Backend = BackendREST },
			wantErr: "dbUrl is required",
		},
		{
			name: "rest backend with bad url",
			mutate: func(c *CLIConfig) {
				c.Backend = BackendREST
				c.DBURL = "ftp://example.com"
			},
			wantErr: "must be an http or https URL",
		},
		{
			name: "rest backend valid",
			mutate: func(c *CLIConfig) {
				c.Backend = BackendREST
				c.DBURL = "http://localhost:4380/db/users"
			},
			wantErr: "",
		},
		{
			name:    "timeout too high",
			mutate:  func(c *CLIConfig) { c.Timeout = 9999 },
			wantErr: "timeout 9999 is out of range",
		},
		{
			name:    "bad listen address",
			mutate:  func(c *CLIConfig) { c.Listen = "localhost" },
			wantErr: "listen address",
		},
		{
			name:    "bad log level",
			mutate:  func(c *CLIConfig) { c.LogLevel = "loud" },
			wantErr: `logLevel "loud"`,
		},
		{
			name:    "bad log format",
			mutate:  func(c *CLIConfig) { c.LogFormat = "xml" },
			wantErr: `logFormat "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
			}
		})
	}
}

func TestMergeConfig_BasicFields(t *testing.T) {
	t.Run("merges non-zero values", func(t *testing.T) {
		target := NewDefault()
		source := &CLIConfig{
			Backend:   BackendREST,
			DBURL:     "http://db:4380/db/users",
			SetFields: map[string]bool{"backend": true, "dbUrl": true},
		}

		MergeConfig(target, source, SourceLocal)

		if target.Backend != BackendREST {
			t.Errorf("expected backend rest, got %q", target.Backend)
		}
		if target.DBURL != "http://db:4380/db/users" {
			t.Errorf("expected custom db URL, got %q", target.DBURL)
		}
		if target.Sources["backend"] != SourceLocal {
			t.Errorf("expected source 'local', got %q", target.Sources["backend"])
		}
		if target.Collection != DefaultCollection {
			t.Errorf("expected collection to keep default, got %q", target.Collection)
		}
	})

	t.Run("field map entries merge individually", func(t *testing.T) {
		target := NewDefault()
		source := &CLIConfig{}
		source.FieldMap.Age = "$.profile.age"

		MergeConfig(target, source, SourceGlobal)

		if target.FieldMap.Name != "$.name" {
			t.Errorf("expected default name path, got %q", target.FieldMap.Name)
		}
		if target.FieldMap.Age != "$.profile.age" {
			t.Errorf("expected nested age path, got %q", target.FieldMap.Age)
		}
	})

	t.Run("handles boolean false with SetFields", func(t *testing.T) {
		target := NewDefault()
		target.EmbeddedDB = true

		source := &CLIConfig{
			EmbeddedDB: false,
			SetFields:  map[string]bool{"embeddedDb": true},
		}

		MergeConfig(target, source, SourceLocal)

		if target.EmbeddedDB {
			t.Error("expected embeddedDb to be false after merge")
		}
	})

	t.Run("does not merge boolean false without SetFields", func(t *testing.T) {
		target := NewDefault()
		target.JSON = true

		MergeConfig(target, &CLIConfig{}, SourceLocal)

		if !target.JSON {
			t.Error("expected json to remain true without SetFields")
		}
	})

	t.Run("nil source is no-op", func(t *testing.T) {
		target := NewDefault()

		MergeConfig(target, nil, SourceLocal)

		if target.Backend != DefaultBackend {
			t.Errorf("expected backend unchanged, got %q", target.Backend)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, dir, "valid.yaml", `
backend: file
dataFile: /tmp/users.json
embeddedDb: false
fieldMap:
  name: $.profile.name
seed:
  - id: "1"
    name: Ann
    age: "30"
`)
		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Backend != BackendFile || cfg.DataFile != "/tmp/users.json" {
			t.Errorf("unexpected backend settings: %+v", cfg)
		}
		if !cfg.SetFields["embeddedDb"] {
			t.Error("expected embeddedDb to be marked as set")
		}
		if cfg.SetFields["json"] {
			t.Error("expected json to be unset")
		}
		if cfg.FieldMap.Name != "$.profile.name" || cfg.FieldMap.Age != "" {
			t.Errorf("unexpected field map: %+v", cfg.FieldMap)
		}
		if len(cfg.Seed) != 1 || cfg.Seed[0]["name"] != "Ann" {
			t.Errorf("unexpected seed: %v", cfg.Seed)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yaml", "")
		cfg, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Backend != "" {
			t.Errorf("expected empty backend, got %q", cfg.Backend)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "backend: [file\n")
		_, err := LoadConfigFile(path)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if cerr.Path != path {
			t.Errorf("expected path %q, got %q", path, cerr.Path)
		}
	})

	t.Run("not a mapping", func(t *testing.T) {
		path := writeFile(t, dir, "list.yaml", "- a\n- b\n")
		_, err := LoadConfigFile(path)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if cerr.Line != 1 {
			t.Errorf("expected line 1, got %d", cerr.Line)
		}
		if !strings.Contains(err.Error(), "(line 1, column 1)") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("type error", func(t *testing.T) {
		path := writeFile(t, dir, "type.yaml", "timeout: soon\n")
		_, err := LoadConfigFile(path)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(dir, "nope.yaml"))
		if !os.IsNotExist(err) {
			t.Errorf("expected not-exist error, got %v", err)
		}
	})
}

func TestLoadAll_Precedence(t *testing.T) {
	configHome := t.TempDir()
	workDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", configHome)
	for _, env := range []string{EnvBackend, EnvCollection, EnvDataFile, EnvDBURL, EnvAPIKey,
		EnvTimeout, EnvListen, EnvEmbeddedDB, EnvWSOrigin, EnvLogLevel, EnvLogFormat, EnvJSON, EnvConfig} {
		t.Setenv(env, "")
	}
	t.Chdir(workDir)

	writeFile(t, filepath.Join(configHome, GlobalConfigDir), "config.yaml", `
collection: people
logLevel: debug
timeout: 20
`)
	writeFile(t, workDir, ".fireflowrc.yaml", `
collection: staff
listen: 127.0.0.1:9000
`)
	explicit := writeFile(t, workDir, "explicit.yaml", `
listen: 127.0.0.1:9100
`)
	t.Setenv(EnvTimeout, "45")

	cfg, err := LoadAll(explicit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		key, got, want, source string
	}{
		{"logLevel", cfg.LogLevel, "debug", SourceGlobal},
		{"collection", cfg.Collection, "staff", SourceLocal},
		{"listen", cfg.Listen, "127.0.0.1:9100", SourceFile},
		{"backend", cfg.Backend, DefaultBackend, SourceDefault},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %q, got %q", c.key, c.want, c.got)
		}
		if cfg.Sources[c.key] != c.source {
			t.Errorf("%s: expected source %q, got %q", c.key, c.source, cfg.Sources[c.key])
		}
	}
	if cfg.Timeout != 45 || cfg.Sources["timeout"] != SourceEnv {
		t.Errorf("expected timeout 45 from env, got %d from %q", cfg.Timeout, cfg.Sources["timeout"])
	}
	if cfg.ConfigFile != explicit {
		t.Errorf("expected config file %q, got %q", explicit, cfg.ConfigFile)
	}
}

func TestLoadAll_InvalidLocalFile(t *testing.T) {
	workDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfig, "")
	t.Chdir(workDir)
	writeFile(t, workDir, ".fireflowrc.yaml", "backend: [\n")

	_, err := LoadAll("")
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv(EnvBackend, "rest")
	t.Setenv(EnvDBURL, "http://db/users")
	t.Setenv(EnvEmbeddedDB, "yes")
	t.Setenv(EnvWSOrigin, "true")
	t.Setenv(EnvTimeout, "not-a-number")

	cfg := NewDefault()
	LoadEnvConfig(cfg)

	if cfg.Backend != BackendREST || cfg.Sources["backend"] != SourceEnv {
		t.Errorf("expected backend from env, got %q (%s)", cfg.Backend, cfg.Sources["backend"])
	}
	if cfg.DBURL != "http://db/users" {
		t.Errorf("unexpected db URL %q", cfg.DBURL)
	}
	if !cfg.EmbeddedDB {
		t.Error("expected embeddedDb true")
	}
	if !cfg.WSOriginCheck || cfg.Sources["wsOriginCheck"] != SourceEnv {
		t.Errorf("expected wsOriginCheck true from env, got %v (%s)", cfg.WSOriginCheck, cfg.Sources["wsOriginCheck"])
	}
	if cfg.Timeout != DefaultTimeout || cfg.Sources["timeout"] != SourceDefault {
		t.Errorf("invalid timeout must be ignored, got %d", cfg.Timeout)
	}
}

func TestLoadConfigFile_WSOriginCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "wsOriginCheck: true\n")

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := NewDefault()
	MergeConfig(cfg, loaded, SourceFile)
	if !cfg.WSOriginCheck || cfg.Sources["wsOriginCheck"] != SourceFile {
		t.Errorf("expected wsOriginCheck true from file, got %v (%s)", cfg.WSOriginCheck, cfg.Sources["wsOriginCheck"])
	}

	off := writeFile(t, dir, "off.yaml", "wsOriginCheck: false\n")
	loaded, err = LoadConfigFile(off)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	MergeConfig(cfg, loaded, SourceLocal)
	if cfg.WSOriginCheck || cfg.Sources["wsOriginCheck"] != SourceLocal {
		t.Errorf("explicit false must override, got %v (%s)", cfg.WSOriginCheck, cfg.Sources["wsOriginCheck"])
	}
}

func TestResolveAPIKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := NewDefault()
	key, err := cfg.ResolveAPIKey()
	if err != nil || key != "" {
		t.Fatalf("expected no key, got %q, %v", key, err)
	}

	writeFile(t, filepath.Join(dir, GlobalConfigDir), DefaultKeyFileName, "  from-default-file\n")
	key, _ = cfg.ResolveAPIKey()
	if key != "from-default-file" {
		t.Errorf("expected key from default file, got %q", key)
	}

	cfg.APIKeyFile = writeFile(t, dir, "custom-key", "from-custom-file")
	key, _ = cfg.ResolveAPIKey()
	if key != "from-custom-file" {
		t.Errorf("expected key from custom file, got %q", key)
	}

	cfg.APIKey = "explicit"
	key, _ = cfg.ResolveAPIKey()
	if key != "explicit" {
		t.Errorf("expected explicit key, got %q", key)
	}
}

func TestEntries_MasksAPIKey(t *testing.T) {
	cfg := NewDefault()
	cfg.APIKey = "secret"
	cfg.SetFromFlag("backend")

	var sawKey, sawBackend bool
	for _, e := range cfg.Entries() {
		switch e.Key {
		case "apiKey":
			sawKey = true
			if e.Value == "secret" {
				t.Error("api key must be masked")
			}
		case "backend":
			sawBackend = true
			if e.Source != SourceFlag {
				t.Errorf("expected flag source, got %q", e.Source)
			}
		}
	}
	if !sawKey || !sawBackend {
		t.Error("expected apiKey and backend entries")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
