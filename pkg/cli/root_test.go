package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/fireflow/pkg/cliconfig"
)

// isolateConfig points config discovery at empty directories and clears
// FIREFLOW_* variables.
func isolateConfig(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_DATA_HOME", home)
	t.Setenv("HOME", home)
	for _, env := range []string{cliconfig.EnvBackend, cliconfig.EnvCollection, cliconfig.EnvDataFile,
		cliconfig.EnvDBURL, cliconfig.EnvAPIKey, cliconfig.EnvTimeout, cliconfig.EnvListen,
		cliconfig.EnvEmbeddedDB, cliconfig.EnvWSOrigin, cliconfig.EnvLogLevel, cliconfig.EnvLogFormat, cliconfig.EnvJSON,
		cliconfig.EnvConfig} {
		t.Setenv(env, "")
	}
	work := t.TempDir()
	t.Chdir(work)

	oldCfg, oldJSON, oldPath := cfg, jsonOutput, configPath
	t.Cleanup(func() { cfg, jsonOutput, configPath = oldCfg, oldJSON, oldPath })
	configPath = ""
	return work
}

// rootFlagsCmd returns the root command with every flag reset and the
// persistent flags merged into its flag set.
func rootFlagsCmd(t *testing.T) *cobra.Command {
	t.Helper()
	_ = rootCmd.LocalFlags()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	return rootCmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateConfig(t)
	cmd := rootFlagsCmd(t)

	if err := loadConfig(cmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != cliconfig.BackendMemory || cfg.Collection != "users" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Sources["backend"] != cliconfig.SourceDefault {
		t.Errorf("backend source = %q, want default", cfg.Sources["backend"])
	}
}

func TestLoadConfig_FlagOverridesEnvAndFile(t *testing.T) {
	work := isolateConfig(t)
	cmd := rootFlagsCmd(t)

	if err := os.WriteFile(filepath.Join(work, ".fireflowrc.yaml"), []byte("backend: file\ndataFile: from-file.json\ncollection: staff\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(cliconfig.EnvDataFile, "from-env.json")
	setFlag(t, cmd, "data-file", "from-flag.json")

	if err := loadConfig(cmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		key, got, want, source string
	}{
		{"backend", cfg.Backend, "file", cliconfig.SourceLocal},
		{"collection", cfg.Collection, "staff", cliconfig.SourceLocal},
		{"dataFile", cfg.DataFile, "from-flag.json", cliconfig.SourceFlag},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.key, c.got, c.want)
		}
		if cfg.Sources[c.key] != c.source {
			t.Errorf("%s source = %q, want %q", c.key, cfg.Sources[c.key], c.source)
		}
	}
}

func TestLoadConfig_JSONFromEnv(t *testing.T) {
	isolateConfig(t)
	cmd := rootFlagsCmd(t)
	t.Setenv(cliconfig.EnvJSON, "true")

	if err := loadConfig(cmd, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !jsonOutput {
		t.Error("FIREFLOW_JSON=true should enable JSON output")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		flag string
		val  string
		want string
	}{
		{name: "unknown backend", flag: "backend", val: "sqlite", want: "invalid configuration"},
		{name: "rest without url", flag: "backend", val: "rest", want: "invalid configuration"},
		{name: "bad log level", flag: "log-level", val: "loud", want: "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			cmd := rootFlagsCmd(t)
			setFlag(t, cmd, tt.flag, tt.val)

			err := loadConfig(cmd, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	work := isolateConfig(t)
	cmd := rootFlagsCmd(t)
	if err := os.WriteFile(filepath.Join(work, ".fireflowrc.yaml"), []byte("backend: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := loadConfig(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid config file") {
		t.Fatalf("expected invalid config file error, got %v", err)
	}
}
