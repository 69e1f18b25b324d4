package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/fireflow/pkg/cliconfig"
	"github.com/getmockd/fireflow/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath    string
	backendFlag   string
	dataFileFlag  string
	dbURLFlag     string
	apiKeyFlag    string
	collFlag      string
	logLevelFlag  string
	logFormatFlag string
	jsonOutput    bool

	// cfg is the effective configuration, loaded before every command.
	cfg *cliconfig.CLIConfig

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fireflow",
	Short: "fireflow manages a list of users through a form backed by a document collection",
	Long: `fireflow is a form-and-list client for a collection of user documents.
Each user has a name and an age. Users can be created, edited and deleted;
after every change the list is re-fetched from the collection.

The collection can live in memory, in a JSON file, or behind a REST document
API (including another "fireflow serve --embedded-db").

Configuration can be provided via flags, environment variables (FIREFLOW_*),
a local .fireflowrc.yaml, or ~/.config/fireflow/config.yaml.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(Main())
}

// Main runs the root command and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: .fireflowrc.yaml, then ~/.config/fireflow/config.yaml)")
	pf.StringVar(&backendFlag, "backend", cliconfig.DefaultBackend, "Collection backend: memory, file or rest")
	pf.StringVar(&dataFileFlag, "data-file", cliconfig.DefaultDataFile, "Data file for the file backend")
	pf.StringVar(&dbURLFlag, "db-url", "", "Collection URL for the rest backend (e.g. http://localhost:4380/db/users)")
	pf.StringVar(&apiKeyFlag, "api-key", "", "API key sent to the rest backend")
	pf.StringVar(&collFlag, "collection", cliconfig.DefaultCollection, "Collection name")
	pf.StringVar(&logLevelFlag, "log-level", cliconfig.DefaultLogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&logFormatFlag, "log-format", cliconfig.DefaultLogFormat, "Log format: text or json")
	pf.BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}

// loadConfig resolves the effective configuration: files and environment
// first, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := cliconfig.LoadAll(configPath)
	if err != nil {
		var cerr *cliconfig.ConfigError
		if errors.As(err, &cerr) {
			return fmt.Errorf("invalid config file: %w", err)
		}
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	applyString(flags, loaded, "backend", "backend", &loaded.Backend, backendFlag)
	applyString(flags, loaded, "data-file", "dataFile", &loaded.DataFile, dataFileFlag)
	applyString(flags, loaded, "db-url", "dbUrl", &loaded.DBURL, dbURLFlag)
	applyString(flags, loaded, "api-key", "apiKey", &loaded.APIKey, apiKeyFlag)
	applyString(flags, loaded, "collection", "collection", &loaded.Collection, collFlag)
	applyString(flags, loaded, "log-level", "logLevel", &loaded.LogLevel, logLevelFlag)
	applyString(flags, loaded, "log-format", "logFormat", &loaded.LogFormat, logFormatFlag)
	if flags.Changed("json") {
		loaded.JSON = jsonOutput
		loaded.SetFromFlag("json")
	}
	jsonOutput = loaded.JSON

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

func applyString(flags *pflag.FlagSet, c *cliconfig.CLIConfig, flag, key string, dst *string, value string) {
	if flags.Changed(flag) {
		*dst = value
		c.SetFromFlag(key)
	}
}

// newLogger builds the command logger. Logs go to stderr so stdout stays
// clean for --json output.
func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: os.Stderr,
	})
}
