package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/fireflow/pkg/cli/internal/output"
	"github.com/getmockd/fireflow/pkg/cliconfig"
)

var configYAML bool

// ConfigOutput is the JSON shape of `fireflow config`.
type ConfigOutput struct {
	ConfigFile string            `json:"configFile,omitempty"`
	Settings   []cliconfig.Entry `json:"settings"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display effective configuration",
	Long: `Display the effective configuration and where each value came from
(default, global, local, file, env or flag).

With --yaml the configuration is printed as a YAML document that can be
saved as .fireflowrc.yaml.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configYAML, "yaml", false, "Print the effective configuration as YAML")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if configYAML {
		shown := *cfg
		if shown.APIKey != "" {
			shown.APIKey = "********"
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(&shown)
	}

	entries := cfg.Entries()
	printResult(ConfigOutput{ConfigFile: cfg.ConfigFile, Settings: entries}, func() {
		if cfg.ConfigFile != "" {
			fmt.Printf("Config file: %s\n\n", cfg.ConfigFile)
		}
		tw := output.Table()
		fmt.Fprintf(tw, "KEY\tVALUE\tSOURCE\n")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
		}
		_ = tw.Flush()
	})
	return nil
}
