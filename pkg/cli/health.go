package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/fireflow/pkg/cli/internal/output"
)

var serverURL string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check if a fireflow server is healthy and reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base := resolveServerURL()
		client := NewServerClient(base, WithTimeout(time.Duration(cfg.Timeout)*time.Second))

		type healthResult struct {
			Status  string `json:"status"`
			URL     string `json:"url"`
			Version string `json:"version,omitempty"`
			Error   string `json:"error,omitempty"`
		}

		version, err := client.Health()
		if err != nil {
			printResult(healthResult{Status: "unhealthy", URL: base, Error: err.Error()}, func() {
				fmt.Fprintf(os.Stderr, "unhealthy: %s\n", FormatConnectionError(err))
			})
			return errors.New("server is not healthy")
		}

		printResult(healthResult{Status: "healthy", URL: base, Version: version}, func() {
			fmt.Printf("healthy (fireflow %s)\n", version)
		})
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics of a running fireflow server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewServerClient(resolveServerURL(), WithTimeout(time.Duration(cfg.Timeout)*time.Second))

		stats, err := client.GetStats()
		if err != nil {
			return errors.New(FormatConnectionError(err))
		}

		printResult(stats, func() {
			tw := output.Table()
			fmt.Fprintf(tw, "Uptime:\t%s\n", stats.Uptime)
			fmt.Fprintf(tw, "Users:\t%d\n", stats.Records)
			fmt.Fprintf(tw, "Watchers:\t%d\n", stats.WSClients)
			if m := stats.Collection; m != nil {
				fmt.Fprintf(tw, "Lists:\t%d\n", m.ListCount)
				fmt.Fprintf(tw, "Creates:\t%d\n", m.CreateCount)
				fmt.Fprintf(tw, "Updates:\t%d\n", m.UpdateCount)
				fmt.Fprintf(tw, "Deletes:\t%d\n", m.DeleteCount)
				fmt.Fprintf(tw, "Errors:\t%d\n", m.ErrorCount)
				fmt.Fprintf(tw, "Latency:\t%s\n", m.TotalLatency)
			}
			_ = tw.Flush()
		})
		return nil
	},
}

// resolveServerURL returns --url, or the configured listen address.
func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	return "http://" + cfg.Listen
}

func init() {
	for _, cmd := range []*cobra.Command{healthCmd, statsCmd} {
		cmd.Flags().StringVar(&serverURL, "url", "", "Server base URL (default: http://<listen>)")
		rootCmd.AddCommand(cmd)
	}
}
