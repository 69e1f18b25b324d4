package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/getmockd/fireflow/pkg/cli/internal/flags"
	"github.com/getmockd/fireflow/pkg/cli/internal/output"
	"github.com/getmockd/fireflow/pkg/userui"
)

var (
	watchHeaders flags.Headers
	watchTimeout time.Duration
	watchCount   int
)

var watchCmd = &cobra.Command{
	Use:   "watch <url>",
	Short: "Stream views from a running fireflow server",
	Long: `Connect to a running "fireflow serve" and print every view it publishes.

The URL may be the server base URL (http://host:port) or the WebSocket
endpoint itself (ws://host:port/api/ws).`,
	Example: `  fireflow watch http://127.0.0.1:4380
  fireflow watch ws://127.0.0.1:4380/api/ws -n 1 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().VarP(&watchHeaders, "header", "H", "Custom headers (key:value), repeatable")
	watchCmd.Flags().DurationVarP(&watchTimeout, "timeout", "t", 10*time.Second, "Connection timeout")
	watchCmd.Flags().IntVarP(&watchCount, "count", "n", 0, "Number of views to print (0 = until interrupted)")
}

// wsURL turns a server base URL into its view stream URL.
func wsURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid url %q: scheme must be http, https, ws or wss", raw)
	}
	if !strings.HasSuffix(u.Path, "/api/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/api/ws"
	}
	return u.String(), nil
}

func runWatch(_ *cobra.Command, args []string) error {
	target, err := wsURL(args[0])
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: watchTimeout,
	}
	conn, resp, err := dialer.Dial(target, watchHeaders.Header())
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %w (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	var interrupted atomic.Bool
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
		case <-done:
			return
		}
		interrupted.Store(true)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for received := 0; watchCount == 0 || received < watchCount; received++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if interrupted.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		var v userui.View
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("invalid view: %w", err)
		}
		if jsonOutput {
			_ = output.JSONLine(v)
		} else {
			fmt.Println(summarizeView(v))
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}

// summarizeView renders a view as one line.
func summarizeView(v userui.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] mode=%s users=%d", time.Now().Format("15:04:05"), v.Mode, len(v.Records))
	if v.Loading {
		b.WriteString(" loading")
	}
	if v.Form.Editing() {
		fmt.Fprintf(&b, " editing=%s", v.Form.EditTarget)
	}
	if v.Form.Name != "" || v.Form.Age != "" {
		fmt.Fprintf(&b, " form=%q/%q", v.Form.Name, v.Form.Age)
	}
	if v.DeletingID != "" {
		fmt.Fprintf(&b, " deleting=%s", v.DeletingID)
	}
	if v.Error != "" {
		fmt.Fprintf(&b, " error=%q", v.Error)
	}
	return b.String()
}
