package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/fireflow/pkg/logging"
	"github.com/getmockd/fireflow/pkg/server"
)

var (
	serveListen     string
	serveEmbeddedDB bool
	serveWSOrigin   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the user form and list over HTTP",
	Long: `Serve the user form and list over HTTP and WebSocket.

All clients share one form and one list. The JSON API lives under /api,
views stream over /api/ws, and with --embedded-db the collection itself is
served in the REST document dialect under /db/<collection>.`,
	Example: `  # Serve an in-memory collection and expose it to other instances
  fireflow serve --embedded-db

  # Serve a JSON file on another port
  fireflow serve --backend file --data-file users.json --listen 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default: 127.0.0.1:4380)")
	serveCmd.Flags().BoolVar(&serveEmbeddedDB, "embedded-db", false, "Also serve the collection under /db/<collection>")
	serveCmd.Flags().BoolVar(&serveWSOrigin, "ws-origin-check", false, "Reject WebSocket connections from other origins")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("listen") {
		cfg.Listen = serveListen
		cfg.SetFromFlag("listen")
	}
	if cmd.Flags().Changed("embedded-db") {
		cfg.EmbeddedDB = serveEmbeddedDB
		cfg.SetFromFlag("embeddedDb")
	}
	if cmd.Flags().Changed("ws-origin-check") {
		cfg.WSOriginCheck = serveWSOrigin
		cfg.SetFromFlag("wsOriginCheck")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	ctrl, err := newController(ctx, cfg, b, log)
	if ctrl == nil {
		return err
	}
	if err != nil {
		// A collection that is down at startup is reported in the view
		// and retried by the next refresh.
		log.Warn("initial fetch failed", "error", err)
	}

	opts := []server.Option{
		server.WithLogger(logging.Component(log, "server")),
		server.WithMetrics(b.metrics),
		server.WithVersion(Version),
	}
	if cfg.EmbeddedDB {
		opts = append(opts, server.WithEmbeddedDB(cfg.Collection, b.raw))
	}
	if cfg.WSOriginCheck {
		opts = append(opts, server.WithOriginCheck())
	}
	srv, err := server.New(cfg.Listen, ctrl, opts...)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Listen, err)
	}

	addr := ln.Addr().String()
	printResult(map[string]string{"url": "http://" + addr, "collection": cfg.Collection, "backend": cfg.Backend}, func() {
		fmt.Printf("fireflow serving %s (%s backend) on http://%s\n", cfg.Collection, cfg.Backend, addr)
		if cfg.EmbeddedDB {
			fmt.Printf("Collection API: http://%s/db/%s\n", addr, cfg.Collection)
		}
		fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop")
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
