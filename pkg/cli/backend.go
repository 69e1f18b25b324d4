package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/fireflow/pkg/cliconfig"
	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/collection/file"
	"github.com/getmockd/fireflow/pkg/collection/rest"
	"github.com/getmockd/fireflow/pkg/logging"
	"github.com/getmockd/fireflow/pkg/userui"
)

// backend is an opened collection plus its metrics.
type backend struct {
	// raw is the unwrapped collection, served by --embedded-db.
	raw collection.Collection
	// coll reports every call to metrics.
	coll    collection.Collection
	metrics *collection.MetricsObserver
}

// openBackend opens the configured collection.
func openBackend(ctx context.Context, c *cliconfig.CLIConfig, log *slog.Logger) (*backend, error) {
	var raw collection.Collection

	switch c.Backend {
	case cliconfig.BackendMemory:
		mem, err := collection.NewMemory(c.Collection, collection.WithSeed(c.Seed...))
		if err != nil {
			return nil, fmt.Errorf("memory backend: %w", err)
		}
		raw = mem

	case cliconfig.BackendFile:
		store := file.New(file.Config{Path: c.DataFile, Name: c.Collection}, logging.Component(log, "file"))
		if err := store.Open(ctx); err != nil {
			return nil, fmt.Errorf("file backend: %w", err)
		}
		raw = store

	case cliconfig.BackendREST:
		apiKey, err := c.ResolveAPIKey()
		if err != nil {
			return nil, fmt.Errorf("reading API key: %w", err)
		}
		opts := []rest.Option{rest.WithTimeout(time.Duration(c.Timeout) * time.Second)}
		if apiKey != "" {
			opts = append(opts, rest.WithAPIKey(apiKey))
		}
		raw = rest.New(c.DBURL, c.Collection, opts...)

	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	metrics := collection.NewMetricsObserver()
	return &backend{
		raw:     raw,
		coll:    collection.NewObserved(raw, c.Collection, metrics, logging.Component(log, "collection")),
		metrics: metrics,
	}, nil
}

// newController builds a controller over b and performs the initial fetch.
// The controller is returned even when that fetch fails.
func newController(ctx context.Context, c *cliconfig.CLIConfig, b *backend, log *slog.Logger) (*userui.Controller, error) {
	mapper, err := collection.NewMapper(c.FieldMap)
	if err != nil {
		return nil, fmt.Errorf("field map: %w", err)
	}

	ctrl := userui.New(b.coll,
		userui.WithMapper(mapper),
		userui.WithLogger(logging.Component(log, "controller")),
		userui.WithResource(c.Collection),
	)
	if err := ctrl.Init(ctx); err != nil {
		return ctrl, fmt.Errorf("loading %s: %w", c.Collection, err)
	}
	return ctrl, nil
}

// openController opens the backend and the controller in one step for
// one-shot commands.
func openController(ctx context.Context) (*userui.Controller, error) {
	log := newLogger()
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return newController(ctx, cfg, b, log)
}
