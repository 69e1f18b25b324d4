package cliconfig

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
)

// MaxTimeout is the largest accepted REST timeout in seconds.
const MaxTimeout = 3600

// Validate checks the configuration for consistency.
func (c *CLIConfig) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("backend %q is not supported (use one of: %s)", c.Backend, strings.Join(Backends, ", "))
	}
	if c.Collection == "" {
		return fmt.Errorf("collection name is required")
	}
	if strings.ContainsAny(c.Collection, "/ ") {
		return fmt.Errorf("collection %q must not contain slashes or spaces", c.Collection)
	}

	switch c.Backend {
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("dataFile is required for the file backend")
		}
	case BackendREST:
		if c.DBURL == "" {
			return fmt.Errorf("dbUrl is required for the rest backend")
		}
		u, err := url.Parse(c.DBURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("dbUrl %q must be an http or https URL", c.DBURL)
		}
	}

	if c.Timeout < 0 || c.Timeout > MaxTimeout {
		return fmt.Errorf("timeout %d is out of range (0-%d)", c.Timeout, MaxTimeout)
	}

	if c.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Listen); err != nil {
			return fmt.Errorf("listen address %q is invalid: %w", c.Listen, err)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel %q is not supported (use debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not supported (use text or json)", c.LogFormat)
	}

	return nil
}
