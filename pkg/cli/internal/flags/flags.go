// Package flags provides reusable flag types for CLI commands.
package flags

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getmockd/fireflow/pkg/cli/internal/parse"
)

// Headers is a repeatable "key:value" flag. Malformed values are rejected
// when the flag is parsed.
type Headers []string

// String returns the string representation of the flag value.
func (h *Headers) String() string {
	return strings.Join(*h, ",")
}

// Set validates and appends one header.
func (h *Headers) Set(value string) error {
	key, _, ok := parse.KeyValue(value, ':')
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("invalid header %q: expected key:value", value)
	}
	*h = append(*h, value)
	return nil
}

// Type specifies the type label for Cobra flags.
func (h *Headers) Type() string {
	return "header"
}

// Header returns the collected values as an http.Header.
func (h Headers) Header() http.Header {
	return parse.Header(h)
}
