// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"net/http"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Header builds an http.Header from "key:value" strings. Values are
// trimmed; entries without a delimiter or with an empty key are skipped.
func Header(headers []string) http.Header {
	h := http.Header{}
	for _, raw := range headers {
		key, value, ok := KeyValue(raw, ':')
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		h.Add(key, strings.TrimSpace(value))
	}
	return h
}
