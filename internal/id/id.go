// Package id provides identifier generation for documents created by
// collections that do not receive ids from a remote store.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// UUID generates a random (version 4) UUID in canonical string form.
func UUID() string {
	return uuid.NewString()
}

// Short generates a 16 character hex id derived from a random UUID.
// Suitable for user-facing ids where brevity matters.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
