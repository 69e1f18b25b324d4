// Package cli provides the command-line interface for fireflow.
//
// The cli package implements every fireflow command:
//   - serve: host the user form and list over HTTP and WebSocket
//   - ui: interactive terminal form and list
//   - list: print the users in the collection, optionally filtered
//   - add: create a user
//   - update: change a user's name and/or age
//   - delete: remove a user by ID
//   - watch: stream views from a running server
//   - health, stats: query a running server
//   - config: display effective configuration and where each value came from
//   - version: show fireflow version
//
// Every command reads the collection through the same controller the
// server uses, so one-shot commands follow the same validation, busy and
// refresh rules as the interactive surfaces.
package cli
