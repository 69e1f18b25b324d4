// Package logging provides structured logging configuration for fireflow.
//
// This package wraps log/slog so that the controller, the collections and
// the HTTP server all log the same way. It supports configurable log levels
// and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "addr", ":4380")
//	logger.Error("refresh failed", "error", err)
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, they use logging.Nop().
package logging
