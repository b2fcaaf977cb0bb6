// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 asaforge Authors

package util

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// InitLogger initializes the global logger with appropriate log level.
// Set ASAFORGE_DEBUG=1 environment variable to enable debug logging.
func InitLogger() {
	level := slog.LevelInfo

	if os.Getenv("ASAFORGE_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	Logger = slog.New(handler)
}

func init() {
	InitLogger()
}

// Debug logs a debug message (only shown when ASAFORGE_DEBUG is set)
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
