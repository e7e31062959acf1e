// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the structured logger shared by every
// component of a run.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// Format selects the slog handler.
type Format string

const (
	// FormatAuto uses text on a terminal and JSON otherwise.
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	// Output receives log records. Defaults to os.Stderr.
	Output io.Writer

	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// Format defaults to FormatAuto.
	Format Format
}

// New creates a logger. With FormatAuto, records are human-readable
// text when Output is a terminal and JSON when it is piped or
// redirected (Actions runners, CI logs), so log processors can parse
// them.
//
// Callers scope the logger with run context via With():
//
//	logger := logging.New(options).With(
//	    "repository", config.Policy.Repository,
//	    "issue", config.IssueNumber,
//	)
func New(options Options) (*slog.Logger, error) {
	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	level, err := ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	format := options.Format
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if isTerminal(output) {
			format = FormatText
		}
	}

	switch format {
	case FormatText:
		return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want auto, text, or json)", format)
	}
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn, or error)", name)
	}
}

// IsTerminal reports whether w is a file descriptor attached to a
// terminal.
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
