// Package shared holds setup helpers used by every fairdice subcommand.
package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a logger for the CLI. Game output goes to stdout, so
// logs go to stderr at warn level, or debug with debug set. A non-empty
// file sends logs there instead; the returned closer must be called.
func SetupLogger(debug bool, file string) (*log.Logger, io.Closer, error) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
		if !debug {
			level = log.InfoLevel
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "fairdice",
		Level:           level,
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
