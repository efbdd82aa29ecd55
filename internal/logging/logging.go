// Package logging configures zerolog for the installer. Diagnostic logs go to
// stderr and to a JSON log file under the XDG state directory; the progress
// lines users normally see are printed by package ui, not logged.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/takt-sdd/create-takt-sdd/internal/branding"
)

const logFileName = "install.log"

// SetupLogger configures the global logger for a verbosity count (--verbose flags)
// and returns the log file path, or "" when the file could not be opened.
func SetupLogger(verbosity int) string {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	// Without --verbose the user sees only the console's progress lines; the log
	// file still records warnings.
	var writers []io.Writer
	if verbosity > 0 {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	logFile, fileErr := LogFilePath()
	var handle *os.File
	if fileErr == nil {
		handle, fileErr = openLogFile(logFile)
	}
	if fileErr == nil {
		writers = append(writers, handle)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	if fileErr != nil {
		log.Warn().Err(fileErr).Msg("Failed to create log file, logging to console only")
		return ""
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
	return logFile
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// LogFilePath returns $XDG_STATE_HOME/takt-sdd/install.log, creating its
// directory.
func LogFilePath() (string, error) {
	return xdg.StateFile(filepath.Join(branding.ConfigDir(), logFileName))
}

func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// GetLogger returns a logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LogOperationStart logs the start of an operation and returns a function
// that logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
