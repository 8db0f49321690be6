package cliconfig

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

func consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
}

// Logger returns the console logger used until the log transport is up.
func Logger() zerolog.Logger {
	return logger
}

// DiagnosticLogger builds the daemon's own logger. Entries go to the log
// transport; in debug mode they are mirrored to the console and debug
// entries are enabled.
func DiagnosticLogger(transport zerolog.LevelWriter, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	writers := []io.Writer{transport}
	if debug {
		level = zerolog.DebugLevel
		writers = append(writers, consoleWriter())
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
}
