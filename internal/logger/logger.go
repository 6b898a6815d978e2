package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// The global logger instance.
//
// Defaults to a warn-level console logger until [Init] is called with the
// final flag values.
var Log = newLogger(os.Stderr, zerolog.WarnLevel, false)

// Configures the global logger.
//
// Debug wins over quiet when both are set. Verbose switches the console
// writer from the compact format to one that includes the caller field.
func Init(quiet, verbose, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	} else if quiet {
		level = zerolog.WarnLevel
	}

	Log = newLogger(os.Stderr, level, verbose)
}

// Redirects the global logger to the given writer.
//
// Used by tests to capture output.
func SetOutput(w io.Writer) {
	Log = Log.Output(consoleWriter(w))
}

// Returns the effective log level of the global logger.
func Level() zerolog.Level {
	return Log.GetLevel()
}

// Builds a console logger at the given level.
func newLogger(w io.Writer, level zerolog.Level, verbose bool) zerolog.Logger {
	ctx := zerolog.New(consoleWriter(w)).
		Level(level).
		With().
		Timestamp()

	if verbose {
		ctx = ctx.Caller()
	}

	return ctx.Logger()
}

// Builds the console writer used for all daemon output.
//
// Color is disabled when stderr is not a terminal so logs stay readable
// under systemd or shell redirection.
func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
}

// Whether the writer is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
