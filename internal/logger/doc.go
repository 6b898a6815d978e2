// Provides the global zerolog logger for the daemon.
//
// The logger writes human-readable console output to stderr. The level is
// derived from the quiet/debug/verbose flags, which in turn default to
// build-time linker flags. All packages log through [Log] rather than
// constructing their own loggers.
package logger
