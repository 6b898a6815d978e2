package main

import (
	"os"

	"github.com/harborlabs/berthd/internal"
	"github.com/harborlabs/berthd/internal/cli"
	"github.com/harborlabs/berthd/internal/logger"
)

// The entry point for the berthd daemon.
//
// Initializes logging from build-time linker flags, displays startup
// information, and executes the root command. If any error occurs during
// execution, it exits with a non-zero code.
func main() {
	logger.Init(internal.IsQuiet(), internal.IsVerbose(), internal.IsDebug())

	logger.Log.Debug().Str("version", internal.VersionString()).Msg("build")

	logger.Log.Debug().
		Int("pid", os.Getpid()).
		Str("cwd", cwd()).
		Strs("args", os.Args).
		Msg("berthd starting")

	if err := cli.Execute(); err != nil {
		logger.Log.Error().Msg(err.Error())
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
