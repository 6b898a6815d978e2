package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/harborlabs/berthd/internal"
	"github.com/harborlabs/berthd/internal/logger"
)

// Represents the root command for the berthd daemon.
var RootCmd struct {
	Quiet    bool        `short:"q" help:"Suppress informational output."`
	Verbose  bool        `short:"v" help:"Enable verbose output."`
	Debug    bool        `short:"d" help:"Enable debug output."`
	Socket   string      `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`
	Start    StartCmd    `cmd:"" help:"Start the daemon."`
	Build    BuildCmd    `cmd:"" help:"Build an app image from a launch manifest."`
	Up       UpCmd       `cmd:"" help:"Build an app from a launch manifest and start it."`
	Halt     HaltCmd     `cmd:"" help:"Stop a running app container."`
	Status   StatusCmd   `cmd:"" help:"Show daemon or app container status."`
	Shutdown ShutdownCmd `cmd:"" help:"Ask the daemon to shut down."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The Harbor berth daemon.\n\nBuilds app images from launch manifests and runs them as containers."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags take precedence over build-time defaults; either source enabling a
// mode turns it on.
func configureLogger() {
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()
	debug := RootCmd.Debug || internal.IsDebug()

	logger.Init(quiet, verbose, debug)
}
