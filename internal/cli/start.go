package cli

import (
	"context"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/server"
	"github.com/harborlabs/berthd/internal/settings"
)

// Represents the 'berthd start' command.
type StartCmd struct{}

// Executes the start command.
//
// Loads settings, starts the socket server, and blocks until the context is
// cancelled (e.g. via SIGINT or SIGTERM) or a shutdown command arrives.
func (c *StartCmd) Run(ctx context.Context) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}

	socketPath := RootCmd.Socket
	if socketPath == "" {
		socketPath = cfg.Socket
	}

	srv, err := server.New(server.Config{
		SocketPath:          socketPath,
		ContainerdAddress:   cfg.Containerd.Address,
		ContainerdNamespace: cfg.Containerd.Namespace,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	logger.Log.Info().Msg("berthd is running")

	select {
	case <-ctx.Done():
		logger.Log.Info().Msg("shutting down")
		return srv.Stop()
	case <-srv.Done():
		return nil
	}
}
