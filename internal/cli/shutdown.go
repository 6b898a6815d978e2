package cli

import (
	"context"

	"github.com/harborlabs/berthd/internal/client"
)

// Represents the 'berthd shutdown' command.
type ShutdownCmd struct{}

// Executes the shutdown command.
func (c *ShutdownCmd) Run(ctx context.Context) error {
	return client.New(RootCmd.Socket).Shutdown()
}
