package cli

import (
	"context"

	"github.com/harborlabs/berthd/internal/client"
)

// Represents the 'berthd halt' command.
type HaltCmd struct {
	ID string `arg:"" help:"Container ID of the running app."`
}

// Executes the halt command.
func (c *HaltCmd) Run(ctx context.Context) error {
	return client.New(RootCmd.Socket).Halt(c.ID)
}
