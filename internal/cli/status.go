package cli

import (
	"context"
	"fmt"

	"github.com/harborlabs/berthd/internal/client"
)

// Represents the 'berthd status' command.
type StatusCmd struct {
	ID string `arg:"" optional:"" help:"Container ID to query. Omit for daemon status."`
}

// Executes the status command.
//
// With a container ID, reports that container's state. Without one,
// reports daemon status.
func (c *StatusCmd) Run(ctx context.Context) error {
	cl := client.New(RootCmd.Socket)

	if c.ID != "" {
		result, err := cl.AppStatus(c.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", result.ID, result.State)
		return nil
	}

	result, err := cl.Status()
	if err != nil {
		return err
	}

	fmt.Printf("berthd %s\n", result.Version)
	fmt.Printf("  pid:      %d\n", result.Pid)
	fmt.Printf("  uptime:   %s\n", result.Uptime)
	fmt.Printf("  builds:   %d\n", result.Builds)
	fmt.Printf("  launches: %d\n", result.Launches)
	return nil
}
