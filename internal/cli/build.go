package cli

import (
	"context"
	"fmt"

	"github.com/harborlabs/berthd/internal/client"
)

// Represents the 'berthd build' command.
type BuildCmd struct {
	Manifest string `arg:"" help:"Path to the launch manifest file." type:"existingfile"`
	Output   string `short:"o" help:"Directory for the exported image. Defaults to the per-app image directory." placeholder:"DIR"`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context) error {
	result, err := client.New(RootCmd.Socket).Build(c.Manifest, c.Output)
	if err != nil {
		return err
	}

	fmt.Println(result.Output)
	return nil
}
