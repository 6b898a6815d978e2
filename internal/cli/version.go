package cli

import (
	"context"
	"fmt"

	"github.com/harborlabs/berthd/internal"
)

// Represents the 'berthd version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
