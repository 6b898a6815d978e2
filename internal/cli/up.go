package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/harborlabs/berthd/internal/client"
	"github.com/harborlabs/berthd/internal/manifest"
	"github.com/harborlabs/berthd/internal/protocol"
	"github.com/harborlabs/berthd/internal/runtime"
)

// Represents the 'berthd up' command.
type UpCmd struct {
	Manifest string            `arg:"" help:"Path to the launch manifest file." type:"existingfile"`
	Output   string            `short:"o" help:"Directory for the exported image. Defaults to the per-app image directory." placeholder:"DIR"`
	Env      map[string]string `short:"e" help:"Environment overrides (KEY=VALUE)." placeholder:"KEY=VALUE"`
}

// Executes the up command.
//
// Builds the app image from the manifest, then launches it as the
// application container.
func (c *UpCmd) Run(ctx context.Context) error {
	m, err := manifest.Load(c.Manifest)
	if err != nil {
		return err
	}

	cl := client.New(RootCmd.Socket)

	built, err := cl.Build(c.Manifest, c.Output)
	if err != nil {
		return err
	}

	result, err := cl.Launch(&protocol.LaunchRequest{
		App:   m.App,
		Image: filepath.Join(built.Output, runtime.ExportFilename),
		Env:   c.Env,
		Port:  m.Port,
	})
	if err != nil {
		return err
	}

	fmt.Println(result.ID)
	return nil
}
