package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/manifest"
	"github.com/harborlabs/berthd/internal/paths"
	"github.com/harborlabs/berthd/internal/runtime"
)

// Controls bootstrap execution.
type Options struct {
	Manifest *manifest.Manifest // Manifest to bootstrap.
	Output   string             // Directory for the exported image.
	ID       string             // Build container ID. Defaults to "<app>-bootstrap".
	Platform string             // Target platform (e.g., "linux/amd64"). Defaults to host.
}

// Returned after a successful bootstrap.
type Result struct {
	Output string // Directory containing the exported image.
	Image  string // Path to the exported OCI archive.
}

// Executes the bootstrap pipeline against the container runtime.
//
// The phases run in fixed order: setup commands, dependency installation,
// source placement, then commit and export. The final image carries the
// manifest's entrypoint and environment in its config and is written to
// the output directory.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	m := opts.Manifest

	if opts.Platform == "" {
		opts.Platform = "linux/" + goruntime.GOARCH
	}
	if opts.ID == "" {
		opts.ID = BootstrapID(m.App)
	}

	logger.Log.Info().
		Str("app", m.App).
		Str("output", opts.Output).
		Int("packages", len(m.Packages)).
		Str("platform", opts.Platform).
		Msg("bootstrapping")

	if err := os.MkdirAll(opts.Output, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	b := &bootstrap{
		rt:       rt,
		m:        m,
		id:       opts.ID,
		output:   opts.Output,
		platform: opts.Platform,
	}

	if err := b.run(ctx); err != nil {
		return nil, fmt.Errorf("%w: app %s: %w", ErrBuild, m.App, err)
	}

	return &Result{
		Output: opts.Output,
		Image:  filepath.Join(opts.Output, runtime.ExportFilename),
	}, nil
}

// Returns the build container ID for an application.
//
// The ID is derived from the app name alone, so rebuilding the same app
// replaces the previous bootstrap container instead of accumulating one per
// run.
func BootstrapID(app string) string {
	return app + "-bootstrap"
}
