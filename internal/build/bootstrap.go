package build

import (
	"context"
	"fmt"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/manifest"
	"github.com/harborlabs/berthd/internal/runtime"
)

// Holds shared state for one bootstrap run.
type bootstrap struct {
	rt       *runtime.Runtime   // Container runtime for image and container operations.
	m        *manifest.Manifest // Manifest being bootstrapped.
	id       string             // Build container ID.
	output   string             // Output directory for the exported image.
	platform string             // Target platform.
}

// Runs the pipeline end-to-end inside a single build container.
//
// The container is destroyed when the pipeline finishes, successful or not.
func (b *bootstrap) run(ctx context.Context) error {
	ctr, err := b.rt.StartContainer(ctx, b.m.Image, b.id, b.platform)
	if err != nil {
		return err
	}
	defer ctr.Destroy(ctx)

	state := newBuildState(b.m)

	if err := ctr.MkdirAll(ctx, state.workdir); err != nil {
		return err
	}

	if err := b.runSetup(ctx, ctr, state); err != nil {
		return err
	}

	if err := b.installPackages(ctx, ctr, state); err != nil {
		return err
	}

	if err := b.placeSource(ctx, ctr, state); err != nil {
		return err
	}

	return b.export(ctx, ctr)
}

// Runs the manifest's setup commands in declaration order.
func (b *bootstrap) runSetup(ctx context.Context, ctr *runtime.Container, state *buildState) error {
	for i, command := range b.m.Setup {
		logger.Log.Debug().Str("command", command).Msg("setup")

		result, err := ctr.Exec(ctx, state.shell, command, state.environ(), state.workdir)
		if err != nil {
			return err
		}
		if err := setupError(i+1, result); err != nil {
			return err
		}
	}
	return nil
}

// Classifies a setup command result. A non-zero exit aborts the build with
// the step number and captured stderr.
func setupError(step int, result *runtime.ExecResult) error {
	if result.ExitCode == 0 {
		return nil
	}
	return fmt.Errorf("%w: setup %d: exit code %d: %s", ErrCommandFailed, step, result.ExitCode, result.Stderr)
}

// Installs the declared dependencies.
//
// A single installer invocation covers all packages; the command is
// rendered deterministically from the manifest. A non-zero installer exit
// means at least one package could not be located or its version constraint
// is unsatisfiable.
func (b *bootstrap) installPackages(ctx context.Context, ctr *runtime.Container, state *buildState) error {
	command := b.m.InstallCommand()
	if command == "" {
		logger.Log.Debug().Msg("no packages declared, skipping install")
		return nil
	}

	logger.Log.Info().Int("packages", len(b.m.Packages)).Msg("installing dependencies")
	logger.Log.Debug().Str("command", command).Msg("install")

	result, err := ctr.Exec(ctx, state.shell, command, state.environ(), state.workdir)
	if err != nil {
		return err
	}

	return installError(result)
}

// Classifies an installer result. A non-zero exit means at least one
// package could not be resolved; the installer's stderr carries which one.
func installError(result *runtime.ExecResult) error {
	if result.ExitCode == 0 {
		return nil
	}
	return fmt.Errorf("%w: exit code %d: %s", ErrDependencyResolution, result.ExitCode, result.Stderr)
}

// Copies the application source tree into the working directory.
func (b *bootstrap) placeSource(ctx context.Context, ctr *runtime.Container, state *buildState) error {
	logger.Log.Info().Str("source", b.m.Source).Str("workdir", state.workdir).Msg("placing source")
	return copySource(ctx, ctr, b.m.Source, state.workdir)
}

// Stops the build container and exports its filesystem as the final image.
//
// The manifest's entrypoint and environment are baked into the exported
// image config, so a container started from the image serves with exactly
// the declared configuration.
func (b *bootstrap) export(ctx context.Context, ctr *runtime.Container) error {
	if err := ctr.Stop(ctx); err != nil {
		return err
	}
	return ctr.Export(ctx, b.output, b.m.Entrypoint, b.m.Environ())
}
