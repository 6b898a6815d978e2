package launch

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/manifest"
	"github.com/harborlabs/berthd/internal/runtime"
)

// Returned for launch requests that cannot be started.
var ErrLaunch = errors.New("launch failed")

// Controls how a built image is started.
type Options struct {
	App   string            // Application name, used for the image tag and generated IDs.
	Image string            // Path to the built OCI archive.
	ID    string            // Container ID. Empty generates "<app>-<uuid>".
	Env   map[string]string // Environment overrides on top of the baked image config.
	Port  string            // Port spec the app serves on (e.g. "8501/tcp"). Informational but validated.
}

// Describes the started application container.
type Result struct {
	ID   string // Container ID of the running app.
	Port string // Port spec the app serves on, empty when none declared.
}

// Imports a built image and starts it as the application container.
//
// The container runs the image's baked entrypoint as its foreground
// process and keeps running until halted; there is no restart policy. The
// container shares the host network namespace, so the process's port bind
// is reachable without any mapping.
func Start(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.App == "" {
		return nil, fmt.Errorf("%w: app is required", ErrLaunch)
	}
	if opts.Image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrLaunch)
	}
	if opts.Port != "" {
		if _, err := nat.ParsePortSpec(opts.Port); err != nil {
			return nil, fmt.Errorf("%w: port %q: %v", ErrLaunch, opts.Port, err)
		}
	}

	id := opts.ID
	if id == "" {
		id = GenerateID(opts.App)
	}

	tag := Tag(opts.App)

	if err := rt.ImportImage(ctx, opts.Image, tag); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	ctr, err := rt.LaunchContainer(ctx, tag, id, manifest.Environ(opts.Env))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	logger.Log.Info().
		Str("app", opts.App).
		Str("id", ctr.ID()).
		Str("port", opts.Port).
		Msg("application launched")

	return &Result{ID: ctr.ID(), Port: opts.Port}, nil
}

// Returns the image tag for an application's built image.
func Tag(app string) string {
	return fmt.Sprintf("berthd/%s:latest", app)
}

// Returns a fresh container ID for an application.
//
// A UUID suffix keeps concurrent launches of the same app from colliding.
func GenerateID(app string) string {
	return fmt.Sprintf("%s-%s", app, uuid.NewString())
}
