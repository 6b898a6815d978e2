package build

import (
	"maps"

	"github.com/harborlabs/berthd/internal/manifest"
)

// Default shell used for setup and install commands.
const defaultShell = "/bin/sh"

// Tracks the execution context shared by all bootstrap phases.
//
// The manifest environment applies to every command so that installers and
// setup scripts see the same configuration the final image will carry. The
// state is seeded once from the manifest; phases read it, they do not
// mutate it.
type buildState struct {
	shell   string
	workdir string
	env     map[string]string
}

// Creates the build state for a manifest.
func newBuildState(m *manifest.Manifest) *buildState {
	env := make(map[string]string, len(m.Env))
	maps.Copy(env, m.Env)

	return &buildState{
		shell:   defaultShell,
		workdir: m.Workdir,
		env:     env,
	}
}

// Formats the environment as sorted "key=value" strings suitable for
// passing to container exec.
func (s *buildState) environ() []string {
	return manifest.Environ(s.env)
}
