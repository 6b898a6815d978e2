package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docker/go-connections/nat"
	"gopkg.in/yaml.v3"
)

// Default working directory for installed sources when the manifest does not
// set one.
const DefaultWorkdir = "/app"

// Returned for any manifest that cannot be read, decoded, or validated.
var ErrManifest = errors.New("invalid manifest")

// Describes one application bootstrap: the base image, the dependency
// manifest, the source tree, and the serving configuration.
type Manifest struct {
	App        string            `yaml:"app"`                  // Application name, used for container IDs and output paths.
	Image      string            `yaml:"image"`                // Path to the base image OCI archive.
	Installer  string            `yaml:"installer,omitempty"`  // Command prefix that installs package specs (e.g. "pip install --no-cache-dir").
	Packages   []Package         `yaml:"packages,omitempty"`   // Declared dependencies with version constraints.
	Setup      []string          `yaml:"setup,omitempty"`      // Shell commands run before dependency installation.
	Source     string            `yaml:"source"`               // Application source directory, relative paths resolve against the manifest.
	Workdir    string            `yaml:"workdir,omitempty"`    // Working directory inside the image. Defaults to /app.
	Entrypoint []string          `yaml:"entrypoint"`           // Command started as the container's foreground process.
	Env        map[string]string `yaml:"env,omitempty"`        // Environment baked into the image, exactly as written.
	Port       string            `yaml:"port,omitempty"`       // Port spec the application serves on (e.g. "8501/tcp").
}

// A single dependency declaration.
type Package struct {
	Name    string `yaml:"name"`              // Package name as known to the installer.
	Version string `yaml:"version,omitempty"` // Exact version; empty means unpinned.
}

// Reads and validates a manifest file.
//
// Unknown keys are rejected so typos fail loudly instead of silently
// dropping configuration. A relative source path is resolved against the
// manifest's own directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if !filepath.IsAbs(m.Source) {
		m.Source = filepath.Join(filepath.Dir(path), m.Source)
	}

	return m, nil
}

// Decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	if m.Workdir == "" {
		m.Workdir = DefaultWorkdir
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	return &m, nil
}

// Checks structural requirements on the decoded manifest.
func (m *Manifest) validate() error {
	if m.App == "" {
		return errors.New("app is required")
	}
	if strings.ContainsAny(m.App, "/\\ ") {
		return fmt.Errorf("app %q must not contain separators or spaces", m.App)
	}
	if m.Image == "" {
		return errors.New("image is required")
	}
	if m.Source == "" {
		return errors.New("source is required")
	}
	if len(m.Entrypoint) == 0 {
		return errors.New("entrypoint is required")
	}
	if len(m.Packages) > 0 && m.Installer == "" {
		return errors.New("installer is required when packages are declared")
	}
	if !filepath.IsAbs(m.Workdir) {
		return fmt.Errorf("workdir %q must be absolute", m.Workdir)
	}

	seen := make(map[string]bool, len(m.Packages))
	for _, p := range m.Packages {
		if p.Name == "" {
			return errors.New("package name must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate package %q", p.Name)
		}
		seen[p.Name] = true
	}

	if m.Port != "" {
		if _, err := nat.ParsePortSpec(m.Port); err != nil {
			return fmt.Errorf("port %q: %v", m.Port, err)
		}
	}

	return nil
}

// Renders the declared packages as installer-ready specs.
//
// Specs are sorted by package name so the install command is identical for
// identical manifests regardless of declaration order.
func (m *Manifest) PackageSpecs() []string {
	specs := make([]string, 0, len(m.Packages))
	for _, p := range m.Packages {
		if p.Version != "" {
			specs = append(specs, p.Name+"=="+p.Version)
		} else {
			specs = append(specs, p.Name)
		}
	}
	sort.Strings(specs)
	return specs
}

// Returns the full dependency installation command, or the empty string when
// no packages are declared.
func (m *Manifest) InstallCommand() string {
	specs := m.PackageSpecs()
	if len(specs) == 0 {
		return ""
	}
	return m.Installer + " " + strings.Join(specs, " ")
}

// Formats the manifest environment as sorted "key=value" entries.
func (m *Manifest) Environ() []string {
	return Environ(m.Env)
}

// Formats an environment map as sorted "key=value" entries.
//
// Sorting keeps every rendering of the same environment identical, whether
// it is baked into an image config or passed to a container exec. An empty
// map yields nil.
func Environ(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	entries := make([]string, 0, len(env))
	for k, v := range env {
		entries = append(entries, k+"="+v)
	}
	sort.Strings(entries)
	return entries
}
