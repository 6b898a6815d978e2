package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Manifest mirroring the one production deployment this daemon was written
// for: a headless web app served on 0.0.0.0:8501.
const dashboardManifest = `
app: dashboard
image: base/python-slim.tar
installer: pip install --no-cache-dir
packages:
  - name: streamlit
    version: 1.37.0
  - name: requests
    version: 2.32.3
source: ./src
entrypoint: [streamlit, run, app.py]
env:
  PYTHONDONTWRITEBYTECODE: "1"
  PYTHONUNBUFFERED: "1"
  STREAMLIT_SERVER_HEADLESS: "true"
  STREAMLIT_SERVER_ADDRESS: 0.0.0.0
  STREAMLIT_SERVER_PORT: "8501"
port: 8501/tcp
`

func TestParseValid(t *testing.T) {
	m, err := Parse([]byte(dashboardManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.App != "dashboard" {
		t.Fatalf("app = %q, want dashboard", m.App)
	}
	if m.Workdir != DefaultWorkdir {
		t.Fatalf("workdir = %q, want default %q", m.Workdir, DefaultWorkdir)
	}
	if len(m.Entrypoint) != 3 || m.Entrypoint[0] != "streamlit" {
		t.Fatalf("entrypoint = %v", m.Entrypoint)
	}
	if m.Port != "8501/tcp" {
		t.Fatalf("port = %q, want 8501/tcp", m.Port)
	}
}

// Environment values must survive the manifest verbatim. Truncated or
// re-encoded values would change the serving configuration of the image.
func TestParseEnvLiterals(t *testing.T) {
	m, err := Parse([]byte(dashboardManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"PYTHONDONTWRITEBYTECODE":   "1",
		"PYTHONUNBUFFERED":          "1",
		"STREAMLIT_SERVER_HEADLESS": "true",
		"STREAMLIT_SERVER_ADDRESS":  "0.0.0.0",
		"STREAMLIT_SERVER_PORT":     "8501",
	}
	for k, v := range want {
		if m.Env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, m.Env[k], v)
		}
	}
	if len(m.Env) != len(want) {
		t.Fatalf("len(env) = %d, want %d", len(m.Env), len(want))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing app",
			yaml: "image: b.tar\nsource: ./src\nentrypoint: [run]\n",
		},
		{
			name: "app with separator",
			yaml: "app: a/b\nimage: b.tar\nsource: ./src\nentrypoint: [run]\n",
		},
		{
			name: "missing image",
			yaml: "app: a\nsource: ./src\nentrypoint: [run]\n",
		},
		{
			name: "missing source",
			yaml: "app: a\nimage: b.tar\nentrypoint: [run]\n",
		},
		{
			name: "missing entrypoint",
			yaml: "app: a\nimage: b.tar\nsource: ./src\n",
		},
		{
			name: "packages without installer",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\npackages:\n  - name: x\n",
		},
		{
			name: "empty package name",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\ninstaller: pip install\npackages:\n  - version: \"1.0\"\n",
		},
		{
			name: "duplicate package",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\ninstaller: pip install\npackages:\n  - name: x\n  - name: x\n",
		},
		{
			name: "relative workdir",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\nworkdir: rel\n",
		},
		{
			name: "bad port spec",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\nport: not-a-port\n",
		},
		{
			name: "unknown key",
			yaml: "app: a\nimage: b.tar\nsource: ./src\nentrypoint: [run]\nbogus: true\n",
		},
		{
			name: "malformed yaml",
			yaml: "app: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrManifest) {
				t.Fatalf("err = %v, want ErrManifest", err)
			}
		})
	}
}

func TestPackageSpecsDeterministic(t *testing.T) {
	m := &Manifest{Packages: []Package{
		{Name: "zlib", Version: "2.0"},
		{Name: "alpha"},
		{Name: "beta", Version: "1.1"},
	}}

	want := []string{"alpha", "beta==1.1", "zlib==2.0"}
	got := m.PackageSpecs()
	if len(got) != len(want) {
		t.Fatalf("specs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("specs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Declaration order must not affect the rendered specs.
	reversed := &Manifest{Packages: []Package{
		{Name: "beta", Version: "1.1"},
		{Name: "alpha"},
		{Name: "zlib", Version: "2.0"},
	}}
	other := reversed.PackageSpecs()
	for i := range want {
		if other[i] != want[i] {
			t.Fatalf("reordered specs[%d] = %q, want %q", i, other[i], want[i])
		}
	}
}

func TestInstallCommand(t *testing.T) {
	m := &Manifest{
		Installer: "pip install --no-cache-dir",
		Packages:  []Package{{Name: "streamlit", Version: "1.37.0"}},
	}

	want := "pip install --no-cache-dir streamlit==1.37.0"
	if got := m.InstallCommand(); got != want {
		t.Fatalf("install command = %q, want %q", got, want)
	}
}

func TestInstallCommandNoPackages(t *testing.T) {
	m := &Manifest{Installer: "pip install"}
	if got := m.InstallCommand(); got != "" {
		t.Fatalf("install command = %q, want empty", got)
	}
}

func TestEnvironSorted(t *testing.T) {
	m := &Manifest{Env: map[string]string{"B": "2", "A": "1", "C": "3"}}
	env := m.Environ()

	want := []string{"A=1", "B=2", "C=3"}
	if len(env) != len(want) {
		t.Fatalf("environ = %v, want %v", env, want)
	}
	for i := range want {
		if env[i] != want[i] {
			t.Fatalf("environ[%d] = %q, want %q", i, env[i], want[i])
		}
	}
}

func TestEnvironEmpty(t *testing.T) {
	if Environ(nil) != nil {
		t.Fatal("nil env should produce nil entries")
	}
	if Environ(map[string]string{}) != nil {
		t.Fatal("empty env should produce nil entries")
	}
}

func TestLoadResolvesRelativeSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "berth.yaml")
	if err := os.WriteFile(path, []byte(dashboardManifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !filepath.IsAbs(m.Source) {
		t.Fatalf("source %q not resolved to absolute", m.Source)
	}
	if !strings.HasPrefix(m.Source, dir) {
		t.Fatalf("source %q not resolved against manifest dir %q", m.Source, dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrManifest) {
		t.Fatalf("err = %v, want ErrManifest", err)
	}
}
