package build

import (
	"testing"

	"github.com/harborlabs/berthd/internal/manifest"
)

func TestNewBuildState(t *testing.T) {
	m := &manifest.Manifest{
		Workdir: "/app",
		Env:     map[string]string{"A": "1"},
	}

	s := newBuildState(m)
	if s.shell != defaultShell {
		t.Fatalf("shell = %q, want %q", s.shell, defaultShell)
	}
	if s.workdir != "/app" {
		t.Fatalf("workdir = %q, want /app", s.workdir)
	}
	if s.env["A"] != "1" {
		t.Fatalf("env = %v, want A=1", s.env)
	}
}

func TestNewBuildStateCopiesEnv(t *testing.T) {
	m := &manifest.Manifest{
		Workdir: "/app",
		Env:     map[string]string{"A": "1"},
	}

	s := newBuildState(m)
	s.env["A"] = "mutated"

	if m.Env["A"] != "1" {
		t.Fatalf("manifest env mutated to %q", m.Env["A"])
	}
}

func TestEnvironSortedAndStable(t *testing.T) {
	m := &manifest.Manifest{
		Workdir: "/app",
		Env: map[string]string{
			"STREAMLIT_SERVER_PORT":    "8501",
			"PYTHONUNBUFFERED":         "1",
			"STREAMLIT_SERVER_ADDRESS": "0.0.0.0",
		},
	}

	s := newBuildState(m)

	want := []string{
		"PYTHONUNBUFFERED=1",
		"STREAMLIT_SERVER_ADDRESS=0.0.0.0",
		"STREAMLIT_SERVER_PORT=8501",
	}

	for range 10 {
		env := s.environ()
		if len(env) != len(want) {
			t.Fatalf("environ = %v, want %v", env, want)
		}
		for i := range want {
			if env[i] != want[i] {
				t.Fatalf("environ[%d] = %q, want %q", i, env[i], want[i])
			}
		}
	}
}

func TestEnvironEmpty(t *testing.T) {
	s := newBuildState(&manifest.Manifest{Workdir: "/app"})
	if len(s.environ()) != 0 {
		t.Fatal("empty state should produce no environ entries")
	}
}
