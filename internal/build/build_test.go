package build

import "testing"

func TestBootstrapID(t *testing.T) {
	if got := BootstrapID("dashboard"); got != "dashboard-bootstrap" {
		t.Fatalf("id = %q, want dashboard-bootstrap", got)
	}

	// Stable per app so a rebuild replaces the previous build container.
	if BootstrapID("dashboard") != BootstrapID("dashboard") {
		t.Fatal("BootstrapID is not deterministic")
	}
}
