package runtime

import (
	"strings"
	"testing"
)

func TestImageTag(t *testing.T) {
	tag := imageTag("/var/lib/berthd/base/python-slim.tar")

	if !strings.HasPrefix(tag, "import/") {
		t.Fatalf("tag %q missing import/ prefix", tag)
	}
	if !strings.HasSuffix(tag, ":latest") {
		t.Fatalf("tag %q missing :latest suffix", tag)
	}

	if imageTag("/var/lib/berthd/base/python-slim.tar") != tag {
		t.Fatal("imageTag is not deterministic")
	}
}

// Every export is named image.tar inside its app's output directory, so
// the tag must hash the full path. Hashing only the basename would make
// two different apps' archives collide in the image store.
func TestImageTagDistinctPerOutputDir(t *testing.T) {
	dashboard := imageTag("/var/lib/berthd/images/dashboard/" + ExportFilename)
	reports := imageTag("/var/lib/berthd/images/reports/" + ExportFilename)

	if dashboard == reports {
		t.Fatalf("tag %q shared by two app output dirs", dashboard)
	}
}

func TestDefaultPlatform(t *testing.T) {
	p := defaultPlatform()
	if !strings.HasPrefix(p, "linux/") {
		t.Fatalf("defaultPlatform = %q, want linux/<arch>", p)
	}
	parts := strings.Split(p, "/")
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("defaultPlatform = %q, want linux/<arch>", p)
	}
}
