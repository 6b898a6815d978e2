package build

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCopySourceMissingPath(t *testing.T) {
	src := filepath.Join(t.TempDir(), "does-not-exist")

	err := copySource(context.Background(), nil, src, "/app")
	if !errors.Is(err, ErrFileSystemOperation) {
		t.Fatalf("err = %v, want ErrFileSystemOperation", err)
	}
}

func TestWriteDirToTarLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "app.py"), "print('hi')")
	writeFixture(t, filepath.Join(dir, "pkg", "page.py"), "page")

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirToTar(tw, dir); err != nil {
		t.Fatalf("writeDirToTar: %v", err)
	}
	tw.Close()

	entries := readTarNames(t, &buf)

	// Contents land at the archive root, not under the source dir's name.
	if !entries["app.py"] {
		t.Fatalf("entries = %v, missing app.py", entries)
	}
	if !entries["pkg/page.py"] {
		t.Fatalf("entries = %v, missing pkg/page.py", entries)
	}
	for name := range entries {
		if filepath.IsAbs(name) {
			t.Fatalf("absolute entry %q in archive", name)
		}
	}
}

func TestWriteFileToTarContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.py")
	writeFixture(t, path, "print('hi')")

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeFileToTar(tw, path, "app.py"); err != nil {
		t.Fatalf("writeFileToTar: %v", err)
	}
	tw.Close()

	tr := tar.NewReader(&buf)
	header, err := tr.Next()
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if header.Name != "app.py" {
		t.Fatalf("name = %q, want app.py", header.Name)
	}

	content, err := io.ReadAll(tr)
	if err != nil {
		t.Fatalf("reading entry: %v", err)
	}
	if string(content) != "print('hi')" {
		t.Fatalf("content = %q", content)
	}
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readTarNames(t *testing.T, r io.Reader) map[string]bool {
	t.Helper()
	names := make(map[string]bool)
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading archive: %v", err)
		}
		names[header.Name] = true
	}
	return names
}
