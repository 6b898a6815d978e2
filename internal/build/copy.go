package build

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/runtime"
)

// Copies the source tree from the host into the container.
//
// A directory source is copied by contents: its files land directly under
// destDir, matching how a build copies an application tree into its working
// directory. A single-file source is placed in destDir under its own name.
// The transfer streams a tar archive into the container without touching
// the host filesystem beyond reading.
func copySource(ctx context.Context, ctr *runtime.Container, src, destDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: source %s: %v", ErrFileSystemOperation, src, err)
	}

	logger.Log.Debug().Str("src", src).Str("dest", destDir).Bool("dir", info.IsDir()).Msg("copy")

	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		var writeErr error

		if info.IsDir() {
			writeErr = writeDirToTar(tw, src)
		} else {
			writeErr = writeFileToTar(tw, src, filepath.Base(src))
		}

		tw.Close()
		pw.CloseWithError(writeErr)
	}()

	if err := ctr.CopyTo(ctx, pr, destDir); err != nil {
		return fmt.Errorf("%w: %w", ErrCopy, err)
	}

	return nil
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Writes a directory's contents to a tar writer.
//
// Entries are named relative to the directory itself, so extraction drops
// them directly into the destination instead of recreating the source
// directory's name.
func writeDirToTar(tw *tar.Writer, hostDir string) error {
	return filepath.WalkDir(hostDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d)
	})
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
