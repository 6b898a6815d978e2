package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	daemonName = "berthd"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/berthd or /run/user/<uid>/berthd
//	macOS:   ~/Library/Caches/berthd/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, daemonName)
	}
	return filepath.Join(xdg.CacheHome, daemonName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
//
//	Linux:   $XDG_RUNTIME_DIR/berthd/berthd.sock
//	macOS:   ~/Library/Caches/berthd/run/berthd.sock
func Socket() string {
	return filepath.Join(Runtime(), "berthd.sock")
}

// Default path to the PID file.
//
//	Linux:   $XDG_RUNTIME_DIR/berthd/berthd.pid
//	macOS:   ~/Library/Caches/berthd/run/berthd.pid
func PIDFile() string {
	return filepath.Join(Runtime(), "berthd.pid")
}

// Path to the directory for daemon settings.
//
//	Linux:   ~/.config/berthd
//	macOS:   ~/Library/Application Support/berthd
func Config() string {
	return filepath.Join(xdg.ConfigHome, daemonName)
}

// Default output directory for exported images, scoped per application.
//
//	Linux:   ~/.local/share/berthd/images/<app>
//	macOS:   ~/Library/Application Support/berthd/images/<app>
func Images(app string) string {
	return filepath.Join(xdg.DataHome, daemonName, "images", app)
}
