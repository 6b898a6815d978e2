package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/harborlabs/berthd/internal/paths"
)

// Name of the settings file inside the config directory.
const FileName = "berthd.yaml"

const (

	// Default containerd socket address.
	DefaultContainerdAddress = "/run/containerd/containerd.sock"

	// Default containerd namespace for images and containers.
	DefaultContainerdNamespace = "berthd"
)

// Daemon settings loaded from the config file.
//
// Every field has a working default; a missing settings file is not an
// error. CLI flags override these values where a corresponding flag exists.
type Settings struct {
	Socket     string     `mapstructure:"socket"`     // Unix socket path for the daemon. Empty uses the default.
	Containerd Containerd `mapstructure:"containerd"` // Containerd connection settings.
}

// Containerd connection settings.
type Containerd struct {
	Address   string `mapstructure:"address"`   // Containerd socket address.
	Namespace string `mapstructure:"namespace"` // Namespace scoping all images and containers.
}

// Returns the built-in defaults.
func Default() Settings {
	return Settings{
		Socket: paths.Socket(),
		Containerd: Containerd{
			Address:   DefaultContainerdAddress,
			Namespace: DefaultContainerdNamespace,
		},
	}
}

// Loads settings from the default config directory.
func Load() (Settings, error) {
	return LoadFile(filepath.Join(paths.Config(), FileName))
}

// Loads settings from the given file.
//
// A nonexistent file yields the defaults. Malformed YAML or unknown value
// types fail with an error naming the file.
func LoadFile(path string) (Settings, error) {
	defaults := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("socket", defaults.Socket)
	v.SetDefault("containerd.address", defaults.Containerd.Address)
	v.SetDefault("containerd.namespace", defaults.Containerd.Namespace)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	return s, nil
}
