// Package appdirs resolves the handful of directories Sushi needs
// outside the files the user passes explicitly on the command line: the
// config file location and the on-disk audio-analysis cache.
package appdirs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/tp7/sushi-go/internal/types"
)

type pathManager struct {
	configDir string
	cacheDir  string
}

var (
	paths pathManager
	once  sync.Once
)

func init() { once.Do(resolve) }

func resolve() {
	paths.cacheDir = filepath.Join(xdg.CacheHome, types.AppLocalDataDir)
	configPath, err := xdg.ConfigFile(types.AppLocalDataDir)
	if err != nil {
		paths.configDir = filepath.Join(xdg.Home, "."+types.AppLocalDataDir)
	} else {
		paths.configDir = configPath
	}
	_ = os.MkdirAll(paths.configDir, 0o755)
	_ = os.MkdirAll(paths.cacheDir, 0o755)
}

// ConfigDir returns the directory holding sushi.toml.
func ConfigDir() string { return paths.configDir }

// ConfigFilePath returns the full path of the default config file.
func ConfigFilePath() string { return filepath.Join(paths.configDir, types.AppTomlFile) }

// CacheDir returns the directory holding the bbolt audio-analysis cache.
func CacheDir() string { return paths.cacheDir }

// CacheDBPath returns the full path of the cache database file.
func CacheDBPath() string { return filepath.Join(paths.cacheDir, types.AppCacheDBName+".db") }
