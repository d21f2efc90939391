// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "REELCRAFT_CONFIG_PATH"

// EnvDataPath overrides the directory holding saved projects and exports.
const EnvDataPath = "REELCRAFT_DATA_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It prioritizes the XDG_CONFIG_HOME specification on Linux and equivalent user profile paths on Darwin and Windows.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Reelcraft))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Reelcraft))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Data resolves the root directory for user-authored artifacts.
func Data() string {
	if custom, ok := os.LookupEnv(EnvDataPath); ok {
		return ensureDir(custom)
	}
	return ensureDir(filepath.Join(Config(), "data"))
}

// Projects resolves the directory where project files are saved.
func Projects() string {
	return ensureDir(filepath.Join(Data(), "projects"))
}

// Exports resolves the directory where export manifests are written.
func Exports() string {
	return ensureDir(filepath.Join(Data(), "exports"))
}

// Recent resolves the recently opened projects registry.
func Recent() string {
	return filepath.Join(Cache(), "recent.json")
}

// Probes resolves the media duration probe cache.
func Probes() string {
	return filepath.Join(Cache(), "probes.json")
}

// Temp resolves a unique, volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Reelcraft))
}
