// Package where resolves application-specific filesystem paths across platforms.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vidresolve/vidresolve/constant"
	"github.com/vidresolve/vidresolve/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "VIDRESOLVE_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the directory holding vidresolve.toml.
// It follows os.UserConfigDir unless VIDRESOLVE_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the directory for cached lookups such as the release check.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory for dated log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// ConfigFile is the full path of the TOML configuration file.
func ConfigFile() string {
	return filepath.Join(Config(), constant.App+".toml")
}
