// Package filesystem puts every disk access behind a swappable afero backend.
//
// Tests switch to an in-memory backend so config, log and cache files never touch the real disk.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// Fs returns the raw afero.Fs, for libraries such as viper that take one directly.
func Fs() afero.Fs {
	return backend.Fs
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
