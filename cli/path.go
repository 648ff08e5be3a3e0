package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/brickc/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the directory name used under the user configuration
// and cache directories.
//
// It is the base name of the executable without extension, except that
// debugger builds ("__debug_bin123") map to the program name and leading dots
// are removed.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		id = regexp.MustCompile(`^__debug_bin\d*$`).ReplaceAllString(id, pkg.Name)
		id = regexp.MustCompile(`^\.+`).ReplaceAllString(id, "")

		if id == "" {
			id = pkg.Name
		}

		return id
	},
)

// userDir returns the per-user directory reported by base, falling back to
// fallback under the home directory and then the working directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err == nil {
		return filepath.Join(dir, basePrefix())
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback, basePrefix())
	}

	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, basePrefix())
	}

	return basePrefix()
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path. Generated programs handed to
// the download tool are written there.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
