package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"krawl/constants"
)

// Config is the environment-derived configuration of the driver. Command
// line flags are applied on top by the caller.
type Config struct {
	// CacheDir is <cache base>/krawl, holding import metadata and artifacts.
	CacheDir    string
	Clang       string
	ClangPlugin string
	// IncludeDirs are searched for native module interfaces, in order.
	IncludeDirs []string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. A missing cache base is
// a configuration error.
func LoadFrom(getenv func(string) string) (*Config, error) {
	base, err := cacheBase(getenv)
	if err != nil {
		return nil, err
	}

	conf := &Config{
		CacheDir:    filepath.Join(base, constants.COMPONENT),
		Clang:       constants.DEFAULT_CLANG,
		IncludeDirs: []string{"."},
	}

	if clang := getenv(constants.ENV_CLANG); clang != "" {
		conf.Clang = clang
	}

	prefix := getenv(constants.ENV_INSTALL_PREFIX)
	if prefix == "" {
		prefix = constants.DEFAULT_INSTALL_PREFIX
	}
	conf.ClangPlugin = DefaultPlugin(prefix, runtime.GOOS)
	if plugin := getenv(constants.ENV_CLANG_PLUGIN); plugin != "" {
		conf.ClangPlugin = plugin
	}

	for _, dir := range filepath.SplitList(getenv(constants.ENV_MODULE_PATH)) {
		if dir = strings.TrimSpace(dir); dir != "" {
			conf.IncludeDirs = append(conf.IncludeDirs, dir)
		}
	}

	return conf, nil
}

func cacheBase(getenv func(string) string) (string, error) {
	if dir := getenv(constants.ENV_CACHE_HOME); dir != "" {
		return dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate a cache directory, set %s: %w", constants.ENV_CACHE_HOME, err)
	}
	if dir == "" {
		return "", errors.New("cannot locate a cache directory, set " + constants.ENV_CACHE_HOME)
	}
	return dir, nil
}

// DefaultPlugin returns the install location of the C translation plugin
// for an operating system.
func DefaultPlugin(prefix, goos string) string {
	ext := "so"
	switch goos {
	case "darwin":
		ext = "dylib"
	case "windows":
		ext = "dll"
	}
	return filepath.Join(prefix, "lib", constants.COMPONENT, constants.PLUGIN_NAME+"."+ext)
}

// AddIncludeDirs puts dirs ahead of the environment's search path.
func (c *Config) AddIncludeDirs(dirs ...string) {
	if len(dirs) == 0 {
		return
	}
	c.IncludeDirs = append(append([]string(nil), dirs...), c.IncludeDirs...)
}
