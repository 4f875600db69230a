package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/todos/internal/core/config"
)

const appDir = "todos"

// Flags are the global flags shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Token overrides every other token source when set.
	Token string

	// Config is set by the root Before hook.
	Config *config.Config
}

// DefaultConfigPath is $XDG_CONFIG_HOME/todos/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appDir, "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/todos.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), appDir)
}

// DefaultLogFile returns the log path inside dataDir.
func DefaultLogFile(dataDir string) string {
	return filepath.Join(dataDir, appDir+".log")
}

// xdgDir reads env, falling back to a path under the home directory.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}
