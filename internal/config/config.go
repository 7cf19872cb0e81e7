// Package config provides configuration helpers for chorus commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default service configuration.
const (
	DefaultWebAddr = ":8090"
	DefaultDataDir = ".chorus"
)

// AgentURL returns the voice-agent service URL from CHORUS_AGENT_URL.
// Empty means the command should run against the mock session.
func AgentURL() string {
	return os.Getenv("CHORUS_AGENT_URL")
}

// APIKey returns the voice-agent service API key from CHORUS_API_KEY.
func APIKey() string {
	return os.Getenv("CHORUS_API_KEY")
}

// DataDir returns the directory for persisted agent state.
// CHORUS_DATA_DIR overrides the default of ~/.chorus.
func DataDir() string {
	if dir := os.Getenv("CHORUS_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// DataPath returns the path of a named file under the data directory,
// creating the directory if needed.
func DataPath(name string) (string, error) {
	dir := DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("config: create data dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// WebAddr returns the dashboard listen address from CHORUS_WEB_ADDR.
// Empty means the dashboard is disabled unless a command enables it.
func WebAddr() string {
	return os.Getenv("CHORUS_WEB_ADDR")
}
