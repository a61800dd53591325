// Package config resolves standup's configuration: the config directory, the
// optional config.toml, environment overrides and the LLM provider selection.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the standup configuration directory.
//
// Resolution:
//   - $STANDUP_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/standup if set (respects XDG on any platform)
//   - %AppData%/standup on Windows
//   - ~/.config/standup on macOS and Linux
func Dir() string {
	if dir := os.Getenv("STANDUP_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "standup")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "standup")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "standup")
}

// EnvFiles lists the dotenv files loaded at startup, highest precedence first.
// Variables already present in the environment are never overwritten.
func EnvFiles() []string {
	files := []string{".env.local", ".env"}
	if dir := Dir(); dir != "" {
		files = append(files, filepath.Join(dir, "env"))
	}
	return files
}
