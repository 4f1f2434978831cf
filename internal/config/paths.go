package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "booru-prompt"

// DefaultConfigPath returns the default location of the config file.
//   - Windows: %USERPROFILE%\.config\booru-prompt\config
//   - Unix: ~/.config/booru-prompt/config
func DefaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

func configDir() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return filepath.Join(userProfile, ".config", appDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// LogDirectory returns the directory used for rotated log files.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\booru-prompt\logs
//   - Unix: $XDG_CONFIG_HOME/booru-prompt/logs (usually ~/.config/booru-prompt/logs)
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "booru-prompt-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, appDirName, "logs")
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "booru-prompt-logs")
		}
		return filepath.Join(homeDir, ".config", appDirName, "logs")
	}
	return filepath.Join(dir, appDirName, "logs")
}

// DefaultOutputDir returns where saved prompt files go when output_dir is unset:
// ~/Downloads if it exists, otherwise the working directory.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	return "."
}
