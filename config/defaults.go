package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

// DefaultDataDir is the default data directory to use for key files and the
// persisted session.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := homeDir()
	if home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "RedEnvelope")
		case "windows":
			appdata := os.Getenv("LOCALAPPDATA")
			if appdata == "" {
				appdata = filepath.Join(home, "AppData", "Local")
			}
			return filepath.Join(appdata, "RedEnvelope")
		default:
			return filepath.Join(home, ".redenvelope")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
