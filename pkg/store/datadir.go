package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the data directory on every OS.
const AppName = "lifeos"

// DefaultDataDir returns where lifeos keeps its database when neither
// --dir nor LIFEOS_DIR is set:
//
//   - macOS:   ~/Library/Application Support/lifeos
//   - Linux:   $XDG_DATA_HOME/lifeos, else ~/.local/share/lifeos
//   - Windows: %LOCALAPPDATA%\lifeos, else %APPDATA%\lifeos
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, home, os.Getenv)
}

// dataDirFor resolves the data directory for goos from home and the
// environment lookup getenv.
func dataDirFor(goos, home string, getenv func(string) string) string {
	var bases []string
	fallback := filepath.Join(home, ".local", "share")

	switch goos {
	case "darwin":
		fallback = filepath.Join(home, "Library", "Application Support")
	case "windows":
		bases = []string{getenv("LOCALAPPDATA"), getenv("APPDATA")}
		fallback = home
	default:
		bases = []string{getenv("XDG_DATA_HOME")}
	}

	for _, base := range bases {
		if base != "" {
			return filepath.Join(base, AppName)
		}
	}
	return filepath.Join(fallback, AppName)
}
