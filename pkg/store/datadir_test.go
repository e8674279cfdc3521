package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataDirFor(t *testing.T) {
	home := filepath.Join("/home", "ada")

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"macos", "darwin", nil, filepath.Join(home, "Library", "Application Support", "lifeos")},
		{"macos ignores xdg", "darwin", map[string]string{"XDG_DATA_HOME": "/xdg"}, filepath.Join(home, "Library", "Application Support", "lifeos")},
		{"linux default", "linux", nil, filepath.Join(home, ".local", "share", "lifeos")},
		{"linux xdg", "linux", map[string]string{"XDG_DATA_HOME": "/custom/data"}, filepath.Join("/custom/data", "lifeos")},
		{"freebsd xdg", "freebsd", map[string]string{"XDG_DATA_HOME": "/xdg"}, filepath.Join("/xdg", "lifeos")},
		{"windows local", "windows", map[string]string{"LOCALAPPDATA": `C:\Local`, "APPDATA": `C:\Roaming`}, filepath.Join(`C:\Local`, "lifeos")},
		{"windows roaming", "windows", map[string]string{"APPDATA": `C:\Roaming`}, filepath.Join(`C:\Roaming`, "lifeos")},
		{"windows home", "windows", nil, filepath.Join(home, "lifeos")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, dataDirFor(tt.goos, home, getenv))
		})
	}
}

func TestDefaultDataDirEndsInAppName(t *testing.T) {
	assert.Equal(t, AppName, filepath.Base(DefaultDataDir()))
}
