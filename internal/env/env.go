package env

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the per-user libman configuration directory. It is not
// created.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "libman"), nil
}
