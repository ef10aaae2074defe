package env

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the workspace root when set.
const HomeEnv = "VXLPKG_HOME"

// WorkDir returns the workspace root, creating it if needed.
func WorkDir() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(userCacheDir, ".vxlpkg")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// StoreDir returns the directory searched for installed dependencies.
func StoreDir() (string, error) {
	work, err := WorkDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(work, "packages")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
