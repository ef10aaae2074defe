package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkDir(t *testing.T) {
	t.Setenv(HomeEnv, "")
	cacheDir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheDir)

	workDir, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir() returned error: %v", err)
	}
	if workDir == "" {
		t.Fatal("WorkDir() returned empty path")
	}

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		t.Fatalf("os.UserCacheDir() returned error: %v", err)
	}
	if want := filepath.Join(userCacheDir, ".vxlpkg"); workDir != want {
		t.Errorf("WorkDir() = %q, want %q", workDir, want)
	}

	info, err := os.Stat(workDir)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("WorkDir() created a file instead of a directory")
	}
}

func TestWorkDirOverride(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, home)

	workDir, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir() returned error: %v", err)
	}
	if workDir != home {
		t.Errorf("WorkDir() = %q, want %q", workDir, home)
	}

	info, err := os.Stat(home)
	if err != nil {
		t.Fatalf("Directory was not created: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o700 {
		t.Errorf("Directory has permissions %v, want %v", mode, os.FileMode(0o700))
	}
}

// TestStoreDirIdempotent verifies that multiple calls return the same
// directory without side effects.
func TestStoreDirIdempotent(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	dir1, err := StoreDir()
	if err != nil {
		t.Fatalf("First StoreDir() call failed: %v", err)
	}
	dir2, err := StoreDir()
	if err != nil {
		t.Fatalf("Second StoreDir() call failed: %v", err)
	}
	if dir1 != dir2 {
		t.Errorf("StoreDir() not idempotent: first call = %q, second call = %q", dir1, dir2)
	}
	if filepath.Base(dir1) != "packages" {
		t.Errorf("StoreDir() = %q, want a packages dir", dir1)
	}
	if _, err := os.Stat(dir1); err != nil {
		t.Errorf("Directory no longer exists after second call: %v", err)
	}
}
