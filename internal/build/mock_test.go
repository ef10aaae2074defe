package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/vxlpkg/internal/deps"
	"github.com/goplus/vxlpkg/mod/module"
)

// mockVCS implements vcs.VCS by copying a local directory.
type mockVCS struct {
	testdataDir string
	syncErr     error
	syncs       []string // "remote@ref"
	applied     []string // "patch:basePath"
}

func (m *mockVCS) Sync(ctx context.Context, remote, ref, dir string) error {
	m.syncs = append(m.syncs, remote+"@"+ref)
	if m.syncErr != nil {
		return m.syncErr
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.CopyFS(dir, os.DirFS(m.testdataDir))
}

func (m *mockVCS) Apply(ctx context.Context, dir, patchFile, basePath string) error {
	m.applied = append(m.applied, patchFile+":"+basePath)
	_, err := os.Stat(patchFile)
	return err
}

func (m *mockVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	return []string{"v2.0.2"}, nil
}

// newMockVCS creates a mock vcs.VCS serving testdataDir.
func newMockVCS(testdataDir string) *mockVCS {
	return &mockVCS{testdataDir: testdataDir}
}

// mockProvider implements deps.Provider with every package installed
// under root unless listed in missing.
type mockProvider struct {
	root     string
	missing  map[string]bool
	provided [][]module.Version
}

func (m *mockProvider) Provide(ctx context.Context, requires []module.Version) ([]deps.Package, error) {
	m.provided = append(m.provided, requires)
	var pkgs []deps.Package
	var missing []module.Version
	for _, r := range requires {
		if m.missing[r.Path] {
			missing = append(missing, r)
			continue
		}
		pkgs = append(pkgs, deps.Package{Version: r, Root: filepath.Join(m.root, r.Path)})
	}
	if len(missing) > 0 {
		return nil, &deps.NotFoundError{Missing: missing}
	}
	return pkgs, nil
}

// mockBuildSystem implements buildsys.BuildSystem and records every call.
// Install writes one static library per enabled core library.
type mockBuildSystem struct {
	dirs    Dirs
	used    []string
	defines map[string]string
	steps   []string

	failStep   string
	versionErr error
	checked    bool
}

func (m *mockBuildSystem) Use(root string) {
	m.used = append(m.used, root)
	os.Setenv("CMAKE_PREFIX_PATH", root)
}

func (m *mockBuildSystem) Define(key, value string) {
	m.defines[key] = value
}

func (m *mockBuildSystem) DefineBool(key string, value bool) {
	if value {
		m.defines[key] = "ON"
	} else {
		m.defines[key] = "OFF"
	}
}

func (m *mockBuildSystem) step(name string) error {
	m.steps = append(m.steps, name)
	if m.failStep == name {
		return &stepError{name}
	}
	return nil
}

func (m *mockBuildSystem) Configure(ctx context.Context, args ...string) error {
	return m.step("configure")
}

func (m *mockBuildSystem) Build(ctx context.Context, args ...string) error {
	return m.step("build")
}

func (m *mockBuildSystem) Install(ctx context.Context, args ...string) error {
	if err := m.step("install"); err != nil {
		return err
	}
	libDir := filepath.Join(m.dirs.Install, "lib")
	if err := os.MkdirAll(libDir, 0755); err != nil {
		return err
	}
	libs := map[string]string{
		"VXL_BUILD_CORE_NUMERICS": "libvnl.a",
		"VXL_BUILD_CORE_GEOMETRY": "libvgl.a",
		"VXL_BUILD_CORE_IMAGING":  "libvil.a",
	}
	for def, lib := range libs {
		if m.defines[def] == "ON" {
			if err := os.WriteFile(filepath.Join(libDir, lib), nil, 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mockBuildSystem) CheckVersion(ctx context.Context, min string) error {
	m.checked = true
	return m.versionErr
}

type stepError struct{ step string }

func (e *stepError) Error() string { return e.step + " failed" }
