// Package packaging lays out and archives an installed package.
package packaging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LicenseDir is the package subdirectory holding license files.
const LicenseDir = "licenses"

// LicenseFile is the name of the upstream license file.
const LicenseFile = "LICENSE"

// CopyLicense copies the LICENSE file from srcDir to pkgDir/licenses.
// The returned error wraps fs.ErrNotExist if srcDir has no license.
func CopyLicense(srcDir, pkgDir string) error {
	src, err := os.Open(filepath.Join(srcDir, LicenseFile))
	if err != nil {
		return fmt.Errorf("copy license: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(pkgDir, LicenseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(dir, LicenseFile))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy license: %w", err)
	}
	return dst.Close()
}

var libExts = map[string]bool{
	".so":    true,
	".lib":   true,
	".a":     true,
	".dylib": true,
	".bc":    true,
}

// CollectLibs returns the names of the libraries installed in pkgDir/lib,
// sorted and without duplicates. "libvnl.a" and "vnl.lib" both yield "vnl".
// A package without a lib directory has no libraries.
func CollectLibs(pkgDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(pkgDir, "lib"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	seen := make(map[string]bool)
	var libs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !libExts[ext] {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if ext != ".lib" {
			name = strings.TrimPrefix(name, "lib")
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		libs = append(libs, name)
	}
	sort.Strings(libs)
	return libs, nil
}

// LinkFlags renders libs as linker flags.
func LinkFlags(libs []string) string {
	flags := make([]string, len(libs))
	for i, lib := range libs {
		flags[i] = "-l" + lib
	}
	return strings.Join(flags, " ")
}
