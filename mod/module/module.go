// Package module defines the module.Version type along with support code.
package module

import "path/filepath"

// A Version (for clients, a module.Version) represents a package pinned
// to one exact version, such as zlib/1.2.11.
type Version struct {
	Path    string // Package name, e.g. "zlib"
	Version string // Exact version string, e.g. "1.2.11"
}

// String returns the "name/version" reference of v.
func (v Version) String() string {
	return v.Path + "/" + v.Version
}

// EscapePath returns the escaped form of the given module path as a valid
// file system path. It fails if the module path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
