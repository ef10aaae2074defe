// Package versions provides functionality for parsing package version files.
package versions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Source locates the upstream sources of one version.
type Source struct {
	Ref string `json:"ref"` // tag or commit in Versions.Repo
}

// Patch is a patch file applied to the sources of one version.
type Patch struct {
	File     string `json:"patch_file"`          // relative to the version file
	BasePath string `json:"base_path,omitempty"` // directory inside the sources to apply in
}

// Versions represents a package's version file.
type Versions struct {
	Path    string             `json:"path"` // Package name
	Repo    string             `json:"repo"` // Upstream git remote
	Sources map[string]Source  `json:"sources"`
	Patches map[string][]Patch `json:"patches,omitempty"`
}

// Parse reads and parses a version file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
// Returns the parsed Versions struct or an error if parsing fails.
func Parse(file string, data []byte) (*Versions, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewBuffer(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var v Versions

	if err := json.NewDecoder(reader).Decode(&v); err != nil {
		return nil, err
	}
	if len(v.Sources) == 0 {
		return nil, fmt.Errorf("%s: no sources", v.Path)
	}

	return &v, nil
}

// Source returns the source of version.
func (v *Versions) Source(version string) (Source, error) {
	src, ok := v.Sources[version]
	if !ok {
		return Source{}, fmt.Errorf("%s: unknown version %q", v.Path, version)
	}
	return src, nil
}

// List returns the known versions, newest first.
func (v *Versions) List() []string {
	list := make([]string, 0, len(v.Sources))
	for ver := range v.Sources {
		list = append(list, ver)
	}
	sort.Slice(list, func(i, j int) bool {
		return compare(list[i], list[j]) > 0
	})
	return list
}

// Latest returns the newest known version.
func (v *Versions) Latest() string {
	list := v.List()
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// compare orders versions by semantic version, falling back to string
// order for versions semver cannot parse.
func compare(a, b string) int {
	sa, sb := canonical(a), canonical(b)
	if semver.IsValid(sa) && semver.IsValid(sb) {
		if c := semver.Compare(sa, sb); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
