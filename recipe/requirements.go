package recipe

import (
	"fmt"
	"sort"

	"github.com/goplus/vxlpkg/mod/module"
)

// Requirement lists the packages an enabled option pulls in.
type Requirement struct {
	When     Name
	Requires []module.Version
}

// RequirementTable is keyed by option; options not listed require nothing.
var RequirementTable = []Requirement{
	{
		When: CoreGeometry,
		Requires: []module.Version{
			{Path: "clipper", Version: "6.4.2"},
		},
	},
	{
		When: CoreImaging,
		Requires: []module.Version{
			{Path: "bzip2", Version: "1.0.8"},
			{Path: "dcmtk", Version: "3.6.6"},
			{Path: "libgeotiff", Version: "1.6.0"},
			{Path: "libjpeg", Version: "9d"},
			{Path: "libpng", Version: "1.6.37"},
			{Path: "libtiff", Version: "4.2.0"},
			{Path: "openjpeg", Version: "2.4.0"},
			{Path: "zlib", Version: "1.2.11"},
		},
	},
}

// Requirements returns the packages required by o, sorted by name.
// A package listed twice with the same version appears once; listed with
// different versions it is an ErrConflictingRequirement.
func Requirements(o Options) ([]module.Version, error) {
	seen := make(map[string]string)
	var ret []module.Version
	for _, r := range RequirementTable {
		if !o.Get(r.When) {
			continue
		}
		for _, req := range r.Requires {
			if ver, ok := seen[req.Path]; ok {
				if ver != req.Version {
					return nil, &ConfigError{
						Err:    ErrConflictingRequirement,
						Detail: fmt.Sprintf("%s/%s and %s", req.Path, ver, req),
					}
				}
				continue
			}
			seen[req.Path] = req.Version
			ret = append(ret, req)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Path < ret[j].Path
	})
	return ret, nil
}
