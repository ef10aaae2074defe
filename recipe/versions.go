package recipe

import (
	_ "embed"

	"github.com/goplus/vxlpkg/mod/versions"
)

//go:embed versions.json
var versionsData []byte

// Versions returns the built-in version file of the VXL package.
func Versions() (*versions.Versions, error) {
	return versions.Parse("", versionsData)
}
