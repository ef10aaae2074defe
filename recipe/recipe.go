// Package recipe describes how the VXL libraries are configured for a build.
//
// A build request is a set of boolean options plus the platform Settings it
// runs on. Configure turns a request into a Configuration in one linear pass:
//
//	Normalize  -> fill defaults, drop options that do not apply
//	Validate   -> reject impossible option combinations
//	Requirements, BuildDefinitions -> derive what the build needs
//
// Nothing in this package runs external processes; a Configuration is the
// only thing handed on to the build step.
package recipe

import (
	"github.com/goplus/vxlpkg/mod/module"
)

// Metadata describes the packaged library.
type Metadata struct {
	Name        string
	Description string
	License     string
	Homepage    string
	URL         string
	Topics      []string
}

// Info is the metadata of the VXL package.
var Info = Metadata{
	Name: "vxl",
	Description: "VXL (the Vision-something-Libraries) is a collection of C++ " +
		"libraries designed for computer vision research and implementation.",
	License:  "BSD-3-Clause",
	Homepage: "https://vxl.github.io",
	URL:      "https://github.com/vxl/vxl",
	Topics:   []string{"vxl", "computer-vision", "image", "video", "classification", "topology"},
}

// Configuration is the validated output of one resolver pass.
// It is shared between callers once cached and must not be modified.
type Configuration struct {
	Settings    Settings
	Options     Options
	Requires    []module.Version
	Definitions Definitions
}

// Key returns the identity of c, see ConfigKey.
func (c *Configuration) Key() string {
	return ConfigKey(c.Options, c.Settings)
}

// ConfigKey returns a canonical string identifying a normalized option set
// on the given settings. Two requests with the same key resolve to the same
// Configuration.
func ConfigKey(o Options, s Settings) string {
	return s.Key() + "|" + o.Key()
}

// Configure runs the whole resolver pipeline. It either returns a complete
// Configuration or a *ConfigError, never a partial result.
func Configure(req Options, s Settings) (*Configuration, error) {
	opts := Normalize(req, s)
	if err := Validate(opts, s); err != nil {
		return nil, err
	}
	requires, err := Requirements(opts)
	if err != nil {
		return nil, err
	}
	return &Configuration{
		Settings:    s,
		Options:     opts,
		Requires:    requires,
		Definitions: BuildDefinitions(opts, s),
	}, nil
}
