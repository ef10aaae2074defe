package recipe

import (
	"fmt"
	"strings"
)

// Name identifies a build option.
type Name string

const (
	Shared            Name = "shared"
	FPIC              Name = "fPIC"
	CoreNumerics      Name = "core_numerics"
	CoreGeometry      Name = "core_geometry"
	CoreSerialisation Name = "core_serialisation"
	CoreUtilities     Name = "core_utilities"
	CoreImaging       Name = "core_imaging"
	CoreProbability   Name = "core_probability"
	CoreVideo         Name = "core_video"
	GUI               Name = "gui"
)

// Option is one entry of the option schema.
type Option struct {
	Name    Name
	Default bool
	Help    string

	// Applies reports whether the option exists at all for the given
	// settings and (defaulted) option values. nil means it always applies.
	Applies func(s Settings, o Options) bool
}

// Schema lists every option in a fixed order.
var Schema = []Option{
	{Name: Shared, Default: false, Help: "build shared libraries"},
	{Name: FPIC, Default: true, Help: "build position-independent code", Applies: fpicApplies},
	{Name: CoreNumerics, Default: true, Help: "build the numerics libraries (vnl)"},
	{Name: CoreGeometry, Default: true, Help: "build the geometry libraries (vgl)"},
	{Name: CoreSerialisation, Default: true, Help: "build the serialisation libraries (vsl)"},
	{Name: CoreUtilities, Default: true, Help: "build the utility libraries (vul, vbl)"},
	{Name: CoreImaging, Default: true, Help: "build the imaging libraries (vil)"},
	{Name: CoreProbability, Default: true, Help: "build the probability libraries (vpdl)"},
	{Name: CoreVideo, Default: false, Help: "build the video libraries (vidl)"},
	{Name: GUI, Default: false, Help: "build the GUI libraries (vgui)"},
}

// fPIC means nothing on Windows, and a shared build is always
// position-independent.
func fpicApplies(s Settings, o Options) bool {
	return !s.IsWindows() && !o.Get(Shared)
}

// Lookup returns the schema entry for name.
func Lookup(name Name) (Option, bool) {
	for _, opt := range Schema {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Defaults returns every option at its default value, ignoring applicability.
func Defaults() Options {
	o := make(Options, len(Schema))
	for _, opt := range Schema {
		o[opt.Name] = opt.Default
	}
	return o
}

// Options maps option names to values. In a normalized set an option that
// does not apply is absent rather than false.
type Options map[Name]bool

// Has reports whether name is present in o.
func (o Options) Has(name Name) bool {
	_, ok := o[name]
	return ok
}

// Get returns the value of name, false if absent.
func (o Options) Get(name Name) bool {
	return o[name]
}

// GetSafe returns the value of name, or def if the option is absent.
func (o Options) GetSafe(name Name, def bool) bool {
	if v, ok := o[name]; ok {
		return v
	}
	return def
}

// Key returns the canonical "name=value" list of o in schema order.
// Names that are not part of the schema are ignored.
func (o Options) Key() string {
	parts := make([]string, 0, len(o))
	for _, opt := range Schema {
		if v, ok := o[opt.Name]; ok {
			parts = append(parts, string(opt.Name)+"="+FormatBool(v))
		}
	}
	return strings.Join(parts, ",")
}

func (o Options) String() string {
	return o.Key()
}

// Normalize fills in defaults for every option req leaves unspecified and
// removes the options that do not apply to s. It never fails; unknown
// names in req are dropped.
func Normalize(req Options, s Settings) Options {
	o := make(Options, len(Schema))
	for _, opt := range Schema {
		v, ok := req[opt.Name]
		if !ok {
			v = opt.Default
		}
		o[opt.Name] = v
	}
	for _, opt := range Schema {
		if opt.Applies != nil && !opt.Applies(s, o) {
			delete(o, opt.Name)
		}
	}
	return o
}

// ParseOption parses a "name=value" argument.
func ParseOption(arg string) (Name, bool, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		return "", false, fmt.Errorf("invalid option %q: expected name=value", arg)
	}
	name := Name(strings.TrimSpace(k))
	if _, ok := Lookup(name); !ok {
		return "", false, fmt.Errorf("unknown option %q", name)
	}
	val, err := ParseBool(v)
	if err != nil {
		return "", false, fmt.Errorf("option %s: %w", name, err)
	}
	return name, val, nil
}

// ParseBool accepts the spellings used in profiles and on the command line.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}

// FormatBool renders v the way option values are printed.
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
