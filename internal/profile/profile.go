// Package profile builds a recipe request from profile files and
// command line arguments.
//
// A profile has two sections, settings and options:
//
//	[settings]
//	os = "Linux"
//	"compiler.cppstd" = "17"
//
//	[options]
//	shared = true
//	core_video = true
//
// The same layout is accepted as YAML (.yaml, .yml) and HCL (.hcl) with
// settings and options given as objects.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Request is what the caller asks the resolver for.
type Request struct {
	Settings recipe.Settings
	Options  recipe.Options
}

// New returns a request for the host with every option left at its default.
func New() *Request {
	return &Request{
		Settings: recipe.DefaultSettings(),
		Options:  make(recipe.Options),
	}
}

// document is the TOML and YAML form of a profile.
type document struct {
	Settings map[string]any `toml:"settings" yaml:"settings"`
	Options  map[string]any `toml:"options" yaml:"options"`
}

type hclDocument struct {
	Settings map[string]string `hcl:"settings,optional"`
	Options  map[string]string `hcl:"options,optional"`
}

// Load merges the profile at path into r. Values already in r are
// overwritten by the profile.
func (r *Request) Load(path string) error {
	settings, options, err := parseFile(path)
	if err != nil {
		return err
	}
	if err := r.apply(settings, options); err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	return nil
}

// Apply merges "key=value" settings and "name=value" options into r.
func (r *Request) Apply(settings, options []string) error {
	for _, arg := range settings {
		if err := r.Settings.ParseSetting(arg); err != nil {
			return err
		}
	}
	for _, arg := range options {
		name, val, err := recipe.ParseOption(arg)
		if err != nil {
			return err
		}
		r.Options[name] = val
	}
	return nil
}

func (r *Request) apply(settings, options map[string]string) error {
	for _, k := range sortedKeys(settings) {
		if err := r.Settings.Set(k, settings[k]); err != nil {
			return err
		}
	}
	for _, k := range sortedKeys(options) {
		name, val, err := recipe.ParseOption(k + "=" + options[k])
		if err != nil {
			return err
		}
		r.Options[name] = val
	}
	return nil
}

func parseFile(path string) (settings, options map[string]string, err error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var doc document
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return nil, nil, fmt.Errorf("decode toml %s: %w", path, err)
		}
		return flatten(doc.Settings), flatten(doc.Options), nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("decode yaml %s: %w", path, err)
		}
		return flatten(doc.Settings), flatten(doc.Options), nil
	case ".hcl":
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("parse hcl %s: %w", path, diags)
		}
		var doc hclDocument
		if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
			return nil, nil, fmt.Errorf("decode hcl %s: %w", path, diags)
		}
		return doc.Settings, doc.Options, nil
	default:
		return nil, nil, fmt.Errorf("profile %s: unsupported format %q", path, ext)
	}
}

// flatten turns nested tables into dotted keys, so that
// compiler = {version = "13"} reads as compiler.version.
func flatten(m map[string]any) map[string]string {
	ret := make(map[string]string, len(m))
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if prefix != "" {
				k = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(k, sub)
				continue
			}
			ret[k] = fmt.Sprint(v)
		}
	}
	walk("", m)
	return ret
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
