package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goplus/vxlpkg/recipe"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write profile: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "linux.toml",
			content: `
[settings]
os = "Linux"
arch = "armv8"
"compiler.cppstd" = "17"

[options]
shared = true
core_video = "True"
`,
		},
		{
			name: "toml nested",
			file: "linux.toml",
			content: `
[settings]
os = "Linux"
arch = "armv8"
compiler = { cppstd = 17 }

[options]
shared = true
core_video = 1
`,
		},
		{
			name: "yaml",
			file: "linux.yaml",
			content: `
settings:
  os: Linux
  arch: armv8
  compiler.cppstd: 17
options:
  shared: True
  core_video: on
`,
		},
		{
			name: "hcl",
			file: "linux.hcl",
			content: `
settings = {
  os                = "Linux"
  arch              = "armv8"
  "compiler.cppstd" = "17"
}
options = {
  shared     = true
  core_video = true
}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			if err := r.Load(writeProfile(t, tt.file, tt.content)); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if r.Settings.OS != "Linux" || r.Settings.Arch != "armv8" || r.Settings.CppStd != "17" {
				t.Errorf("Settings = %+v", r.Settings)
			}
			if !r.Options[recipe.Shared] || !r.Options[recipe.CoreVideo] {
				t.Errorf("Options = %v", r.Options)
			}
			if r.Options.Has(recipe.GUI) {
				t.Error("profile set an option it does not mention")
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown option", "p.toml", "[options]\nvgui = true\n", "unknown option"},
		{"unknown setting", "p.toml", "[settings]\nlibcxx = \"libc++\"\n", "unknown setting"},
		{"bad value", "p.yaml", "options:\n  shared: maybe\n", "invalid boolean"},
		{"bad toml", "p.toml", "[options\n", "decode toml"},
		{"bad hcl", "p.hcl", "options = {\n", "parse hcl"},
		{"format", "p.ini", "", "unsupported format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Load(writeProfile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_NotExist(t *testing.T) {
	if err := New().Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load() error = nil, want error")
	}
}

func TestApply(t *testing.T) {
	r := New()
	err := r.Apply(
		[]string{"os=Windows", "compiler.cppstd=20"},
		[]string{"shared=True", "gui=False", "shared=False"},
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !r.Settings.IsWindows() || r.Settings.CppStd != "20" {
		t.Errorf("Settings = %+v", r.Settings)
	}
	if r.Options[recipe.Shared] {
		t.Error("later argument should win")
	}
	if !r.Options.Has(recipe.GUI) || r.Options[recipe.GUI] {
		t.Errorf("gui = %v, want present and false", r.Options[recipe.GUI])
	}

	if err := New().Apply(nil, []string{"vgui=True"}); err == nil {
		t.Error("Apply accepted an unknown option")
	}
	if err := New().Apply([]string{"os"}, nil); err == nil {
		t.Error("Apply accepted a malformed setting")
	}
}

func TestApply_OverridesProfile(t *testing.T) {
	r := New()
	if err := r.Load(writeProfile(t, "p.toml", "[options]\nshared = true\n")); err != nil {
		t.Fatal(err)
	}
	if err := r.Apply(nil, []string{"shared=False"}); err != nil {
		t.Fatal(err)
	}
	if r.Options[recipe.Shared] {
		t.Error("command line option did not override the profile")
	}
}
