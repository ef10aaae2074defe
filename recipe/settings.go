package recipe

import (
	"fmt"
	"runtime"
	"strings"
)

// Settings are the platform facts a build runs on. They are read-only for
// the duration of one resolver pass.
type Settings struct {
	OS              string // "Linux", "Windows", "Macos", ...
	Arch            string // "x86_64", "armv8", ...
	Compiler        string
	CompilerVersion string
	CppStd          string // empty when the compiler exposes no standard setting
	BuildType       string // "Release", "Debug", ...
}

// DefaultSettings returns the settings of the host.
func DefaultSettings() Settings {
	return Settings{
		OS:        osName(runtime.GOOS),
		Arch:      archName(runtime.GOARCH),
		BuildType: "Release",
	}
}

// IsWindows reports whether s targets the Windows family.
func (s Settings) IsWindows() bool {
	return strings.EqualFold(s.OS, "Windows")
}

// Set assigns one setting by its profile key.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "os":
		s.OS = value
	case "arch":
		s.Arch = value
	case "compiler":
		s.Compiler = value
	case "compiler.version":
		s.CompilerVersion = value
	case "compiler.cppstd":
		s.CppStd = value
	case "build_type":
		s.BuildType = value
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

// ParseSetting parses and applies a "key=value" argument.
func (s *Settings) ParseSetting(arg string) error {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("invalid setting %q: expected key=value", arg)
	}
	return s.Set(k, v)
}

// Key returns the canonical form of s; empty settings are omitted.
func (s Settings) Key() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("os", s.OS)
	add("arch", s.Arch)
	add("compiler", s.Compiler)
	add("compiler.version", s.CompilerVersion)
	add("compiler.cppstd", s.CppStd)
	add("build_type", s.BuildType)
	return strings.Join(parts, ",")
}

func osName(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "freebsd":
		return "FreeBSD"
	}
	return goos
}

func archName(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	}
	return goarch
}
