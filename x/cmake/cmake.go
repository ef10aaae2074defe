// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/goplus/vxlpkg/pkgs/buildsys"
	"golang.org/x/mod/semver"
)

// MinVersion is the oldest cmake able to configure the VXL tree.
const MinVersion = "3.9.5"

// ErrVersion is returned by CheckVersion when cmake is too old.
var ErrVersion = errors.New("cmake version too old")

type defineValue struct {
	value    string
	typeName string
}

// CMake drives CMake-based builds.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	program    string
	jobs       int
	stdout     io.Writer
	stderr     io.Writer
	defines    map[string]defineValue
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		program:    "cmake",
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		defines:    make(map[string]defineValue),
	}
}

// Program sets the cmake executable.
func (c *CMake) Program(path string) { c.program = path }

// Output redirects the output of cmake.
func (c *CMake) Output(stdout, stderr io.Writer) {
	c.stdout, c.stderr = stdout, stderr
}

// Jobs sets the number of parallel build jobs; 0 leaves it to the generator.
func (c *CMake) Jobs(n int) { c.jobs = n }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Use configures the process environment so that CMake and compilers find
// headers, libraries and pkg-config files from a non-system dependency
// installed at root.
func (c *CMake) Use(root string) {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if _, err := os.Stat(pkgconfigDir); err == nil {
		prependPath("PKG_CONFIG_PATH", pkgconfigDir)
	}
	prependPath("CMAKE_PREFIX_PATH", root)
	if _, err := os.Stat(includeDir); err == nil {
		prependPath("CMAKE_INCLUDE_PATH", includeDir)
	}
	if _, err := os.Stat(libDir); err == nil {
		prependPath("CMAKE_LIBRARY_PATH", libDir)
	}

	if runtime.GOOS == "windows" {
		if _, err := os.Stat(includeDir); err == nil {
			prependPath("INCLUDE", includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			prependPath("LIB", libDir)
		}
	} else {
		if _, err := os.Stat(includeDir); err == nil {
			appendFlag("CPPFLAGS", "-I"+includeDir)
		}
		if _, err := os.Stat(libDir); err == nil {
			appendFlag("LDFLAGS", "-L"+libDir)
		}
	}
}

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	if c.jobs > 0 {
		cmakeArgs = append(cmakeArgs, "--parallel", strconv.Itoa(c.jobs))
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(ctx context.Context, args ...string) error {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return c.run(ctx, cmakeArgs)
}

// CheckVersion fails with ErrVersion if the cmake found is older than min.
func (c *CMake) CheckVersion(ctx context.Context, min string) error {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.program, "--version")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s --version: %w", c.program, err)
	}
	have, err := parseVersion(out.String())
	if err != nil {
		return err
	}
	if semver.Compare("v"+have, "v"+min) < 0 {
		return fmt.Errorf("%w: have %s, need at least %s", ErrVersion, have, min)
	}
	return nil
}

// parseVersion extracts the version from "cmake version 3.27.4" output.
// Suffixes like "-rc1" or "-dirty" are dropped.
func parseVersion(output string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[1] != "version" {
		return "", fmt.Errorf("unexpected cmake --version output %q", line)
	}
	v, _, _ := strings.Cut(fields[2], "-")
	if !semver.IsValid("v" + v) {
		return "", fmt.Errorf("invalid cmake version %q", fields[2])
	}
	return v, nil
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.program, args...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", c.program, args[0], err)
	}
	return nil
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := c.defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}

// prependPath prepends value to a PATH-style env var.
func prependPath(key, value string) {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur := os.Getenv(key); cur != "" {
		value += sep + cur
	}
	os.Setenv(key, value)
}

// appendFlag appends a space-separated flag to an env var.
func appendFlag(key, flag string) {
	if cur := os.Getenv(key); cur != "" {
		flag = cur + " " + flag
	}
	os.Setenv(key, flag)
}
