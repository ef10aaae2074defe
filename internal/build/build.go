package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goplus/vxlpkg/internal/build/lockedfile"
	"github.com/goplus/vxlpkg/internal/deps"
	"github.com/goplus/vxlpkg/internal/env"
	"github.com/goplus/vxlpkg/internal/packaging"
	"github.com/goplus/vxlpkg/internal/resolver"
	"github.com/goplus/vxlpkg/internal/vcs"
	"github.com/goplus/vxlpkg/mod/module"
	"github.com/goplus/vxlpkg/mod/versions"
	"github.com/goplus/vxlpkg/pkgs/buildsys"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/goplus/vxlpkg/x/cmake"
	"github.com/qiniu/x/log"
	"lukechampine.com/blake3"
)

// Dirs are the directories of one build.
type Dirs struct {
	Source  string
	Build   string
	Install string
}

// NewBuildSystemFunc creates the build tool driver for one build.
type NewBuildSystemFunc func(dirs Dirs, cfg *recipe.Configuration) buildsys.BuildSystem

// Options configures a Builder. Zero fields take defaults.
type Options struct {
	WorkspaceDir   string             // default env.WorkDir()
	Versions       *versions.Versions // default recipe.Versions()
	PatchDir       string             // patch files are relative to it
	VCS            vcs.VCS            // default git
	Provider       deps.Provider      // default deps.Store at env.StoreDir()
	Resolver       *resolver.Cache    // default a new cache
	NewBuildSystem NewBuildSystemFunc // default CMake
}

// Builder drives the configure/build/install lifecycle of the package.
type Builder struct {
	workspaceDir   string
	versions       *versions.Versions
	patchDir       string
	vcs            vcs.VCS
	provider       deps.Provider
	resolver       *resolver.Cache
	newBuildSystem NewBuildSystemFunc
}

// Result describes an installed configuration.
type Result struct {
	Module    module.Version
	Config    *recipe.Configuration
	ConfigID  string   // short digest of the configuration key
	OutputDir string   // install prefix
	Libs      []string // collected library names
	Metadata  string   // linker flags for Libs
	Cached    bool     // true if no build ran
}

// NewBuilder creates a Builder from opts.
func NewBuilder(opts Options) (*Builder, error) {
	b := &Builder{
		workspaceDir:   opts.WorkspaceDir,
		versions:       opts.Versions,
		patchDir:       opts.PatchDir,
		vcs:            opts.VCS,
		provider:       opts.Provider,
		resolver:       opts.Resolver,
		newBuildSystem: opts.NewBuildSystem,
	}
	if b.workspaceDir == "" {
		dir, err := env.WorkDir()
		if err != nil {
			return nil, err
		}
		b.workspaceDir = dir
	}
	if err := os.MkdirAll(b.workspaceDir, 0o755); err != nil {
		return nil, err
	}
	if b.versions == nil {
		v, err := recipe.Versions()
		if err != nil {
			return nil, err
		}
		b.versions = v
	}
	if b.vcs == nil {
		b.vcs = vcs.NewGitVCS()
	}
	if b.provider == nil {
		dir, err := env.StoreDir()
		if err != nil {
			return nil, err
		}
		b.provider = deps.NewStore(dir)
	}
	if b.resolver == nil {
		b.resolver = resolver.New()
	}
	if b.newBuildSystem == nil {
		b.newBuildSystem = NewCMake
	}
	return b, nil
}

// NewCMake is the default NewBuildSystemFunc.
func NewCMake(dirs Dirs, cfg *recipe.Configuration) buildsys.BuildSystem {
	c := cmake.New(dirs.Source, dirs.Build, dirs.Install)
	c.BuildType(cfg.Settings.BuildType)
	return c
}

// Configure resolves req on s without building anything.
func (b *Builder) Configure(req recipe.Options, s recipe.Settings) (*recipe.Configuration, error) {
	return b.resolver.Resolve(req, s)
}

// Build builds and installs one version for req on s. An empty version
// means the latest known one. An invalid configuration or a missing
// dependency fails before any source is fetched.
func (b *Builder) Build(ctx context.Context, version string, req recipe.Options, s recipe.Settings) (*Result, error) {
	if version == "" {
		version = b.versions.Latest()
	}
	cfg, err := b.resolver.Resolve(req, s)
	if err != nil {
		return nil, err
	}
	src, err := b.versions.Source(version)
	if err != nil {
		return nil, err
	}
	pkgs, err := b.provider.Provide(ctx, cfg.Requires)
	if err != nil {
		return nil, err
	}

	mod := module.Version{Path: b.versions.Path, Version: version}
	res := &Result{
		Module:   mod,
		Config:   cfg,
		ConfigID: configID(cfg),
	}
	res.OutputDir, err = b.installDir(mod.Path, version, res.ConfigID)
	if err != nil {
		return nil, err
	}

	unlock, err := lockedfile.MutexAt(res.OutputDir + ".lock").Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Check cache after acquiring lock (another process may have built it)
	if cache, err := b.loadCache(mod.Path); err == nil {
		if entry, ok := cache.get(version, res.ConfigID); ok {
			if _, err := os.Stat(res.OutputDir); err == nil {
				log.Infof("%s: using cached build %s", mod, res.ConfigID)
				res.Libs = entry.Libs
				res.Metadata = entry.Metadata
				res.Cached = true
				return res, nil
			}
		}
	}

	workDir, err := b.workDir(mod.Path, version, res.ConfigID)
	if err != nil {
		return nil, err
	}
	dirs := Dirs{
		Source:  filepath.Join(workDir, "src"),
		Build:   filepath.Join(workDir, "build"),
		Install: res.OutputDir,
	}

	log.Infof("%s: fetching %s@%s", mod, b.versions.Repo, src.Ref)
	if err := b.vcs.Sync(ctx, b.versions.Repo, src.Ref, dirs.Source); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", mod, err)
	}
	for _, p := range b.versions.Patches[version] {
		log.Debugf("%s: applying %s", mod, p.File)
		if err := b.vcs.Apply(ctx, dirs.Source, filepath.Join(b.patchDir, p.File), p.BasePath); err != nil {
			return nil, fmt.Errorf("patch %s: %w", mod, err)
		}
	}

	if err := b.run(ctx, dirs, cfg, pkgs); err != nil {
		return nil, fmt.Errorf("build %s: %w", mod, err)
	}

	if err := packaging.CopyLicense(dirs.Source, res.OutputDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Warnf("%s: no %s in sources", mod, packaging.LicenseFile)
	}
	res.Libs, err = packaging.CollectLibs(res.OutputDir)
	if err != nil {
		return nil, err
	}
	res.Metadata = packaging.LinkFlags(res.Libs)

	cache, err := b.loadCache(mod.Path)
	if err != nil {
		cache = &buildCache{}
	}
	cache.set(version, res.ConfigID, &buildEntry{
		Config:    cfg.Key(),
		Libs:      res.Libs,
		Metadata:  res.Metadata,
		BuildTime: time.Now(),
	})
	if err := b.saveCache(mod.Path, cache); err != nil {
		return nil, err
	}
	log.Infof("%s: installed to %s", mod, res.OutputDir)
	return res, nil
}

// run drives the build tool. The process environment is restored
// afterwards since dependencies are injected through it.
func (b *Builder) run(ctx context.Context, dirs Dirs, cfg *recipe.Configuration, pkgs []deps.Package) error {
	savedEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, e := range savedEnv {
			if k, v, ok := strings.Cut(e, "="); ok {
				os.Setenv(k, v)
			}
		}
	}()

	bs := b.newBuildSystem(dirs, cfg)
	if vc, ok := bs.(buildsys.VersionChecker); ok {
		if err := vc.CheckVersion(ctx, cmake.MinVersion); err != nil {
			return err
		}
	}
	for _, p := range pkgs {
		log.Debugf("use %s at %s", p.Version, p.Root)
		bs.Use(p.Root)
	}
	applyDefinitions(bs, cfg.Definitions)

	// a stale prefix from an interrupted build must not leak into the package
	if err := os.RemoveAll(dirs.Install); err != nil {
		return err
	}
	if err := bs.Configure(ctx); err != nil {
		return err
	}
	if err := bs.Build(ctx); err != nil {
		return err
	}
	return bs.Install(ctx)
}

// applyDefinitions hands every definition to bs verbatim.
func applyDefinitions(bs buildsys.BuildSystem, defs recipe.Definitions) {
	for _, k := range defs.Keys() {
		switch v := defs[k].(type) {
		case bool:
			bs.DefineBool(k, v)
		case string:
			bs.Define(k, v)
		default:
			bs.Define(k, fmt.Sprint(v))
		}
		log.Debugf("define %s=%v", k, defs[k])
	}
}

// Package writes the installed files of res to dest, see packaging.Archive.
func (b *Builder) Package(res *Result, dest string) (*packaging.Artifact, error) {
	return packaging.Archive(res.OutputDir, dest)
}

// configID returns a short stable name for cfg, usable in paths.
func configID(cfg *recipe.Configuration) string {
	sum := blake3.Sum256([]byte(cfg.Key()))
	return fmt.Sprintf("%x", sum[:8])
}
