package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/goplus/vxlpkg/internal/build"
	"github.com/goplus/vxlpkg/internal/deps"
	"github.com/goplus/vxlpkg/internal/resolver"
	"github.com/goplus/vxlpkg/internal/vcs"
	"github.com/goplus/vxlpkg/mod/versions"
	"github.com/goplus/vxlpkg/pkgs/buildsys"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/goplus/vxlpkg/x/cmake"
	"github.com/spf13/cobra"
)

// builderFlags configure how a build runs.
type builderFlags struct {
	requestFlags
	store     string
	versions  string
	generator string
	toolchain string
	cmake     string
	git       string
	jobs      int
}

func (f *builderFlags) register(cmd *cobra.Command) {
	f.requestFlags.register(cmd)
	cmd.Flags().StringVar(&f.store, "store", "", "Directory of installed dependencies (default: <workspace>/packages)")
	cmd.Flags().StringVar(&f.versions, "versions", "", "versions.json to use instead of the built-in one")
	cmd.Flags().StringVarP(&f.generator, "generator", "G", "", "CMake generator")
	cmd.Flags().StringVar(&f.toolchain, "toolchain", "", "CMake toolchain file")
	cmd.Flags().StringVar(&f.cmake, "cmake", "cmake", "cmake executable")
	cmd.Flags().StringVar(&f.git, "git", "git", "git executable")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Parallel build jobs")
}

func (f *builderFlags) builder() (*build.Builder, error) {
	opts := build.Options{
		WorkspaceDir:   workspaceDir,
		VCS:            vcs.NewGitVCS(vcs.WithGitPath(f.git)),
		Resolver:       resolver.New(),
		NewBuildSystem: f.newBuildSystem,
	}
	if f.store != "" {
		opts.Provider = deps.NewStore(f.store)
	}
	if f.versions != "" {
		v, err := versions.Parse(f.versions, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f.versions, err)
		}
		opts.Versions = v
		opts.PatchDir = filepath.Dir(f.versions)
	}
	return build.NewBuilder(opts)
}

func (f *builderFlags) newBuildSystem(dirs build.Dirs, cfg *recipe.Configuration) buildsys.BuildSystem {
	c := cmake.New(dirs.Source, dirs.Build, dirs.Install)
	c.Program(f.cmake)
	c.BuildType(cfg.Settings.BuildType)
	c.Generator(f.generator)
	c.Toolchain(f.toolchain)
	c.Jobs(f.jobs)
	if !verbose {
		c.Output(io.Discard, os.Stderr)
	}
	return c
}

// runBuild builds the version named by args for the requested configuration.
func (f *builderFlags) runBuild(args []string) (*build.Builder, *build.Result, error) {
	version, err := parseVersionArg(args)
	if err != nil {
		return nil, nil, err
	}
	req, err := f.request()
	if err != nil {
		return nil, nil, err
	}
	b, err := f.builder()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create builder: %w", err)
	}
	res, err := b.Build(context.Background(), version, req.Options, req.Settings)
	if err != nil {
		return nil, nil, err
	}
	return b, res, nil
}

var buildFlags builderFlags

var buildCmd = &cobra.Command{
	Use:   "build [version]",
	Short: "Build and install one configuration",
	Long: `Build resolves the requested configuration, locates its dependencies,
fetches and patches the sources and runs the CMake configure, build and
install steps. Results are cached per version and configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := buildFlags.runBuild(args)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	buildFlags.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func printResult(w io.Writer, res *build.Result) {
	state := color.Green.Sprint("built")
	if res.Cached {
		state = color.Yellow.Sprint("cached")
	}
	fmt.Fprintf(w, "%s %s (%s)\n", res.Module, state, res.ConfigID)
	fmt.Fprintf(w, "prefix: %s\n", res.OutputDir)
	if res.Metadata != "" {
		fmt.Fprintf(w, "libs: %s\n", res.Metadata)
	}
}
