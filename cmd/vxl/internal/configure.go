package internal

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/spf13/cobra"
)

var configureFlags requestFlags

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Resolve and validate a configuration without building",
	Long: `Configure normalizes the requested options for the target settings,
validates them and prints the resulting options, required packages and
CMake definitions.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var requiresFlags requestFlags

var requiresCmd = &cobra.Command{
	Use:   "requires",
	Short: "Print the packages a configuration requires",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolve(&requiresFlags)
		if err != nil {
			return err
		}
		for _, r := range cfg.Requires {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

func init() {
	configureFlags.register(configureCmd)
	requiresFlags.register(requiresCmd)
	rootCmd.AddCommand(configureCmd, requiresCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(&configureFlags)
	if err != nil {
		return err
	}
	printConfiguration(cmd.OutOrStdout(), cfg)
	return nil
}

func resolve(f *requestFlags) (*recipe.Configuration, error) {
	req, err := f.request()
	if err != nil {
		return nil, err
	}
	return recipe.Configure(req.Options, req.Settings)
}

func printConfiguration(w io.Writer, cfg *recipe.Configuration) {
	section := func(name string) {
		fmt.Fprintln(w, color.Bold.Sprint("["+name+"]"))
	}
	section("settings")
	fmt.Fprintln(w, cfg.Settings.Key())

	section("options")
	for _, opt := range recipe.Schema {
		if cfg.Options.Has(opt.Name) {
			fmt.Fprintf(w, "%s=%s\n", opt.Name, recipe.FormatBool(cfg.Options.Get(opt.Name)))
		}
	}

	section("requires")
	for _, r := range cfg.Requires {
		fmt.Fprintln(w, r)
	}

	section("definitions")
	for _, k := range cfg.Definitions.Keys() {
		v := cfg.Definitions[k]
		if b, ok := v.(bool); ok {
			v = recipe.FormatBool(b)
		}
		fmt.Fprintf(w, "%s=%v\n", k, v)
	}
}
