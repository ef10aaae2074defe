package internal

import (
	"fmt"
	"strings"

	"github.com/goplus/vxlpkg/internal/profile"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/spf13/cobra"
)

// requestFlags are shared by every command that resolves a configuration.
type requestFlags struct {
	profile  string
	options  []string
	settings []string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "Profile file (.toml, .yaml, .hcl)")
	cmd.Flags().StringArrayVarP(&f.options, "option", "o", nil, "Option as name=value, may be repeated")
	cmd.Flags().StringArrayVarP(&f.settings, "setting", "s", nil, "Setting as key=value, may be repeated")
}

// request builds the request: host defaults, then the profile, then
// command line arguments.
func (f *requestFlags) request() (*profile.Request, error) {
	req := profile.New()
	if f.profile != "" {
		if err := req.Load(f.profile); err != nil {
			return nil, err
		}
	}
	if err := req.Apply(f.settings, f.options); err != nil {
		return nil, err
	}
	return req, nil
}

// parseVersionArg accepts "2.0.2", "vxl@2.0.2" or nothing.
func parseVersionArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	arg := args[0]
	if i := strings.LastIndex(arg, "@"); i >= 0 {
		if name := arg[:i]; name != recipe.Info.Name {
			return "", fmt.Errorf("unknown package %q", name)
		}
		arg = arg[i+1:]
	}
	return arg, nil
}
