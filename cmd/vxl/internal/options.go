package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the build options and their defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printOptions(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

func printOptions(w io.Writer) {
	info := recipe.Info
	fmt.Fprintf(w, "%s  %s\n", color.Bold.Sprint(info.Name), info.Description)
	fmt.Fprintf(w, "license: %s\nhomepage: %s\ntopics: %s\n\n", info.License, info.Homepage, strings.Join(info.Topics, ", "))
	for _, opt := range recipe.Schema {
		fmt.Fprintf(w, "%s %s  %s\n",
			color.Cyan.Sprintf("%-20s", opt.Name),
			color.Yellow.Sprintf("%-5s", recipe.FormatBool(opt.Default)),
			opt.Help)
	}
}
