package internal

import (
	"fmt"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	packageFlags  builderFlags
	packageOutput string
)

var packageCmd = &cobra.Command{
	Use:   "package [version]",
	Short: "Build one configuration and write it as a package",
	Long: `Package builds like "vxl build" and writes the install prefix to the
output path. The format follows the output name: a directory, .zip, .tar,
.tar.gz, .tar.zst or .tar.xz. Archives get a BLAKE3 digest file next to them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPackage,
}

func init() {
	packageFlags.register(packageCmd)
	packageCmd.Flags().StringVar(&packageOutput, "out", "", "Output path (directory or archive)")
	packageCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	// Resolve output path to absolute before build
	dest, err := filepath.Abs(packageOutput)
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}
	b, res, err := packageFlags.runBuild(args)
	if err != nil {
		return err
	}
	art, err := b.Package(res, dest)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	w := cmd.OutOrStdout()
	printResult(w, res)
	fmt.Fprintf(w, "%s %s\n", color.Cyan.Sprint(art.Format), art.Path)
	if art.Digest != "" {
		fmt.Fprintf(w, "blake3: %s\n", art.Digest)
	}
	return nil
}
