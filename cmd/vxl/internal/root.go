package internal

import (
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	workspaceDir string
)

var rootCmd = &cobra.Command{
	Use:   "vxl",
	Short: "vxl configures, builds and packages the VXL libraries",
	Long: `vxl resolves a set of build options for the VXL C++ libraries into a
validated configuration, then drives the CMake build and packages the result.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "Workspace directory (default: user cache dir)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
