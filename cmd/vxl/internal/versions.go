package internal

import (
	"context"
	"fmt"

	"github.com/goplus/vxlpkg/internal/vcs"
	"github.com/goplus/vxlpkg/mod/versions"
	"github.com/goplus/vxlpkg/recipe"
	"github.com/spf13/cobra"
)

var (
	versionsFile   string
	versionsRemote bool
	versionsGit    string
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the buildable versions",
	Args:  cobra.NoArgs,
	RunE:  runVersions,
}

func init() {
	versionsCmd.Flags().StringVar(&versionsFile, "versions", "", "versions.json to use instead of the built-in one")
	versionsCmd.Flags().BoolVar(&versionsRemote, "remote", false, "List the tags of the upstream repository instead")
	versionsCmd.Flags().StringVar(&versionsGit, "git", "git", "git executable")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	var v *versions.Versions
	var err error
	if versionsFile != "" {
		v, err = versions.Parse(versionsFile, nil)
	} else {
		v, err = recipe.Versions()
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if versionsRemote {
		tags, err := vcs.NewGitVCS(vcs.WithGitPath(versionsGit)).Tags(context.Background(), v.Repo)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Fprintln(w, tag)
		}
		return nil
	}
	for _, ver := range v.List() {
		fmt.Fprintf(w, "%s\t%s\t%d patches\n", ver, v.Sources[ver].Ref, len(v.Patches[ver]))
	}
	return nil
}
