package cmd

import (
	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage isolated workspaces",
	Long: `Create, inspect and remove workspaces of the current git repository.

Commands run from inside a workspace operate on the repository that owns it.`,
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
}
