package cmd

import (
	"github.com/spf13/cobra"
)

var workspaceSyncCmd = &cobra.Command{
	Use:   "sync [name]",
	Short: "Sync Python dependencies",
	Long: `Runs uv sync in a workspace, or in the active workspace when no name is
given, and records the sync time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkspaceSync,
}

func init() {
	workspaceCmd.AddCommand(workspaceSyncCmd)
}

func runWorkspaceSync(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()

	var name string
	if len(args) == 1 {
		name = args[0]
	}
	cwd, err := workingDir()
	if err != nil {
		return err
	}

	a.Printer.Info("Syncing dependencies...")
	ws, err := a.Workspaces.SyncDeps(ctx, cwd, name)
	if err != nil {
		if name != "" {
			suggestWorkspaces(ctx, a, cwd, name, err)
		}
		return err
	}

	if a.JSON {
		return printJSON(cmd, viewOf(ws, activeName(ctx, a, cwd)))
	}
	a.Printer.Success("Synced dependencies for %s", ws.Name)
	return nil
}
