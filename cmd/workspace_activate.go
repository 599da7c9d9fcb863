package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workspaceActivateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Set the active workspace",
	Long: `Marks a workspace as the project's active one. Commands that take an
optional workspace name fall back to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspaceActivate,
}

var workspaceActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active workspace",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaceActive,
}

func init() {
	workspaceCmd.AddCommand(workspaceActivateCmd)
	workspaceCmd.AddCommand(workspaceActiveCmd)
}

func runWorkspaceActivate(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()
	name := args[0]

	cwd, err := workingDir()
	if err != nil {
		return err
	}
	ws, err := a.Workspaces.Activate(ctx, cwd, name)
	if err != nil {
		suggestWorkspaces(ctx, a, cwd, name, err)
		return err
	}

	if a.JSON {
		return printJSON(cmd, viewOf(ws, ws.Name))
	}
	a.Printer.Success("Active workspace: %s", ws.Name)
	return nil
}

func runWorkspaceActive(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	cwd, err := workingDir()
	if err != nil {
		return err
	}
	ws, err := a.Workspaces.GetActive(cmd.Context(), cwd)
	if err != nil {
		return err
	}

	if a.JSON {
		if ws == nil {
			return printJSON(cmd, nil)
		}
		return printJSON(cmd, viewOf(*ws, ws.Name))
	}
	if ws == nil {
		a.Printer.Info("No active workspace")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ws.Name)
	return nil
}
