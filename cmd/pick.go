package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/agent"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/tui"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive workspace picker",
	Long: `Opens an interactive TUI for selecting workspaces of the current repository.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Launch the agent in the selected workspace
  n      - Create a new workspace
  d      - Remove the selected workspace
  q/Esc  - Quit

When stdout is not a terminal the workspaces are printed instead.`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()

	cwd, err := workingDir()
	if err != nil {
		return err
	}
	list, err := a.Workspaces.List(ctx, cwd)
	if err != nil {
		return err
	}
	activeWS := activeName(ctx, a, cwd)

	if a.JSON || !logging.IsTerminal(os.Stdout) {
		fmt.Fprint(cmd.OutOrStdout(), tui.SimplePicker(list, activeWS))
		return nil
	}

	logging.Debug("picker mode started", "workspaces", len(list))
	project, _ := a.Workspaces.ProjectName(ctx, cwd)
	result, err := tui.RunPicker(list, tui.PickerOptions{
		Project:     project,
		Active:      activeWS,
		AllowCreate: true,
	})
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}
	logging.Debug("picker result", "action", result.Action)

	switch result.Action {
	case tui.ActionLaunch:
		if result.Workspace == nil {
			return nil
		}
		_, err := a.Launcher.Launch(ctx, result.Workspace.Name, agent.LaunchOptions{
			Cwd:      cwd,
			PlanMode: a.Config.PlanModeByDefault,
		})
		return err

	case tui.ActionNew:
		if result.Create == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "To create a new workspace, run:")
			fmt.Fprintln(cmd.OutOrStdout(), "  agentspaces workspace create [base-branch] -p <purpose>")
			return nil
		}
		opts := *result.Create
		opts.Cwd = cwd
		ws, err := a.Workspaces.Create(ctx, opts)
		if err != nil {
			return err
		}
		printCreated(cmd, ws)

	case tui.ActionRemove:
		if result.Workspace == nil {
			return nil
		}
		return removeFromPicker(cmd, cwd, *result.Workspace)

	case tui.ActionQuit, tui.ActionNone:
	}
	return nil
}

func removeFromPicker(cmd *cobra.Command, cwd string, ws workspace.Workspace) error {
	a := getApp(cmd)
	if isWithin(cwd, ws.Path) {
		a.Printer.Warning("Cannot remove %s while inside it", ws.Name)
		return nil
	}
	if !confirm(cmd, "Remove workspace "+ws.Name+"?") {
		a.Printer.Info("Aborted")
		return nil
	}
	if err := a.Workspaces.Remove(cmd.Context(), cwd, ws.Name, false); err != nil {
		return err
	}
	a.Printer.Success("Removed workspace %s", ws.Name)
	return nil
}
