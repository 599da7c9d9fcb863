package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/health"
)

var workspaceShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show workspace details",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceShow,
}

func init() {
	workspaceCmd.AddCommand(workspaceShowCmd)
}

func runWorkspaceShow(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()
	name := args[0]

	cwd, err := workingDir()
	if err != nil {
		return err
	}
	ws, err := a.Workspaces.Get(ctx, cwd, name)
	if err != nil {
		suggestWorkspaces(ctx, a, cwd, name, err)
		return err
	}
	activeWS := activeName(ctx, a, cwd)

	repo, _, err := a.Git.ResolveMain(ctx, cwd)
	if err != nil {
		return err
	}
	check := health.Check(ctx, a.Git, repo, ws, time.Now())

	if a.JSON {
		return printJSON(cmd, struct {
			workspaceView
			Health       health.Status       `json:"health"`
			HealthChecks *health.CheckResult `json:"health_checks"`
		}{viewOf(ws, activeWS), check.Summary(), check})
	}

	venv := "no"
	if ws.HasVenv {
		venv = "yes"
		if v := environment.Info(ws.Path).PythonVersion; v != nil {
			venv = "yes (python " + *v + ")"
		}
	}
	isActive := ""
	if ws.Name == activeWS {
		isActive = "yes"
	}

	body := renderFields(a.Printer.Styled, []field{
		{"Project", ws.Project},
		{"Path", ws.Path},
		{"Branch", ws.Branch},
		{"Base", ws.BaseBranch},
		{"Status", string(ws.Status)},
		{"Health", string(check.Summary())},
		{"Active", isActive},
		{"Created", optionalTime(ws.CreatedAt)},
		{"Purpose", deref(ws.Purpose)},
		{"Python", deref(ws.PythonVersion)},
		{"Venv", venv},
		{"Deps synced", optionalTime(ws.DepsSyncedAt)},
		{"Last activity", optionalTime(ws.LastActivityAt)},
		{"Idle", check.Idle},
	})
	fmt.Fprintln(cmd.OutOrStdout(), panel(a.Printer.Styled, ws.Name, body))
	return nil
}

// optionalTime formats t, or returns "" so the field is omitted.
func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(t)
}
