package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/agent"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run coding agents in workspaces",
}

var agentLaunchCmd = &cobra.Command{
	Use:   "launch [workspace]",
	Short: "Launch Claude Code in a workspace",
	Long: `Starts an interactive Claude Code session in a workspace.

Without a name the workspace containing the current directory is used,
then the project's active workspace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAgentLaunch,
}

var (
	launchPrompt     string
	launchUsePurpose bool
	launchPlanMode   bool
	launchNoPlanMode bool
)

func init() {
	agentLaunchCmd.Flags().StringVarP(&launchPrompt, "prompt", "p", "", "Initial prompt for the agent")
	agentLaunchCmd.Flags().BoolVar(&launchUsePurpose, "use-purpose", false, "Use the workspace purpose as the initial prompt")
	agentLaunchCmd.Flags().BoolVar(&launchPlanMode, "plan-mode", false, "Start the agent in plan mode")
	agentLaunchCmd.Flags().BoolVar(&launchNoPlanMode, "no-plan-mode", false, "Disable plan mode even if enabled in config")
	agentLaunchCmd.MarkFlagsMutuallyExclusive("prompt", "use-purpose")
	agentLaunchCmd.MarkFlagsMutuallyExclusive("plan-mode", "no-plan-mode")

	agentCmd.AddCommand(agentLaunchCmd)
	rootCmd.AddCommand(agentCmd)
}

func runAgentLaunch(cmd *cobra.Command, args []string) error {
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

	prompt := launchPrompt
	if launchUsePurpose {
		resolved, err := a.Launcher.ResolveName(ctx, name, cwd)
		if err != nil {
			return err
		}
		ws, err := a.Workspaces.Get(ctx, cwd, resolved)
		if err != nil {
			suggestWorkspaces(ctx, a, cwd, resolved, err)
			return err
		}
		if ws.Purpose == nil || *ws.Purpose == "" {
			return errors.ValidationErrorf("workspace %s has no purpose set", ws.Name)
		}
		name = resolved
		prompt = *ws.Purpose
	}

	planMode := a.Config.PlanModeByDefault
	switch {
	case launchPlanMode:
		planMode = true
	case launchNoPlanMode:
		planMode = false
	}
	logging.Debug("launch options", "workspace", name, "plan_mode", planMode, "has_prompt", prompt != "")

	res, err := a.Launcher.Launch(ctx, name, agent.LaunchOptions{
		Cwd:      cwd,
		Prompt:   prompt,
		PlanMode: planMode,
	})
	if err != nil {
		if name != "" {
			suggestWorkspaces(ctx, a, cwd, name, err)
		}
		return err
	}

	if a.JSON {
		if err := printJSON(cmd, res); err != nil {
			return err
		}
	}
	if res.ExitCode != 0 {
		return errors.New(errors.KindAgent, res.ExitCode,
			fmt.Sprintf("%s exited with code %d", a.Launcher.Agent().Name(), res.ExitCode))
	}
	return nil
}
