package cmd

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

var workspaceCreateCmd = &cobra.Command{
	Use:   "create [base-branch]",
	Short: "Create a new workspace",
	Long: `Creates a git worktree with a generated name (e.g. eager-turing) on a new
branch started from base-branch (default HEAD).

With --attach the worktree checks out an existing branch instead and is
named after it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkspaceCreate,
}

var (
	createPurpose string
	createPython  string
	createNoVenv  bool
	createAttach  string
)

func init() {
	workspaceCreateCmd.Flags().StringVarP(&createPurpose, "purpose", "p", "", "What this workspace is for")
	workspaceCreateCmd.Flags().StringVar(&createPython, "python-version", "", "Python version for the venv (e.g. 3.12)")
	workspaceCreateCmd.Flags().BoolVar(&createNoVenv, "no-venv", false, "Skip virtual environment setup")
	workspaceCreateCmd.Flags().StringVar(&createAttach, "attach", "", "Check out an existing branch instead of creating one")
	workspaceCmd.AddCommand(workspaceCreateCmd)
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	cwd, err := workingDir()
	if err != nil {
		return err
	}

	opts := workspace.CreateOptions{
		Cwd:           cwd,
		BaseBranch:    workspace.DefaultBaseBranch,
		AttachBranch:  createAttach,
		Purpose:       createPurpose,
		PythonVersion: createPython,
		SetupVenv:     !createNoVenv,
	}
	if len(args) == 1 {
		if createAttach != "" {
			return errors.ValidationError("a base branch cannot be combined with --attach")
		}
		opts.BaseBranch = args[0]
	}

	logging.Debug("creating workspace", "base", opts.BaseBranch, "attach", opts.AttachBranch)
	ws, err := a.Workspaces.Create(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if a.JSON {
		return printJSON(cmd, viewOf(ws, ""))
	}
	printCreated(cmd, ws)
	return nil
}

// printCreated shows the new workspace and how to start working in it.
func printCreated(cmd *cobra.Command, ws workspace.Workspace) {
	a := getApp(cmd)
	p := a.Printer
	p.Success("Created workspace %s", ws.Name)
	if p.Quiet {
		return
	}

	python := deref(ws.PythonVersion)
	if python == "" && ws.HasVenv {
		python = "system default"
	}
	body := renderFields(p.Styled, []field{
		{"Path", ws.Path},
		{"Branch", ws.Branch},
		{"Base", ws.BaseBranch},
		{"Purpose", deref(ws.Purpose)},
		{"Python", python},
	})

	steps := []string{"cd " + shellquote.Join(ws.Path)}
	if ws.HasVenv {
		if activate := environment.ActivationCommand(ws.Path); activate != "" {
			steps = append(steps, activate)
		}
	}
	steps = append(steps, "agentspaces agent launch "+ws.Name)

	fmt.Fprintln(p.Out, panel(p.Styled, ws.Name, body))
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, dim(p.Styled, "Next steps:"))
	fmt.Fprintln(p.Out, "  "+strings.Join(steps, "\n  "))
}
