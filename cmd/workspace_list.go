package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/active"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

var workspaceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workspaces",
	Long: `Lists the workspaces of the current repository, or of another project
with --project.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceList,
}

var (
	listProject string
	listSort    string
)

func init() {
	workspaceListCmd.Flags().StringVar(&listProject, "project", "", "List workspaces of this project instead of the current repository")
	workspaceListCmd.Flags().StringVar(&listSort, "sort", workspace.SortByName, "Sort by name, created or branch")
	workspaceCmd.AddCommand(workspaceListCmd)
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()

	var (
		list       []workspace.Workspace
		activeWS   string
		listErr    error
		projectDir string
	)
	if listProject != "" {
		list, listErr = a.Workspaces.ListProject(listProject)
		projectDir, _ = a.Resolver.ProjectDir(listProject)
		if projectDir != "" {
			activeWS = active.Get(projectDir)
		}
	} else {
		cwd, err := workingDir()
		if err != nil {
			return err
		}
		list, listErr = a.Workspaces.List(ctx, cwd)
		activeWS = activeName(ctx, a, cwd)
	}
	if listErr != nil {
		return listErr
	}
	if err := workspace.Sort(list, listSort); err != nil {
		return err
	}

	if a.JSON {
		views := make([]workspaceView, len(list))
		for i, ws := range list {
			views[i] = viewOf(ws, activeWS)
		}
		return printJSON(cmd, views)
	}

	if len(list) == 0 {
		a.Printer.Info("No workspaces found. Create one with: agentspaces workspace create")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tBRANCH\tBASE\tCREATED\tPURPOSE")
	for _, ws := range list {
		marker := " "
		if ws.Name == activeWS {
			marker = "*"
		}
		base := ws.BaseBranch
		if base == "" {
			base = "-"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\n",
			marker, ws.Name, ws.Branch, base, formatTime(ws.CreatedAt), truncateText(deref(ws.Purpose), 50))
	}
	return w.Flush()
}

func truncateText(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
