package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/health"
	"github.com/firefly-engineering/agentspaces/internal/logging"
)

var gcForce bool

var workspaceGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Garbage collect orphaned workspace resources",
	Long: `Reconciles the storage directory with git's worktree list for the current
repository.

Without --force, prints what would be cleaned (dry run).
With --force, removes orphaned directories and prunes stale worktree entries.

Detects:
  - Orphaned directories: workspace directories git no longer lists as worktrees
  - Stale worktrees: worktree entries under the storage directory whose
    directory is gone`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceGC,
}

func init() {
	workspaceGCCmd.Flags().BoolVar(&gcForce, "force", false, "Actually remove orphaned resources (default is dry run)")
	workspaceCmd.AddCommand(workspaceGCCmd)
}

// gcResult tracks what gc found and would/did clean up.
type gcResult struct {
	Orphaned []string `json:"orphaned"`
	Stale    []string `json:"stale"`
	Removed  bool     `json:"removed"`
}

func (r *gcResult) empty() bool {
	return len(r.Orphaned) == 0 && len(r.Stale) == 0
}

func runWorkspaceGC(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	ctx := cmd.Context()

	cwd, err := workingDir()
	if err != nil {
		return err
	}
	repo, project, err := a.Git.ResolveMain(ctx, cwd)
	if err != nil {
		return err
	}
	projectDir, err := a.Resolver.ProjectDir(project)
	if err != nil {
		return err
	}

	// 1. Workspace directories on disk
	names, err := a.Resolver.ListWorkspaces(project)
	if err != nil {
		return fmt.Errorf("failed to scan workspaces: %w", err)
	}

	result := &gcResult{}
	for _, name := range names {
		dir, err := a.Resolver.WorkspaceDir(project, name)
		if err != nil {
			continue
		}
		if !health.CheckRegistered(ctx, a.Git, repo, dir) {
			result.Orphaned = append(result.Orphaned, dir)
		}
	}

	// 2. Worktree entries under the project directory with no directory
	worktrees, err := a.Git.WorktreeList(ctx, repo)
	if err != nil {
		return err
	}
	for _, wt := range worktrees {
		if wt.IsMain || !isWithin(wt.Path, projectDir) {
			continue
		}
		if _, err := os.Stat(wt.Path); os.IsNotExist(err) {
			result.Stale = append(result.Stale, wt.Path)
		}
	}

	// 3. Report or act
	if !result.empty() && gcForce {
		if err := executeGC(cmd, repo, result); err != nil {
			return err
		}
		result.Removed = true
	}

	if a.JSON {
		return printJSON(cmd, result)
	}
	if result.empty() {
		a.Printer.Info("No orphaned resources found")
		return nil
	}
	if !gcForce {
		printGCDryRun(cmd, result)
	}
	return nil
}

func printGCDryRun(cmd *cobra.Command, result *gcResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Would clean up (use --force to apply):")
	for _, dir := range result.Orphaned {
		fmt.Fprintf(out, "  orphaned directory: %s\n", dir)
	}
	for _, dir := range result.Stale {
		fmt.Fprintf(out, "  stale worktree:     %s\n", dir)
	}
}

func executeGC(cmd *cobra.Command, repo string, result *gcResult) error {
	a := getApp(cmd)
	for _, dir := range result.Orphaned {
		logging.Info("removing orphaned workspace directory", "path", dir)
		if err := os.RemoveAll(dir); err != nil {
			a.Printer.Warning("Failed to remove %s: %v", dir, err)
			continue
		}
		a.Printer.Success("Removed %s", filepath.Base(dir))
	}
	if err := a.Git.WorktreePrune(cmd.Context(), repo); err != nil {
		return err
	}
	if len(result.Stale) > 0 {
		a.Printer.Success("Pruned %d stale worktree entries", len(result.Stale))
	}
	return nil
}
