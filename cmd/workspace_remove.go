package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

var workspaceRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a workspace",
	Long: `Removes the worktree, its metadata and, for generated workspaces, the
branch created for it. Workspaces with uncommitted changes are kept unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspaceRemove,
}

var (
	removeForce bool
	removeYes   bool
)

func init() {
	workspaceRemoveCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Remove even with uncommitted changes")
	workspaceRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation")
	workspaceCmd.AddCommand(workspaceRemoveCmd)
}

func runWorkspaceRemove(cmd *cobra.Command, args []string) error {
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
	if isWithin(cwd, ws.Path) {
		return errors.ValidationErrorf("cannot remove workspace %s while inside it; cd elsewhere first", name)
	}

	if !removeYes && !a.JSON {
		if !confirm(cmd, "Remove workspace "+name+"?") {
			a.Printer.Info("Aborted")
			return nil
		}
	}

	if err := a.Workspaces.Remove(ctx, cwd, name, removeForce); err != nil {
		return err
	}

	if a.JSON {
		return printJSON(cmd, map[string]string{"removed": name})
	}
	a.Printer.Success("Removed workspace %s", name)
	return nil
}

// isWithin reports whether path is dir or below it.
func isWithin(path, dir string) bool {
	path = canonicalPath(path)
	dir = canonicalPath(dir)
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func canonicalPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
