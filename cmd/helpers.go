package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/agentspaces/internal/app"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/similarity"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// getApp returns the App built by the root command.
func getApp(cmd *cobra.Command) *app.App {
	if a := app.FromContext(cmd.Context()); a != nil {
		return a
	}
	// Commands executed without the root pre-run (e.g. direct RunE calls).
	return app.New(extraAppOptions...)
}

// workingDir returns the current directory.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return cwd, nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// suggestWorkspaces prints did-you-mean hints when err is a NotFound for name.
func suggestWorkspaces(ctx context.Context, a *app.App, cwd, name string, err error) {
	if !errors.IsKind(err, errors.KindNotFound) {
		return
	}
	names, listErr := a.Workspaces.Names(ctx, cwd)
	if listErr != nil {
		return
	}
	a.Printer.DidYouMean(similarity.SuggestDefault(name, names))
}

// confirm asks a yes/no question on the command's streams. Anything but
// y/yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// workspaceView is the JSON shape of a workspace.
type workspaceView struct {
	Name           string     `json:"name"`
	Project        string     `json:"project"`
	Path           string     `json:"path"`
	Branch         string     `json:"branch"`
	BaseBranch     string     `json:"base_branch,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	Purpose        *string    `json:"purpose,omitempty"`
	PythonVersion  *string    `json:"python_version,omitempty"`
	HasVenv        bool       `json:"has_venv"`
	Status         string     `json:"status"`
	DepsSyncedAt   *time.Time `json:"deps_synced_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	Active         bool       `json:"active"`
}

func viewOf(ws workspace.Workspace, active string) workspaceView {
	return workspaceView{
		Name:           ws.Name,
		Project:        ws.Project,
		Path:           ws.Path,
		Branch:         ws.Branch,
		BaseBranch:     ws.BaseBranch,
		CreatedAt:      ws.CreatedAt,
		Purpose:        ws.Purpose,
		PythonVersion:  ws.PythonVersion,
		HasVenv:        ws.HasVenv,
		Status:         string(ws.Status),
		DepsSyncedAt:   ws.DepsSyncedAt,
		LastActivityAt: ws.LastActivityAt,
		Active:         ws.Name == active && active != "",
	}
}

// activeName returns the active workspace name, or "" when none is set or
// it cannot be determined.
func activeName(ctx context.Context, a *app.App, cwd string) string {
	ws, err := a.Workspaces.GetActive(ctx, cwd)
	if err != nil || ws == nil {
		return ""
	}
	return ws.Name
}
