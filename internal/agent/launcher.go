package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/agentspaces/internal/audit"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/system"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// Workspaces is the subset of workspace.Service the launcher needs.
type Workspaces interface {
	Get(ctx context.Context, cwd, name string) (workspace.Workspace, error)
	GetActive(ctx context.Context, cwd string) (*workspace.Workspace, error)
	UpdateActivity(ctx context.Context, cwd, name string) error
	Record(eventType audit.EventType, project, name, details string)
}

// LaunchOptions configures a single agent launch.
type LaunchOptions struct {
	Cwd      string
	Prompt   string
	PlanMode bool
}

// Result describes a finished agent session.
type Result struct {
	Workspace string `json:"workspace"`
	Project   string `json:"project"`
	Path      string `json:"path"`
	ExitCode  int    `json:"exit_code"`
	SessionID string `json:"session_id"`
	PlanMode  bool   `json:"plan_mode"`
}

// Launcher runs an Agent inside a workspace.
type Launcher struct {
	agent      Agent
	workspaces Workspaces
	resolver   *paths.Resolver
	exec       system.CommandExecutor
	newID      func() string
	now        func() time.Time
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithSessionIDs overrides session ID generation.
func WithSessionIDs(f func() string) LauncherOption {
	return func(l *Launcher) {
		l.newID = f
	}
}

// WithLauncherClock overrides the time source.
func WithLauncherClock(now func() time.Time) LauncherOption {
	return func(l *Launcher) {
		l.now = now
	}
}

// NewLauncher creates a Launcher for a.
func NewLauncher(a Agent, ws Workspaces, resolver *paths.Resolver, exec system.CommandExecutor, opts ...LauncherOption) *Launcher {
	l := &Launcher{
		agent:      a,
		workspaces: ws,
		resolver:   resolver,
		exec:       exec,
		newID:      NewSessionID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Agent returns the launcher's agent.
func (l *Launcher) Agent() Agent {
	return l.agent
}

// Launch runs the agent interactively in the named workspace. With an
// empty name the workspace is detected from the working directory, then
// from the project's active workspace.
func (l *Launcher) Launch(ctx context.Context, name string, opts LaunchOptions) (Result, error) {
	if len(opts.Prompt) > MaxPromptLength {
		return Result{}, errors.ValidationErrorf("prompt too long: %d characters (max %d)", len(opts.Prompt), MaxPromptLength)
	}
	if !l.agent.Available(ctx) {
		return Result{}, errors.AgentError(
			fmt.Sprintf("%s is not installed or not on PATH (%s)", l.agent.Name(), ClaudeInstallHint), nil)
	}

	name, err := l.ResolveName(ctx, name, opts.Cwd)
	if err != nil {
		return Result{}, err
	}
	ws, err := l.workspaces.Get(ctx, opts.Cwd, name)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Workspace: ws.Name,
		Project:   ws.Project,
		Path:      ws.Path,
		SessionID: l.newID(),
		PlanMode:  opts.PlanMode,
	}
	session := Session{
		ID:        res.SessionID,
		Agent:     l.agent.Name(),
		Project:   ws.Project,
		Workspace: ws.Name,
		StartedAt: l.now().UTC(),
		PlanMode:  opts.PlanMode,
		HasPrompt: opts.Prompt != "",
	}
	sessionDir, err := l.resolver.SessionDir(ws.Project, ws.Name, res.SessionID)
	if err != nil {
		logging.Warn("invalid session directory", "error", err)
		sessionDir = ""
	} else if err := WriteSession(sessionDir, session); err != nil {
		logging.Warn("failed to record session", "session", res.SessionID, "error", err)
	}

	args := l.agent.Args(opts.Prompt, opts.PlanMode)
	logging.Info("launching agent",
		"agent", l.agent.Name(),
		"workspace", ws.Name,
		"session", res.SessionID,
		"cmd", shellquote.Join(append([]string{l.agent.Binary()}, args...)...))

	runErr := l.exec.ExecuteInteractive(ctx, ws.Path, l.agent.Binary(), args...)
	if runErr != nil {
		var cmdErr *system.CommandError
		if !errors.As(runErr, &cmdErr) {
			return Result{}, errors.AgentError(fmt.Sprintf("failed to run %s", l.agent.Name()), runErr)
		}
		res.ExitCode = cmdErr.ExitCode
	}

	if sessionDir != "" {
		if err := WriteSession(sessionDir, session.Finish(l.now(), res.ExitCode)); err != nil {
			logging.Warn("failed to finish session record", "session", res.SessionID, "error", err)
		}
	}
	if err := l.workspaces.UpdateActivity(ctx, opts.Cwd, ws.Name); err != nil {
		logging.Warn("failed to update workspace activity", "workspace", ws.Name, "error", err)
	}
	details := fmt.Sprintf("session=%s exit=%d", res.SessionID, res.ExitCode)
	if opts.PlanMode {
		details += " plan"
	}
	l.workspaces.Record(audit.EventLaunch, ws.Project, ws.Name, details)

	return res, nil
}

// ResolveName picks the target workspace: name when given, else the
// workspace containing cwd, else the active workspace.
func (l *Launcher) ResolveName(ctx context.Context, name, cwd string) (string, error) {
	if name != "" {
		return name, nil
	}
	if detected := l.DetectWorkspace(cwd); detected != "" {
		logging.Debug("detected workspace from cwd", "workspace", detected)
		return detected, nil
	}
	active, err := l.workspaces.GetActive(ctx, cwd)
	if err != nil {
		return "", err
	}
	if active != nil {
		return active.Name, nil
	}
	return "", errors.AgentError("no workspace specified and no active workspace set", nil)
}

// DetectWorkspace returns the workspace containing cwd, or "" when cwd is
// not inside a managed workspace.
func (l *Launcher) DetectWorkspace(cwd string) string {
	if cwd == "" {
		return ""
	}
	project, name, ok := l.resolver.WorkspaceFromPath(cwd)
	if !ok {
		return ""
	}
	dir, err := l.resolver.WorkspaceDir(project, name)
	if err != nil {
		return ""
	}
	if info, err := os.Stat(filepath.Join(dir, paths.MetadataDirName)); err != nil || !info.IsDir() {
		return ""
	}
	return name
}
