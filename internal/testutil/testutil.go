// Package testutil provides test utilities for integration tests
package testutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/agentspaces/internal/app"
	"github.com/firefly-engineering/agentspaces/internal/system"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	Repo     string
	Base     string
	Executor *system.MockExecutor
	App      *app.App
}

// RequireGit skips the test if git is not available
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

// Git runs git in dir and returns its trimmed output.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
	return strings.TrimSpace(string(out))
}

// GitRepo creates a repository named "repo" with one commit and returns
// its symlink-resolved path.
func GitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	repo := filepath.Join(t.TempDir(), "repo")
	if out, err := exec.Command("git", "init", repo).CombinedOutput(); err != nil {
		t.Fatalf("Failed to init git repo: %s: %v", out, err)
	}
	Git(t, repo, "config", "user.email", "test@test.com")
	Git(t, repo, "config", "user.name", "Test User")

	if err := os.WriteFile(filepath.Join(repo, "README.md"), []byte("# Test\n"), 0644); err != nil {
		t.Fatalf("Failed to write README: %v", err)
	}
	Git(t, repo, "add", ".")
	Git(t, repo, "commit", "-m", "Initial commit")

	resolved, err := filepath.EvalSymlinks(repo)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

// NewTestEnv creates a git repository, makes it the working directory and
// builds an App on a temporary base. git runs for real; every other
// command goes to the mock executor, which reports claude as installed.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	repo := GitRepo(t)
	t.Chdir(repo)

	mock := system.NewMockExecutor()
	mock.PassThrough(system.DefaultExecutor(), "git")
	mock.AddResponse("claude --version", []byte("1.0.0 (Claude Code)"), nil)

	env := &TestEnv{
		T:        t,
		Repo:     repo,
		Base:     t.TempDir(),
		Executor: mock,
	}
	env.App = app.New(env.AppOptions()...)
	return env
}

// AppOptions returns the options that point an App at this environment.
func (e *TestEnv) AppOptions() []app.Option {
	return []app.Option{
		app.WithBase(e.Base),
		app.WithExecutor(e.Executor),
	}
}

// CreateWorkspace creates a workspace without a virtual environment
func (e *TestEnv) CreateWorkspace(purpose string) workspace.Workspace {
	e.T.Helper()

	ws, err := e.App.Workspaces.Create(context.Background(), workspace.CreateOptions{
		Cwd:        e.Repo,
		BaseBranch: workspace.DefaultBaseBranch,
		Purpose:    purpose,
	})
	if err != nil {
		e.T.Fatalf("Failed to create workspace: %v", err)
	}
	return ws
}

// LastInteractive returns the most recent interactive command.
func (e *TestEnv) LastInteractive() (system.MockCommand, bool) {
	cmds := e.Executor.Commands
	for i := len(cmds) - 1; i >= 0; i-- {
		if cmds[i].Interactive {
			return cmds[i], true
		}
	}
	return system.MockCommand{}, false
}
