// Package vcs wraps the git operations that back workspaces: worktree
// add/remove/list, branch checks and deletion, dirty checks and repository
// root resolution.
//
// Every call runs under a bounded timeout. Failures come back as
// *errors.Error tagged KindTimeout when git hung and KindExternalTool when
// git rejected the request, with the exit status and stderr attached.
package vcs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/system"
)

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 30 * time.Second

// WorktreeInfo describes one entry of `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path     string
	Branch   string
	Commit   string
	IsMain   bool
	IsBare   bool
	Detached bool
}

// Git runs git commands through a CommandExecutor.
type Git struct {
	exec    system.CommandExecutor
	timeout time.Duration
}

// NewGit returns a Git adapter using exec with DefaultTimeout.
func NewGit(exec system.CommandExecutor) *Git {
	return &Git{exec: exec, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of g using timeout for each call.
func (g *Git) WithTimeout(timeout time.Duration) *Git {
	c := *g
	c.timeout = timeout
	return &c
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	command := "git"
	if len(args) > 0 {
		command += " " + args[0]
	}
	logging.Debug("running git", "dir", dir, "args", args)

	out, err := g.exec.Execute(ctx, dir, "git", args...)
	if err == nil {
		return string(out), nil
	}
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return "", errors.TimeoutError(command, g.timeout)
	}
	var cmdErr *system.CommandError
	if errors.As(err, &cmdErr) {
		return "", errors.ExternalToolError(command, cmdErr.ExitCode, cmdErr.Stderr)
	}
	// git could not be started at all.
	return "", errors.ExternalToolError(command, -1, err.Error())
}

// RepoRoot returns the top-level directory of the repository containing cwd.
func (g *Git) RepoRoot(ctx context.Context, cwd string) (string, error) {
	out, err := g.run(ctx, cwd, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.IsKind(err, errors.KindExternalTool) {
			return "", errors.NotARepository(cwd, err)
		}
		return "", err
	}
	return filepath.Clean(strings.TrimSpace(out)), nil
}

// RepoName returns the base name of the repository root containing cwd.
func (g *Git) RepoName(ctx context.Context, cwd string) (string, error) {
	root, err := g.RepoRoot(ctx, cwd)
	if err != nil {
		return "", err
	}
	return filepath.Base(root), nil
}

// IsInWorktree reports whether cwd is inside a secondary worktree, where
// .git is a file pointing back at the main repository.
func (g *Git) IsInWorktree(ctx context.Context, cwd string) (bool, error) {
	root, err := g.RepoRoot(ctx, cwd)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filepath.Join(root, ".git"))
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular(), nil
}

// MainDir returns the root of the main repository that owns cwd, resolving
// through the shared git directory when cwd is inside a worktree.
func (g *Git) MainDir(ctx context.Context, cwd string) (string, error) {
	out, err := g.run(ctx, cwd, "rev-parse", "--git-common-dir")
	if err != nil {
		if errors.IsKind(err, errors.KindExternalTool) {
			return "", errors.NotARepository(cwd, err)
		}
		return "", err
	}
	common := strings.TrimSpace(out)
	if !filepath.IsAbs(common) {
		common = filepath.Join(cwd, common)
	}
	return filepath.Dir(filepath.Clean(common)), nil
}

// ResolveMain returns the main repository root and project name for cwd,
// redirecting to the main repository when cwd is inside a worktree.
func (g *Git) ResolveMain(ctx context.Context, cwd string) (root, project string, err error) {
	inWorktree, err := g.IsInWorktree(ctx, cwd)
	if err != nil {
		return "", "", err
	}
	if inWorktree {
		root, err = g.MainDir(ctx, cwd)
	} else {
		root, err = g.RepoRoot(ctx, cwd)
	}
	if err != nil {
		return "", "", err
	}
	return root, filepath.Base(root), nil
}

// WorktreeAdd creates a worktree at path on a new branch starting at baseRef.
func (g *Git) WorktreeAdd(ctx context.Context, repo, path, newBranch, baseRef string) error {
	_, err := g.run(ctx, repo, "worktree", "add", "-b", newBranch, path, baseRef)
	return err
}

// WorktreeAddExisting creates a worktree at path for an existing branch.
func (g *Git) WorktreeAddExisting(ctx context.Context, repo, path, branch string) error {
	exists, err := g.BranchExists(ctx, repo, branch)
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("branch", branch)
	}
	_, err = g.run(ctx, repo, "worktree", "add", path, branch)
	return err
}

// BranchExists reports whether refs/heads/name exists. Only timeouts and
// failures to run git are returned as errors.
func (g *Git) BranchExists(ctx context.Context, repo, name string) (bool, error) {
	_, err := g.run(ctx, repo, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err == nil {
		return true, nil
	}
	var e *errors.Error
	if errors.As(err, &e) && e.Kind == errors.KindExternalTool && e.ExitStatus > 0 {
		return false, nil
	}
	return false, err
}

// WorktreeRemove removes the worktree at path. Without force git refuses
// when the worktree has uncommitted changes.
func (g *Git) WorktreeRemove(ctx context.Context, repo, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	_, err := g.run(ctx, repo, args...)
	return err
}

// WorktreePrune drops administrative entries for worktrees whose
// directories no longer exist.
func (g *Git) WorktreePrune(ctx context.Context, repo string) error {
	_, err := g.run(ctx, repo, "worktree", "prune")
	return err
}

// BranchDelete deletes a branch and reports whether it succeeded. Failures
// are logged and never returned.
func (g *Git) BranchDelete(ctx context.Context, repo, name string, force bool) bool {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := g.run(ctx, repo, "branch", flag, name); err != nil {
		logging.Debug("branch delete failed", "branch", name, "error", err)
		return false
	}
	return true
}

// WorktreeList returns all worktrees of repo. The first non-bare entry is
// marked as the main worktree.
func (g *Git) WorktreeList(ctx context.Context, repo string) ([]WorktreeInfo, error) {
	out, err := g.run(ctx, repo, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(out), nil
}

func parseWorktreeList(out string) []WorktreeInfo {
	var (
		result  []WorktreeInfo
		current *WorktreeInfo
	)
	flush := func() {
		if current != nil {
			result = append(result, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "":
			flush()
		case "worktree":
			flush()
			current = &WorktreeInfo{Path: filepath.Clean(value)}
		case "HEAD":
			if current != nil {
				current.Commit = value
			}
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
		case "detached":
			if current != nil {
				current.Detached = true
			}
		}
	}
	flush()

	for i := range result {
		if !result[i].IsBare {
			result[i].IsMain = true
			break
		}
	}
	return result
}

// IsDirty reports whether path has staged or unstaged changes to tracked
// files. Untracked files alone do not make a worktree dirty.
func (g *Git) IsDirty(ctx context.Context, path string) (bool, error) {
	out, err := g.run(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "" || strings.HasPrefix(line, "??") {
			continue
		}
		return true, nil
	}
	return false, nil
}

// AddExcludeEntry appends entry to <repoRoot>/.git/info/exclude unless an
// identical line is already present. Repositories whose .git is not a
// directory are left untouched.
func AddExcludeEntry(repoRoot, entry string) error {
	gitDir := filepath.Join(repoRoot, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		logging.Debug("skipping exclude entry, .git is not a directory", "repo", repoRoot)
		return nil
	}

	infoDir := filepath.Join(gitDir, "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", infoDir, err)
	}

	excludePath := filepath.Join(infoDir, "exclude")
	data, err := os.ReadFile(excludePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read exclude file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	var add strings.Builder
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		add.WriteString("\n")
	}
	add.WriteString(entry + "\n")

	f, err := os.OpenFile(excludePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open exclude file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(add.String()); err != nil {
		return fmt.Errorf("failed to write exclude file: %w", err)
	}
	return nil
}
