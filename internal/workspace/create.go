package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/agentspaces/internal/audit"
	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/metadata"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
)

// DefaultBaseBranch is used when CreateOptions.BaseBranch is empty.
const DefaultBaseBranch = "HEAD"

// CreateOptions holds the options for creating a workspace.
type CreateOptions struct {
	// Cwd locates the repository. Empty means the process working directory.
	Cwd string

	// BaseBranch is the ref the new branch starts from. Ignored when
	// AttachBranch is set.
	BaseBranch string

	// AttachBranch checks out an existing branch instead of creating one.
	// The workspace is named after the branch with '/' replaced by '-'.
	AttachBranch string

	// Purpose is a free-form description; empty means none.
	Purpose string

	// PythonVersion pins the venv interpreter; empty means auto-detect.
	PythonVersion string

	// SetupVenv creates a uv virtual environment in the workspace.
	SetupVenv bool
}

// AttachName returns the workspace name used when attaching to branch.
func AttachName(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// worktreeResult describes the worktree created by the first step of Create.
type worktreeResult struct {
	name       string
	path       string
	branch     string
	baseBranch string
	newBranch  bool
}

// Create creates a workspace. Only a failure to persist metadata rolls back
// the worktree; environment, exclude and skill failures are logged.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (Workspace, error) {
	if opts.PythonVersion != "" {
		if err := environment.ValidatePythonVersion(opts.PythonVersion); err != nil {
			return Workspace{}, err
		}
	}

	repoRoot, project, projectDir, err := s.resolveProject(ctx, opts.Cwd)
	if err != nil {
		return Workspace{}, err
	}

	logging.Debug("creating workspace", "project", project, "base", opts.BaseBranch, "attach", opts.AttachBranch)

	var wt worktreeResult
	if opts.AttachBranch != "" {
		wt, err = s.attachWorktree(ctx, repoRoot, project, opts.AttachBranch)
	} else {
		wt, err = s.newWorktree(ctx, repoRoot, project, projectDir, opts.BaseBranch)
	}
	if err != nil {
		return Workspace{}, err
	}

	metaDir, _ := s.resolver.MetadataDir(project, wt.name)
	metaFile, _ := s.resolver.MetadataFile(project, wt.name)

	if err := os.MkdirAll(metaDir, 0755); err != nil {
		s.rollback(ctx, repoRoot, project, wt, err)
		return Workspace{}, errors.PersistenceError("failed to create metadata directory", err)
	}

	// .agentspace/ must be ignored or git refuses to remove the worktree.
	if err := vcs.AddExcludeEntry(repoRoot, paths.ExcludeEntry); err != nil {
		logging.Warn("failed to update git exclude file", "repo", repoRoot, "error", err)
	}

	var purpose *string
	if p := strings.TrimSpace(opts.Purpose); p != "" {
		purpose = &p
	}
	m := metadata.New(wt.name, project, wt.branch, wt.baseBranch, s.now())
	m.Purpose = purpose
	m.Attached = !wt.newBranch

	if opts.SetupVenv {
		m = s.setupEnvironment(ctx, wt.path, opts.PythonVersion, m)
	}

	if err := s.store.Save(m, metaFile); err != nil {
		logging.Error("metadata save failed", "workspace", wt.name, "error", err)
		s.rollback(ctx, repoRoot, project, wt, err)
		return Workspace{}, errors.PersistenceError("failed to save workspace metadata", err)
	}

	if s.skills != nil {
		skillDir, _ := s.resolver.WorkspaceContextSkillDir(project, wt.name)
		if _, err := s.skills(m, skillDir); err != nil {
			logging.Warn("failed to generate workspace-context skill", "workspace", wt.name, "error", err)
		}
	}

	details := "base=" + wt.baseBranch
	if !wt.newBranch {
		details = "attach=" + wt.branch
	}
	s.record(audit.EventCreate, project, wt.name, details)

	logging.Info("workspace created", "name", wt.name, "path", wt.path, "has_venv", m.HasVenv)
	return fromMetadata(wt.name, project, wt.path, wt.branch, &m), nil
}

func (s *Service) newWorktree(ctx context.Context, repoRoot, project, projectDir, base string) (worktreeResult, error) {
	if base == "" {
		base = DefaultBaseBranch
	}

	name, err := s.names.Generate(func(candidate string) bool {
		return s.resolver.WorkspaceExists(project, candidate)
	})
	if err != nil {
		return worktreeResult{}, err
	}

	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return worktreeResult{}, fmt.Errorf("failed to create project directory: %w", err)
	}
	path := filepath.Join(projectDir, name)

	if err := s.vcs.WorktreeAdd(ctx, repoRoot, path, name, base); err != nil {
		logging.Error("worktree add failed", "name", name, "base", base, "error", err)
		return worktreeResult{}, err
	}
	return worktreeResult{name: name, path: path, branch: name, baseBranch: base, newBranch: true}, nil
}

func (s *Service) attachWorktree(ctx context.Context, repoRoot, project, branch string) (worktreeResult, error) {
	exists, err := s.vcs.BranchExists(ctx, repoRoot, branch)
	if err != nil {
		return worktreeResult{}, err
	}
	if !exists {
		return worktreeResult{}, errors.ValidationErrorf("branch %q does not exist", branch)
	}

	name := AttachName(branch)
	path, err := s.resolver.WorkspaceDir(project, name)
	if err != nil {
		return worktreeResult{}, err
	}
	if s.resolver.WorkspaceExists(project, name) {
		return worktreeResult{}, errors.ValidationErrorf("workspace %q already exists", name)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return worktreeResult{}, fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := s.vcs.WorktreeAddExisting(ctx, repoRoot, path, branch); err != nil {
		logging.Error("worktree add failed", "name", name, "branch", branch, "error", err)
		return worktreeResult{}, err
	}
	return worktreeResult{name: name, path: path, branch: branch, baseBranch: branch}, nil
}

func (s *Service) setupEnvironment(ctx context.Context, path, pythonVersion string, m metadata.Metadata) metadata.Metadata {
	if s.env == nil {
		logging.Warn("no environment provisioner configured, skipping venv setup", "workspace", m.Name)
		return m
	}
	res, err := s.env.Setup(ctx, path, pythonVersion, true)
	if err != nil {
		logging.Warn("environment setup failed", "workspace", m.Name, "error", err)
		return m
	}
	return m.WithEnvironment(res.HasVenv, res.PythonVersion)
}

// rollback undoes the worktree of a failed create. Failures are logged.
func (s *Service) rollback(ctx context.Context, repoRoot, project string, wt worktreeResult, cause error) {
	if err := s.vcs.WorktreeRemove(ctx, repoRoot, wt.path, true); err != nil {
		logging.Warn("rollback failed to remove worktree", "workspace", wt.name, "error", err, "original_error", cause)
	}
	if wt.newBranch {
		s.vcs.BranchDelete(ctx, repoRoot, wt.branch, true)
	}
	s.record(audit.EventRollback, project, wt.name, cause.Error())
}

// absCwd returns cwd as an absolute path, defaulting to the process
// working directory.
func absCwd(cwd string) (string, error) {
	if cwd == "" {
		cwd = "."
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}
