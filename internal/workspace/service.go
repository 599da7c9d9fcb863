package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/agentspaces/internal/active"
	"github.com/firefly-engineering/agentspaces/internal/audit"
	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
)

// resolveProject returns the main repository root, the project name and
// the project's storage directory for cwd.
func (s *Service) resolveProject(ctx context.Context, cwd string) (repoRoot, project, projectDir string, err error) {
	abs, err := absCwd(cwd)
	if err != nil {
		return "", "", "", err
	}
	repoRoot, project, err = s.vcs.ResolveMain(ctx, abs)
	if err != nil {
		return "", "", "", err
	}
	projectDir, err = s.resolver.ProjectDir(project)
	if err != nil {
		return "", "", "", err
	}
	return repoRoot, project, projectDir, nil
}

// List returns the project's workspaces in git's order. The main worktree,
// bare entries and worktrees stored outside the project directory are
// skipped.
func (s *Service) List(ctx context.Context, cwd string) ([]Workspace, error) {
	repoRoot, project, projectDir, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return nil, err
	}
	worktrees, err := s.vcs.WorktreeList(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	result := make([]Workspace, 0, len(worktrees))
	for _, wt := range worktrees {
		if wt.IsMain || wt.IsBare || !samePath(filepath.Dir(wt.Path), projectDir) {
			continue
		}
		name := filepath.Base(wt.Path)
		metaFile, err := s.resolver.MetadataFile(project, name)
		if err != nil {
			logging.Debug("skipping worktree with invalid name", "path", wt.Path, "error", err)
			continue
		}
		result = append(result, fromMetadata(name, project, wt.Path, wt.Branch, s.store.Load(metaFile)))
	}
	return result, nil
}

// ListProject returns the workspaces stored for project without asking
// git, for listing a project other than the current repository. Branch
// names come from metadata and fall back to the workspace name.
func (s *Service) ListProject(project string) ([]Workspace, error) {
	names, err := s.resolver.ListWorkspaces(project)
	if err != nil {
		return nil, err
	}
	result := make([]Workspace, 0, len(names))
	for _, name := range names {
		path, err := s.resolver.WorkspaceDir(project, name)
		if err != nil {
			continue
		}
		metaFile, _ := s.resolver.MetadataFile(project, name)
		ws := fromMetadata(name, project, path, "", s.store.Load(metaFile))
		if ws.Branch == "" {
			ws.Branch = name
		}
		result = append(result, ws)
	}
	return result, nil
}

// Get returns one workspace. It fails with NotFound when git has no
// worktree at the workspace directory, whatever the metadata says.
func (s *Service) Get(ctx context.Context, cwd, name string) (Workspace, error) {
	repoRoot, project, _, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return Workspace{}, err
	}
	return s.get(ctx, repoRoot, project, name)
}

func (s *Service) get(ctx context.Context, repoRoot, project, name string) (Workspace, error) {
	path, err := s.resolver.WorkspaceDir(project, name)
	if err != nil {
		return Workspace{}, err
	}
	metaFile, _ := s.resolver.MetadataFile(project, name)

	worktrees, err := s.vcs.WorktreeList(ctx, repoRoot)
	if err != nil {
		return Workspace{}, err
	}
	wt, ok := findWorktree(worktrees, path)
	if !ok {
		return Workspace{}, errors.WorkspaceNotFound(name)
	}

	branch := wt.Branch
	if branch == "" && !wt.Detached {
		branch = name
	}
	return fromMetadata(name, project, path, branch, s.store.Load(metaFile)), nil
}

// Names returns the names of the project's workspaces, for suggestions.
func (s *Service) Names(ctx context.Context, cwd string) ([]string, error) {
	list, err := s.List(ctx, cwd)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(list))
	for i, ws := range list {
		names[i] = ws.Name
	}
	return names, nil
}

// Remove removes the worktree and tries to delete its branch. Without
// force, a worktree with uncommitted changes is refused with a
// DirtyWorkspace error. Branches of attached workspaces are kept.
func (s *Service) Remove(ctx context.Context, cwd, name string, force bool) error {
	repoRoot, project, projectDir, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return err
	}
	path, err := s.resolver.WorkspaceDir(project, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return errors.WorkspaceNotFound(name)
	}

	logging.Debug("removing workspace", "name", name, "project", project, "force", force)

	// Read before removal; the metadata lives inside the worktree.
	metaFile, _ := s.resolver.MetadataFile(project, name)
	meta := s.store.Load(metaFile)

	if err := s.vcs.WorktreeRemove(ctx, repoRoot, path, force); err != nil {
		switch errors.KindOf(err) {
		case errors.KindExternalTool:
			if !force && isDirtyRefusal(err) {
				return errors.DirtyWorkspace(name, err)
			}
			return fmt.Errorf("failed to remove workspace %s: %w", name, err)
		default:
			return err
		}
	}

	if meta == nil || !meta.Attached {
		branch := name
		if meta != nil {
			branch = meta.Branch
		}
		if !s.vcs.BranchDelete(ctx, repoRoot, branch, force) {
			logging.Warn("branch was not deleted", "branch", branch)
		}
	}

	if active.Get(projectDir) == name {
		if err := active.Clear(projectDir); err != nil {
			logging.Warn("failed to clear active workspace", "error", err)
		}
	}

	s.record(audit.EventRemove, project, name, fmt.Sprintf("force=%t", force))
	logging.Info("workspace removed", "name", name)
	return nil
}

// Activate marks name as the project's active workspace.
func (s *Service) Activate(ctx context.Context, cwd, name string) (Workspace, error) {
	repoRoot, project, projectDir, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return Workspace{}, err
	}
	ws, err := s.get(ctx, repoRoot, project, name)
	if err != nil {
		return Workspace{}, err
	}
	if err := active.Set(projectDir, name); err != nil {
		return Workspace{}, errors.PersistenceError("failed to set active workspace", err)
	}
	s.record(audit.EventActivate, project, name, "")
	return ws, nil
}

// GetActive returns the active workspace, or nil when none is set. A
// pointer to a workspace that no longer exists is cleared.
func (s *Service) GetActive(ctx context.Context, cwd string) (*Workspace, error) {
	repoRoot, project, projectDir, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return nil, err
	}
	name := active.Get(projectDir)
	if name == "" {
		return nil, nil
	}

	ws, err := s.get(ctx, repoRoot, project, name)
	switch errors.KindOf(err) {
	case errors.KindUnknown:
		if err != nil {
			return nil, err
		}
		return &ws, nil
	case errors.KindNotFound, errors.KindInvalidName:
		logging.Info("clearing stale active workspace", "project", project, "workspace", name)
		if err := active.Clear(projectDir); err != nil {
			logging.Warn("failed to clear active workspace", "error", err)
		}
		return nil, nil
	default:
		return nil, err
	}
}

// SyncDeps runs the dependency sync for name, or for the active workspace
// when name is empty, and records the sync time.
func (s *Service) SyncDeps(ctx context.Context, cwd, name string) (Workspace, error) {
	repoRoot, project, projectDir, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return Workspace{}, err
	}
	if name == "" {
		name = active.Get(projectDir)
	}
	if name == "" {
		return Workspace{}, errors.ValidationError("no workspace specified and no active workspace set")
	}

	ws, err := s.get(ctx, repoRoot, project, name)
	if err != nil {
		return Workspace{}, err
	}
	if s.env == nil {
		return Workspace{}, errors.ProvisioningError("no environment provisioner configured", nil)
	}
	if err := s.env.Sync(ctx, ws.Path); err != nil {
		return Workspace{}, err
	}

	metaFile, _ := s.resolver.MetadataFile(project, name)
	if m := s.store.Load(metaFile); m != nil {
		updated := m.WithDepsSyncedAt(s.now())
		if err := s.store.Save(updated, metaFile); err != nil {
			logging.Warn("failed to record sync time", "workspace", name, "error", err)
		} else {
			ws = fromMetadata(ws.Name, project, ws.Path, ws.Branch, &updated)
		}
	} else {
		logging.Warn("workspace has no metadata, sync time not recorded", "workspace", name)
	}

	s.record(audit.EventSync, project, name, "")
	return ws, nil
}

// UpdateActivity records the current time as the workspace's last
// activity. Workspaces without metadata are left alone.
func (s *Service) UpdateActivity(ctx context.Context, cwd, name string) error {
	_, project, _, err := s.resolveProject(ctx, cwd)
	if err != nil {
		return err
	}
	metaFile, err := s.resolver.MetadataFile(project, name)
	if err != nil {
		return err
	}
	m := s.store.Load(metaFile)
	if m == nil {
		logging.Debug("no metadata to update", "workspace", name)
		return nil
	}
	return s.store.Save(m.WithLastActivityAt(s.now()), metaFile)
}

// Record appends an event for name to the project's audit trail.
func (s *Service) Record(eventType audit.EventType, project, name, details string) {
	s.record(eventType, project, name, details)
}

func isDirtyRefusal(err error) bool {
	var e *errors.Error
	if !errors.As(err, &e) {
		return false
	}
	stderr := strings.ToLower(e.Stderr)
	return strings.Contains(stderr, "dirty") || strings.Contains(stderr, "modified")
}

func findWorktree(worktrees []vcs.WorktreeInfo, path string) (vcs.WorktreeInfo, bool) {
	for _, wt := range worktrees {
		if !wt.IsMain && !wt.IsBare && samePath(wt.Path, path) {
			return wt, true
		}
	}
	return vcs.WorktreeInfo{}, false
}

// samePath compares paths after resolving symlinks, falling back to a
// lexical comparison when a path cannot be resolved.
func samePath(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
