package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// Status represents the health status of a workspace
type Status string

const (
	StatusHealthy    Status = "healthy"
	StatusDirty      Status = "dirty"
	StatusNoMetadata Status = "no-metadata"
	StatusOrphaned   Status = "orphaned"
	StatusMissing    Status = "missing"
)

// Worktrees is the part of the git adapter the checks need.
type Worktrees interface {
	WorktreeList(ctx context.Context, repo string) ([]vcs.WorktreeInfo, error)
	IsDirty(ctx context.Context, path string) (bool, error)
}

// CheckResult contains the results of health checks
type CheckResult struct {
	Exists      bool   `json:"exists"`
	Registered  bool   `json:"registered"`
	HasMetadata bool   `json:"has_metadata"`
	Dirty       bool   `json:"dirty"`
	HasVenv     bool   `json:"has_venv"`
	Age         string `json:"age,omitempty"`
	Idle        string `json:"idle,omitempty"`
}

// CheckRegistered reports whether git still lists path as a worktree of repo.
func CheckRegistered(ctx context.Context, g Worktrees, repo, path string) bool {
	worktrees, err := g.WorktreeList(ctx, repo)
	if err != nil {
		logging.Debug("cannot list worktrees", "repo", repo, "error", err)
		return false
	}
	want := canonical(path)
	for _, wt := range worktrees {
		if canonical(wt.Path) == want {
			return true
		}
	}
	return false
}

// CheckMetadata reports whether the workspace metadata file exists.
func CheckMetadata(path string) bool {
	_, err := os.Stat(filepath.Join(path, paths.MetadataDirName, paths.MetadataFileName))
	return err == nil
}

// Since returns the time elapsed since t in human-readable format, or ""
// when t is unset.
func Since(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return formatDuration(now.Sub(*t))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// Check performs all health checks for a workspace of repo.
func Check(ctx context.Context, g Worktrees, repo string, ws workspace.Workspace, now time.Time) *CheckResult {
	result := &CheckResult{
		Age:  Since(ws.CreatedAt, now),
		Idle: Since(ws.LastActivityAt, now),
	}

	if _, err := os.Stat(ws.Path); err != nil {
		return result
	}
	result.Exists = true
	result.HasMetadata = CheckMetadata(ws.Path)
	result.HasVenv = ws.HasVenv

	result.Registered = CheckRegistered(ctx, g, repo, ws.Path)
	if !result.Registered {
		return result
	}

	dirty, err := g.IsDirty(ctx, ws.Path)
	if err != nil {
		logging.Debug("cannot check worktree status", "path", ws.Path, "error", err)
	}
	result.Dirty = dirty
	return result
}

// Summary returns a summary health status.
func (r *CheckResult) Summary() Status {
	switch {
	case !r.Exists:
		return StatusMissing
	case !r.Registered:
		return StatusOrphaned
	case !r.HasMetadata:
		return StatusNoMetadata
	case r.Dirty:
		return StatusDirty
	}
	return StatusHealthy
}

func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
