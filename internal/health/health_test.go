package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

type fakeWorktrees struct {
	paths    []string
	dirty    bool
	listErr  error
	dirtyErr error
}

func (f fakeWorktrees) WorktreeList(ctx context.Context, repo string) ([]vcs.WorktreeInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []vcs.WorktreeInfo
	for _, p := range f.paths {
		out = append(out, vcs.WorktreeInfo{Path: p})
	}
	return out, nil
}

func (f fakeWorktrees) IsDirty(ctx context.Context, path string) (bool, error) {
	return f.dirty, f.dirtyErr
}

func makeWorkspace(t *testing.T, withMetadata bool) workspace.Workspace {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "eager-turing")
	if err := os.MkdirAll(filepath.Join(dir, paths.MetadataDirName), 0755); err != nil {
		t.Fatal(err)
	}
	if withMetadata {
		if err := os.WriteFile(filepath.Join(dir, paths.MetadataDirName, paths.MetadataFileName), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return workspace.Workspace{Name: "eager-turing", Path: dir}
}

func TestStatusConstants(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusHealthy, "healthy"},
		{StatusDirty, "dirty"},
		{StatusNoMetadata, "no-metadata"},
		{StatusOrphaned, "orphaned"},
		{StatusMissing, "missing"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("Status %v = %q, want %q", tt.status, tt.status, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"negative", -time.Minute, "0s"},
		{"seconds", 30 * time.Second, "30s"},
		{"one minute", 1 * time.Minute, "1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"one hour", 1 * time.Hour, "1h 0m"},
		{"hours and minutes", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"one day", 24 * time.Hour, "1d 0h"},
		{"days and hours", 3*24*time.Hour + 5*time.Hour, "3d 5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-90 * time.Minute)

	if got := Since(&earlier, now); got != "1h 30m" {
		t.Errorf("Since() = %q, want %q", got, "1h 30m")
	}
	if got := Since(nil, now); got != "" {
		t.Errorf("Since(nil) = %q, want empty", got)
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name     string
		metadata bool
		remove   bool
		wt       func(ws workspace.Workspace) fakeWorktrees
		want     Status
	}{
		{
			name:     "healthy",
			metadata: true,
			wt:       func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{paths: []string{"/repo", ws.Path}} },
			want:     StatusHealthy,
		},
		{
			name:     "dirty",
			metadata: true,
			wt:       func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{paths: []string{ws.Path}, dirty: true} },
			want:     StatusDirty,
		},
		{
			name: "no metadata",
			wt:   func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{paths: []string{ws.Path}} },
			want: StatusNoMetadata,
		},
		{
			name:     "orphaned",
			metadata: true,
			wt:       func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{paths: []string{"/repo"}} },
			want:     StatusOrphaned,
		},
		{
			name:     "list failure counts as unregistered",
			metadata: true,
			wt:       func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{listErr: errors.New("boom")} },
			want:     StatusOrphaned,
		},
		{
			name:     "missing",
			metadata: true,
			remove:   true,
			wt:       func(ws workspace.Workspace) fakeWorktrees { return fakeWorktrees{paths: []string{ws.Path}} },
			want:     StatusMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := makeWorkspace(t, tt.metadata)
			g := tt.wt(ws)
			if tt.remove {
				if err := os.RemoveAll(ws.Path); err != nil {
					t.Fatal(err)
				}
			}

			result := Check(ctx, g, "/repo", ws, now)
			if got := result.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q (result %+v)", got, tt.want, result)
			}
		})
	}
}
