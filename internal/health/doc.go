// Package health checks that a workspace is still usable.
//
// A workspace is healthy when its directory exists, git still lists it as
// a worktree, its metadata file is present and it has no uncommitted
// changes. Status names the first failed check:
//
//	StatusMissing    - Workspace directory is gone
//	StatusOrphaned   - Directory exists but git no longer lists the worktree
//	StatusNoMetadata - Worktree without .agentspace/workspace.json
//	StatusDirty      - Uncommitted changes
//	StatusHealthy    - All checks passed
//
// Individual checks:
//
//	health.CheckRegistered(ctx, git, repo, path)
//	health.CheckMetadata(path)
//
// Combined checks:
//
//	result := health.Check(ctx, git, repo, ws, time.Now())
//	status := result.Summary()
package health
