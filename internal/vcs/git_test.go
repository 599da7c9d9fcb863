package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/system"
)

// requireGit skips the test if git is not available
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
	return strings.TrimSpace(string(out))
}

func setupGitRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	tmpDir := filepath.Join(t.TempDir(), "repo")

	cmd := exec.Command("git", "init", tmpDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to init git repo: %s: %v", output, err)
	}

	gitCmd(t, tmpDir, "config", "user.email", "test@test.com")
	gitCmd(t, tmpDir, "config", "user.name", "Test User")

	testFile := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(testFile, []byte("# Test\n"), 0644); err != nil {
		t.Fatal(err)
	}
	gitCmd(t, tmpDir, "add", ".")
	gitCmd(t, tmpDir, "commit", "-m", "Initial commit")

	return tmpDir
}

func newGit() *Git {
	return NewGit(system.DefaultExecutor())
}

func TestGit_RepoRootAndName(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()

	sub := filepath.Join(repo, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := g.RepoRoot(ctx, sub)
	if err != nil {
		t.Fatalf("RepoRoot error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(repo)
	if root != want {
		t.Errorf("RepoRoot = %q, want %q", root, want)
	}

	name, err := g.RepoName(ctx, sub)
	if err != nil {
		t.Fatalf("RepoName error: %v", err)
	}
	if name != "repo" {
		t.Errorf("RepoName = %q, want %q", name, "repo")
	}
}

func TestGit_RepoRoot_NotARepository(t *testing.T) {
	requireGit(t)
	g := newGit()

	_, err := g.RepoRoot(context.Background(), t.TempDir())
	if !errors.IsKind(err, errors.KindNotARepository) {
		t.Errorf("error = %v, want NotARepository", err)
	}
}

func TestGit_WorktreeLifecycle(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()
	wtPath := filepath.Join(t.TempDir(), "eager-turing")

	if err := g.WorktreeAdd(ctx, repo, wtPath, "eager-turing", "HEAD"); err != nil {
		t.Fatalf("WorktreeAdd error: %v", err)
	}

	exists, err := g.BranchExists(ctx, repo, "eager-turing")
	if err != nil || !exists {
		t.Fatalf("BranchExists = %v, %v; want true", exists, err)
	}

	inWT, err := g.IsInWorktree(ctx, wtPath)
	if err != nil || !inWT {
		t.Errorf("IsInWorktree(worktree) = %v, %v; want true", inWT, err)
	}
	inWT, err = g.IsInWorktree(ctx, repo)
	if err != nil || inWT {
		t.Errorf("IsInWorktree(main) = %v, %v; want false", inWT, err)
	}

	mainDir, err := g.MainDir(ctx, wtPath)
	if err != nil {
		t.Fatalf("MainDir error: %v", err)
	}
	wantMain, _ := filepath.EvalSymlinks(repo)
	gotMain, _ := filepath.EvalSymlinks(mainDir)
	if gotMain != wantMain {
		t.Errorf("MainDir = %q, want %q", gotMain, wantMain)
	}

	root, project, err := g.ResolveMain(ctx, wtPath)
	if err != nil {
		t.Fatalf("ResolveMain error: %v", err)
	}
	if project != "repo" {
		t.Errorf("ResolveMain project = %q, want repo (root %q)", project, root)
	}

	list, err := g.WorktreeList(ctx, repo)
	if err != nil {
		t.Fatalf("WorktreeList error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("WorktreeList returned %d entries, want 2", len(list))
	}
	if !list[0].IsMain || list[1].IsMain {
		t.Errorf("only the first entry should be main: %+v", list)
	}
	if list[1].Branch != "eager-turing" || filepath.Base(list[1].Path) != "eager-turing" {
		t.Errorf("second entry = %+v", list[1])
	}
	if list[1].Commit == "" {
		t.Error("expected commit to be parsed")
	}

	if err := g.WorktreeRemove(ctx, repo, wtPath, false); err != nil {
		t.Fatalf("WorktreeRemove error: %v", err)
	}
	if _, err := os.Stat(wtPath); !os.IsNotExist(err) {
		t.Error("worktree directory should be gone")
	}

	if !g.BranchDelete(ctx, repo, "eager-turing", false) {
		t.Error("BranchDelete should succeed for a merged branch")
	}
	exists, _ = g.BranchExists(ctx, repo, "eager-turing")
	if exists {
		t.Error("branch should be deleted")
	}
}

func TestGit_WorktreeAddExisting(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()

	gitCmd(t, repo, "branch", "feature/auth")
	wtPath := filepath.Join(t.TempDir(), "feature-auth")

	if err := g.WorktreeAddExisting(ctx, repo, wtPath, "feature/auth"); err != nil {
		t.Fatalf("WorktreeAddExisting error: %v", err)
	}
	if got := gitCmd(t, wtPath, "rev-parse", "--abbrev-ref", "HEAD"); got != "feature/auth" {
		t.Errorf("checked out branch = %q, want feature/auth", got)
	}

	err := g.WorktreeAddExisting(ctx, repo, filepath.Join(t.TempDir(), "missing"), "missing")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("error = %v, want NotFound", err)
	}
}

func TestGit_WorktreeAdd_BadBase(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()

	err := g.WorktreeAdd(context.Background(), repo, filepath.Join(t.TempDir(), "x"), "x", "no-such-ref")
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindExternalTool {
		t.Fatalf("error = %v, want ExternalToolError", err)
	}
	if e.ExitStatus == 0 || e.Stderr == "" {
		t.Errorf("expected exit status and stderr, got %d / %q", e.ExitStatus, e.Stderr)
	}
}

func TestGit_IsDirty(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()

	dirty, err := g.IsDirty(ctx, repo)
	if err != nil || dirty {
		t.Fatalf("clean repo: IsDirty = %v, %v", dirty, err)
	}

	if err := os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	dirty, _ = g.IsDirty(ctx, repo)
	if dirty {
		t.Error("untracked files alone must not count as dirty")
	}

	if err := os.WriteFile(filepath.Join(repo, "README.md"), []byte("# Changed\n"), 0644); err != nil {
		t.Fatal(err)
	}
	dirty, _ = g.IsDirty(ctx, repo)
	if !dirty {
		t.Error("modified tracked file should be dirty")
	}
}

func TestGit_WorktreeRemove_Dirty(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()
	wtPath := filepath.Join(t.TempDir(), "ws")

	if err := g.WorktreeAdd(ctx, repo, wtPath, "ws", "HEAD"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(wtPath, "README.md"), []byte("dirty\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := g.WorktreeRemove(ctx, repo, wtPath, false)
	if !errors.IsKind(err, errors.KindExternalTool) {
		t.Fatalf("error = %v, want ExternalToolError", err)
	}

	if err := g.WorktreeRemove(ctx, repo, wtPath, true); err != nil {
		t.Fatalf("forced WorktreeRemove error: %v", err)
	}
	if g.BranchDelete(ctx, repo, "does-not-exist", true) {
		t.Error("BranchDelete of missing branch should report false")
	}
}

func TestGit_Timeout(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.DefaultResponse = system.MockResponse{Err: context.DeadlineExceeded}
	g := NewGit(mock).WithTimeout(time.Millisecond)

	_, err := g.WorktreeList(context.Background(), "/repo")
	if !errors.IsKind(err, errors.KindTimeout) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}

	_, err = g.BranchExists(context.Background(), "/repo", "main")
	if !errors.IsKind(err, errors.KindTimeout) {
		t.Errorf("BranchExists should surface timeouts, got %v", err)
	}

	_, err = g.RepoRoot(context.Background(), "/repo")
	if !errors.IsKind(err, errors.KindTimeout) {
		t.Errorf("RepoRoot should surface timeouts rather than NotARepository, got %v", err)
	}
}

func TestGit_ToolErrorFromExecutor(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.AddResponse("git worktree", nil, &system.CommandError{
		Name: "git", Args: []string{"worktree"}, ExitCode: 128, Stderr: "fatal: is dirty",
	})
	g := NewGit(mock)

	err := g.WorktreeRemove(context.Background(), "/repo", "/ws", false)
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindExternalTool {
		t.Fatalf("error = %v, want ExternalToolError", err)
	}
	if e.ExitStatus != 128 || e.Stderr != "fatal: is dirty" {
		t.Errorf("got status %d stderr %q", e.ExitStatus, e.Stderr)
	}

	cmd, _ := mock.LastCommand()
	if cmd.Dir != "/repo" || cmd.String() != "git worktree remove /ws" {
		t.Errorf("LastCommand = %+v", cmd)
	}
}

func TestGit_WorktreePrune(t *testing.T) {
	repo := setupGitRepo(t)
	g := newGit()
	ctx := context.Background()

	wt := filepath.Join(t.TempDir(), "gone")
	if err := g.WorktreeAdd(ctx, repo, wt, "gone", "HEAD"); err != nil {
		t.Fatalf("WorktreeAdd: %v", err)
	}
	if err := os.RemoveAll(wt); err != nil {
		t.Fatal(err)
	}

	if err := g.WorktreePrune(ctx, repo); err != nil {
		t.Fatalf("WorktreePrune: %v", err)
	}
	list, err := g.WorktreeList(ctx, repo)
	if err != nil {
		t.Fatalf("WorktreeList: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d worktrees after prune, want 1", len(list))
	}
}

func TestParseWorktreeList(t *testing.T) {
	out := `worktree /srv/bare.git
bare

worktree /home/u/repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /home/u/.agentspaces/repo/eager-turing
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature/x

worktree /home/u/.agentspaces/repo/detached-one
HEAD 3333333333333333333333333333333333333333
detached
`
	got := parseWorktreeList(out)
	if len(got) != 4 {
		t.Fatalf("parsed %d entries, want 4", len(got))
	}
	if !got[0].IsBare || got[0].IsMain {
		t.Errorf("bare entry = %+v", got[0])
	}
	if !got[1].IsMain || got[1].Branch != "main" {
		t.Errorf("main entry = %+v", got[1])
	}
	if got[2].IsMain || got[2].Branch != "feature/x" || got[2].Commit[0] != '2' {
		t.Errorf("worktree entry = %+v", got[2])
	}
	if !got[3].Detached || got[3].Branch != "" {
		t.Errorf("detached entry = %+v", got[3])
	}

	if len(parseWorktreeList("")) != 0 {
		t.Error("empty output should parse to no entries")
	}
}

func TestAddExcludeEntry_Idempotent(t *testing.T) {
	repo := setupGitRepo(t)
	excludePath := filepath.Join(repo, ".git", "info", "exclude")

	for i := 0; i < 2; i++ {
		if err := AddExcludeEntry(repo, ".agentspace/"); err != nil {
			t.Fatalf("AddExcludeEntry #%d error: %v", i+1, err)
		}
	}

	data, err := os.ReadFile(excludePath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), ".agentspace/\n"); n != 1 {
		t.Errorf("entry present %d times, want 1:\n%s", n, data)
	}
}

func TestAddExcludeEntry_MissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	infoDir := filepath.Join(dir, ".git", "info")
	if err := os.MkdirAll(infoDir, 0755); err != nil {
		t.Fatal(err)
	}
	excludePath := filepath.Join(infoDir, "exclude")
	if err := os.WriteFile(excludePath, []byte("*.log"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := AddExcludeEntry(dir, ".agentspace/"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(excludePath)
	if string(data) != "*.log\n.agentspace/\n" {
		t.Errorf("exclude file = %q", data)
	}
}

func TestAddExcludeEntry_CreatesInfoDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := AddExcludeEntry(dir, ".agentspace/"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, ".git", "info", "exclude"))
	if err != nil || string(data) != ".agentspace/\n" {
		t.Errorf("exclude file = %q, %v", data, err)
	}
}

func TestAddExcludeEntry_GitFileSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: /elsewhere\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := AddExcludeEntry(dir, ".agentspace/"); err != nil {
		t.Errorf("AddExcludeEntry should skip worktree checkouts, got %v", err)
	}
}
