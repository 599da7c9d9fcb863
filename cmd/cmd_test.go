package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(args ...string) (string, string, error) {
	return executeWithInput("", args...)
}

// executeWithInput runs the root command with stdin set to input.
func executeWithInput(input string, args ...string) (string, string, error) {
	// Reset flag values before each test
	resetFlags(rootCmd)
	docsVars = nil

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))

	err := cmd.Execute()

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)
	cmd.SetIn(nil)

	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "agentspaces") {
		t.Error("Help output should contain 'agentspaces'")
	}
	if !strings.Contains(stdout, "worktree") {
		t.Error("Help output should mention worktrees")
	}
}

func TestRootCommand_ListsCommands(t *testing.T) {
	stdout, _, err := executeCommand("help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, name := range []string{"workspace", "agent", "pick", "docs", "config", "version"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("Help output should list %q", name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help failed: %v", err)
	}

	for _, flag := range []string{"--verbose", "--quiet", "--json", "--log-json", "--base-dir"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("Should have %s flag", flag)
		}
	}
}

func TestVerboseAndQuietAreExclusive(t *testing.T) {
	_, _, err := executeCommand("--base-dir", t.TempDir(), "-v", "-q", "config", "show")
	if err == nil {
		t.Fatal("expected error for -v with -q")
	}
	if !strings.Contains(err.Error(), "verbose") {
		t.Errorf("error should name the conflicting flags, got %v", err)
	}
}

func TestWorkspaceCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("workspace", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, sub := range []string{"create", "list", "show", "remove", "activate", "active", "sync", "events"} {
		if !strings.Contains(stdout, sub) {
			t.Errorf("workspace help should list %q", sub)
		}
	}
}

func TestWorkspaceCreate_Help(t *testing.T) {
	stdout, _, err := executeCommand("ws", "create", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, flag := range []string{"--purpose", "--python-version", "--no-venv", "--attach"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("create help should mention %s", flag)
		}
	}
}

func TestAgentLaunch_Help(t *testing.T) {
	stdout, _, err := executeCommand("agent", "launch", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	for _, flag := range []string{"--prompt", "--use-purpose", "--plan-mode", "--no-plan-mode"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("launch help should mention %s", flag)
		}
	}
}

func TestAgentLaunch_ExclusiveFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"prompt and use-purpose", []string{"agent", "launch", "-p", "x", "--use-purpose"}},
		{"plan and no-plan", []string{"agent", "launch", "--plan-mode", "--no-plan-mode"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--base-dir", t.TempDir()}, tt.args...)
			_, _, err := executeCommand(args...)
			if err == nil {
				t.Fatal("expected mutually exclusive flag error")
			}
		})
	}
}

func TestCommandRequiresArgs(t *testing.T) {
	tests := []struct {
		args []string
	}{
		{[]string{"workspace", "show"}},
		{[]string{"workspace", "remove"}},
		{[]string{"workspace", "activate"}},
		{[]string{"docs", "info"}},
		{[]string{"docs", "create"}},
		{[]string{"config", "get"}},
		{[]string{"config", "set", "plan_mode_by_default"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			args := append([]string{"--base-dir", t.TempDir()}, tt.args...)
			_, _, err := executeCommand(args...)
			if err == nil {
				t.Error("expected an argument count error")
			}
		})
	}
}

func TestIsWithin(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ws")
	for _, d := range []string{filepath.Join(dir, "src", "pkg"), filepath.Join(root, "ws-other")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"same dir", dir, true},
		{"child", filepath.Join(dir, "src", "pkg"), true},
		{"sibling with common prefix", filepath.Join(root, "ws-other"), false},
		{"parent", root, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWithin(tt.path, dir); got != tt.want {
				t.Errorf("isWithin(%q, %q) = %v, want %v", tt.path, dir, got, tt.want)
			}
		})
	}
}

func TestRenderFields(t *testing.T) {
	got := renderFields(false, []field{
		{"Path", "/tmp/ws"},
		{"Purpose", ""},
		{"Branch", "eager-turing"},
	})
	want := "Path:   /tmp/ws\nBranch: eager-turing"
	if got != want {
		t.Errorf("renderFields() = %q, want %q", got, want)
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer purpose text", 10, "a longe..."},
		{"héllo wörld ünïcode", 10, "héllo w..."},
		{"日本語のテキストです", 8, "日本語のテ..."},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := truncateText(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateText(%q, %d) produced invalid UTF-8", tt.in, tt.maxLen)
			}
		})
	}
}
