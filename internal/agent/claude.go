package agent

import (
	"context"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/system"
)

// ProbeTimeout bounds the claude --version availability check.
const ProbeTimeout = 5 * time.Second

// ClaudeInstallHint tells users where to get Claude Code.
const ClaudeInstallHint = "install from https://claude.ai/download"

// ClaudeAgent implements Agent for Claude Code.
type ClaudeAgent struct {
	probe *Probe
}

// NewClaudeAgent creates a ClaudeAgent that probes through exec.
func NewClaudeAgent(exec system.CommandExecutor) *ClaudeAgent {
	return &ClaudeAgent{
		probe: NewProbe(func(ctx context.Context) bool {
			ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
			defer cancel()
			if _, err := exec.Execute(ctx, "", "claude", "--version"); err != nil {
				logging.Debug("claude not available", "error", err)
				return false
			}
			return true
		}),
	}
}

// Name returns the agent identifier.
func (a *ClaudeAgent) Name() string {
	return "claude"
}

// Binary returns the Claude Code executable name.
func (a *ClaudeAgent) Binary() string {
	return "claude"
}

// Args returns the arguments for an interactive session. The prompt is a
// positional argument.
func (a *ClaudeAgent) Args(prompt string, planMode bool) []string {
	var args []string
	if planMode {
		args = append(args, "--permission-mode", "plan")
	}
	if prompt != "" {
		args = append(args, prompt)
	}
	return args
}

// Available reports whether claude --version succeeds. The result is
// cached until Invalidate.
func (a *ClaudeAgent) Available(ctx context.Context) bool {
	return a.probe.Available(ctx)
}

// Invalidate forgets the cached availability.
func (a *ClaudeAgent) Invalidate() {
	a.probe.Invalidate()
}
