// Package agent launches coding agents inside workspaces.
//
// An Agent knows how to build its command line; the Launcher resolves the
// target workspace, checks that the agent is installed, runs it
// interactively in the workspace directory and records a session.
package agent

import (
	"context"
	"sync"
)

// MaxPromptLength bounds the initial prompt passed on the command line.
const MaxPromptLength = 10000

// Agent is a coding agent that can be launched in a workspace.
type Agent interface {
	// Name returns the agent identifier (e.g., "claude").
	Name() string

	// Binary returns the executable to run.
	Binary() string

	// Args returns the arguments for an interactive session.
	Args(prompt string, planMode bool) []string

	// Available reports whether the agent is installed and runnable.
	Available(ctx context.Context) bool

	// Invalidate forgets a cached availability result.
	Invalidate()
}

// Probe caches the result of an availability check until invalidated.
type Probe struct {
	mu      sync.Mutex
	checked bool
	result  bool
	check   func(ctx context.Context) bool
}

// NewProbe returns a Probe that calls check at most once per invalidation.
func NewProbe(check func(ctx context.Context) bool) *Probe {
	return &Probe{check: check}
}

// Available returns the cached result, running the check on first use.
func (p *Probe) Available(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.checked {
		p.result = p.check(ctx)
		p.checked = true
	}
	return p.result
}

// Invalidate makes the next Available call run the check again.
func (p *Probe) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = false
}
