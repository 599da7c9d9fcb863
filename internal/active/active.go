// Package active tracks the active workspace of a project through a
// single-line .active file in the project directory.
//
// The tracker is a plain pointer: it does not check that the named
// workspace exists. Self-healing of stale pointers belongs to the
// workspace service.
package active

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
)

func file(projectDir string) string {
	return filepath.Join(projectDir, paths.ActiveFileName)
}

// Get returns the active workspace name, or "" when none is set or the
// file cannot be read.
func Get(projectDir string) string {
	data, err := os.ReadFile(file(projectDir))
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("cannot read active workspace", "path", file(projectDir), "error", err)
		}
		return ""
	}

	name := strings.TrimSpace(string(data))
	if name != "" {
		logging.Debug("active workspace read", "project", filepath.Base(projectDir), "workspace", name)
	}
	return name
}

// Set records name as the active workspace, creating the project
// directory if needed.
func Set(projectDir, name string) error {
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := atomic.WriteFile(file(projectDir), strings.NewReader(name+"\n")); err != nil {
		return fmt.Errorf("failed to write active workspace: %w", err)
	}
	logging.Debug("active workspace set", "project", filepath.Base(projectDir), "workspace", name)
	return nil
}

// Clear removes the pointer. A missing file is not an error.
func Clear(projectDir string) error {
	if err := os.Remove(file(projectDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear active workspace: %w", err)
	}
	logging.Debug("active workspace cleared", "project", filepath.Base(projectDir))
	return nil
}
