// Package paths is the single source of truth for the on-disk layout.
//
// Layout under the base directory:
//
//	<base>/config.json
//	<base>/<project>/.active
//	<base>/<project>/.events.jsonl
//	<base>/<project>/<workspace>/                       (git worktree root)
//	<base>/<project>/<workspace>/.agentspace/workspace.json
//	<base>/<project>/<workspace>/.agentspace/skills/<skill>/SKILL.md
//	<base>/<project>/<workspace>/.agentspace/sessions/<id>/
//	<base>/<project>/<workspace>/.venv/
//
// Every derivation validates its name components first. Apart from
// EnsureBase, derivations do not touch the filesystem.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

const (
	BaseDirName           = ".agentspaces"
	BaseDirEnv            = "AGENTSPACES_HOME"
	MetadataDirName       = ".agentspace"
	MetadataFileName      = "workspace.json"
	ActiveFileName        = ".active"
	EventsFileName        = ".events.jsonl"
	ConfigFileName        = "config.json"
	VenvDirName           = ".venv"
	SkillsDirName         = "skills"
	SessionsDirName       = "sessions"
	WorkspaceContextSkill = "workspace-context"

	// MaxNameLength bounds project and workspace names.
	MaxNameLength = 100
)

// ExcludeEntry is the ignore rule registered in a repository so the
// metadata directory never shows up as untracked.
const ExcludeEntry = MetadataDirName + "/"

var nameChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateName rejects names that are unsafe as a single path component.
// kind is used in the error message ("project", "workspace", ...).
func ValidateName(value, kind string) error {
	switch {
	case value == "":
		return errors.InvalidName(kind, value, "must not be empty")
	case len(value) > MaxNameLength:
		return errors.InvalidName(kind, value, fmt.Sprintf("must be at most %d characters", MaxNameLength))
	case strings.ContainsAny(value, `/\`):
		return errors.InvalidName(kind, value, "must not contain path separators")
	case value == "." || value == ".." || strings.Contains(value, ".."):
		return errors.InvalidName(kind, value, "must not contain '..'")
	case strings.HasPrefix(value, ".") || strings.HasPrefix(value, "-") || strings.HasPrefix(value, "_"):
		return errors.InvalidName(kind, value, "must not start with '.', '-' or '_'")
	case !nameChars.MatchString(value):
		return errors.InvalidName(kind, value, "may only contain letters, digits, '-' and '_'")
	}
	return nil
}

// DefaultBase returns $AGENTSPACES_HOME, falling back to ~/.agentspaces.
func DefaultBase() string {
	if env := os.Getenv(BaseDirEnv); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return BaseDirName
	}
	return filepath.Join(home, BaseDirName)
}

// Resolver derives every storage location from a base directory.
type Resolver struct {
	Base string
}

// New returns a Resolver rooted at base.
func New(base string) *Resolver {
	return &Resolver{Base: base}
}

// EnsureBase creates the base directory if it does not exist.
func (r *Resolver) EnsureBase() error {
	if err := os.MkdirAll(r.Base, 0755); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}
	return nil
}

// ConfigFile returns <base>/config.json.
func (r *Resolver) ConfigFile() string {
	return filepath.Join(r.Base, ConfigFileName)
}

// ProjectDir returns <base>/<project>.
func (r *Resolver) ProjectDir(project string) (string, error) {
	if err := ValidateName(project, "project"); err != nil {
		return "", err
	}
	return filepath.Join(r.Base, project), nil
}

// ActiveFile returns <base>/<project>/.active.
func (r *Resolver) ActiveFile(project string) (string, error) {
	dir, err := r.ProjectDir(project)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ActiveFileName), nil
}

// EventsFile returns <base>/<project>/.events.jsonl.
func (r *Resolver) EventsFile(project string) (string, error) {
	dir, err := r.ProjectDir(project)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, EventsFileName), nil
}

// WorkspaceDir returns <base>/<project>/<workspace>.
func (r *Resolver) WorkspaceDir(project, workspace string) (string, error) {
	dir, err := r.ProjectDir(project)
	if err != nil {
		return "", err
	}
	if err := ValidateName(workspace, "workspace"); err != nil {
		return "", err
	}
	return filepath.Join(dir, workspace), nil
}

func (r *Resolver) underWorkspace(project, workspace string, elem ...string) (string, error) {
	dir, err := r.WorkspaceDir(project, workspace)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// MetadataDir returns the workspace's .agentspace directory.
func (r *Resolver) MetadataDir(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, MetadataDirName)
}

// MetadataFile returns the workspace's workspace.json.
func (r *Resolver) MetadataFile(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, MetadataDirName, MetadataFileName)
}

// SkillsDir returns the workspace's skills directory.
func (r *Resolver) SkillsDir(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, MetadataDirName, SkillsDirName)
}

// WorkspaceContextSkillDir returns the directory holding the workspace-context SKILL.md.
func (r *Resolver) WorkspaceContextSkillDir(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, MetadataDirName, SkillsDirName, WorkspaceContextSkill)
}

// SessionsDir returns the workspace's agent sessions directory.
func (r *Resolver) SessionsDir(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, MetadataDirName, SessionsDirName)
}

// SessionDir returns the directory for one agent session.
func (r *Resolver) SessionDir(project, workspace, sessionID string) (string, error) {
	if err := ValidateName(sessionID, "session"); err != nil {
		return "", err
	}
	return r.underWorkspace(project, workspace, MetadataDirName, SessionsDirName, sessionID)
}

// VenvDir returns the workspace's .venv directory.
func (r *Resolver) VenvDir(project, workspace string) (string, error) {
	return r.underWorkspace(project, workspace, VenvDirName)
}

// WorkspaceExists reports whether the workspace directory is present.
func (r *Resolver) WorkspaceExists(project, workspace string) bool {
	dir, err := r.WorkspaceDir(project, workspace)
	if err != nil {
		return false
	}
	_, err = os.Stat(dir)
	return err == nil
}

// ListProjects returns the names of project directories that contain at
// least one workspace, sorted.
func (r *Resolver) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(r.Base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read base directory: %w", err)
	}

	var projects []string
	for _, e := range entries {
		if !e.IsDir() || ValidateName(e.Name(), "project") != nil {
			continue
		}
		ws, err := r.ListWorkspaces(e.Name())
		if err == nil && len(ws) > 0 {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListWorkspaces returns the names of directories under the project that
// hold a metadata directory, sorted. Stray directories are skipped.
func (r *Resolver) ListWorkspaces(project string) ([]string, error) {
	dir, err := r.ProjectDir(project)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || ValidateName(e.Name(), "workspace") != nil {
			continue
		}
		// Resolve inside the project dir so a symlinked metadata dir
		// cannot point the check outside the base.
		meta, err := securejoin.SecureJoin(dir, filepath.Join(e.Name(), MetadataDirName))
		if err != nil {
			continue
		}
		if info, err := os.Stat(meta); err == nil && info.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// WorkspaceFromPath maps a path inside <base>/<project>/<workspace> to its
// project and workspace names. ok is false for paths outside the base.
func (r *Resolver) WorkspaceFromPath(path string) (project, workspace string, ok bool) {
	base, err := filepath.Abs(r.Base)
	if err != nil {
		return "", "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return "", "", false
	}
	if ValidateName(parts[0], "project") != nil || ValidateName(parts[1], "workspace") != nil {
		return "", "", false
	}
	return parts[0], parts[1], true
}
