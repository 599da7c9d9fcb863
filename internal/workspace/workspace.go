package workspace

import (
	"context"
	"time"

	"github.com/firefly-engineering/agentspaces/internal/audit"
	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/metadata"
	"github.com/firefly-engineering/agentspaces/internal/naming"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/skills"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
)

// Workspace combines what git knows about a worktree with its metadata.
type Workspace struct {
	Name       string
	Project    string
	Path       string
	Branch     string
	BaseBranch string

	// CreatedAt is nil when the workspace has no readable metadata.
	CreatedAt      *time.Time
	Purpose        *string
	PythonVersion  *string
	HasVenv        bool
	Status         metadata.Status
	DepsSyncedAt   *time.Time
	LastActivityAt *time.Time
}

// VCS is the subset of git the service needs.
type VCS interface {
	ResolveMain(ctx context.Context, cwd string) (root, project string, err error)
	WorktreeAdd(ctx context.Context, repo, path, newBranch, baseRef string) error
	WorktreeAddExisting(ctx context.Context, repo, path, branch string) error
	BranchExists(ctx context.Context, repo, name string) (bool, error)
	WorktreeRemove(ctx context.Context, repo, path string, force bool) error
	BranchDelete(ctx context.Context, repo, name string, force bool) bool
	WorktreeList(ctx context.Context, repo string) ([]vcs.WorktreeInfo, error)
}

// Store persists workspace metadata.
type Store interface {
	Save(m metadata.Metadata, path string) error
	Load(path string) *metadata.Metadata
}

// Provisioner sets up and syncs Python environments.
type Provisioner interface {
	Setup(ctx context.Context, path, pythonVersion string, syncDeps bool) (environment.Result, error)
	Sync(ctx context.Context, path string) error
}

// Recorder receives lifecycle events.
type Recorder interface {
	LogEvent(eventType audit.EventType, project, workspace, details string) error
}

// SkillGenerator writes the workspace-context skill into outputDir.
type SkillGenerator func(m metadata.Metadata, outputDir string) (string, error)

// Service manages the workspace lifecycle.
type Service struct {
	resolver *paths.Resolver
	vcs      VCS
	store    Store
	env      Provisioner
	skills   SkillGenerator
	recorder Recorder
	names    *naming.Generator
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore sets the metadata store.
func WithStore(s Store) Option {
	return func(svc *Service) {
		svc.store = s
	}
}

// WithProvisioner sets the environment provisioner. Without one, venv
// setup is skipped and SyncDeps fails.
func WithProvisioner(p Provisioner) Option {
	return func(svc *Service) {
		svc.env = p
	}
}

// WithSkillGenerator replaces the skill generator.
func WithSkillGenerator(g SkillGenerator) Option {
	return func(svc *Service) {
		svc.skills = g
	}
}

// WithRecorder sets the audit event recorder.
func WithRecorder(r Recorder) Option {
	return func(svc *Service) {
		svc.recorder = r
	}
}

// WithNameGenerator sets the workspace name generator.
func WithNameGenerator(g *naming.Generator) Option {
	return func(svc *Service) {
		svc.names = g
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) {
		svc.now = now
	}
}

// NewService creates a Service. Metadata goes to the filesystem and names
// come from the global random source unless overridden.
func NewService(resolver *paths.Resolver, v VCS, opts ...Option) *Service {
	svc := &Service{
		resolver: resolver,
		vcs:      v,
		store:    metadata.FileStore{},
		skills:   skills.Generate,
		names:    naming.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Resolver returns the path resolver the service stores workspaces under.
func (s *Service) Resolver() *paths.Resolver {
	return s.resolver
}

// ProjectName returns the project of the repository containing cwd.
func (s *Service) ProjectName(ctx context.Context, cwd string) (string, error) {
	_, project, err := s.vcs.ResolveMain(ctx, cwd)
	return project, err
}

func (s *Service) record(eventType audit.EventType, project, workspace, details string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.LogEvent(eventType, project, workspace, details); err != nil {
		logging.Warn("failed to record event", "type", eventType, "workspace", workspace, "error", err)
	}
}

func fromMetadata(name, project, path, branch string, m *metadata.Metadata) Workspace {
	ws := Workspace{
		Name:    name,
		Project: project,
		Path:    path,
		Branch:  branch,
		Status:  metadata.StatusActive,
	}
	if m == nil {
		ws.HasVenv = environment.HasVenv(path)
		return ws
	}

	created := m.CreatedAt
	ws.BaseBranch = m.BaseBranch
	ws.CreatedAt = &created
	ws.Purpose = m.Purpose
	ws.PythonVersion = m.PythonVersion
	ws.HasVenv = m.HasVenv
	ws.Status = m.Status
	ws.DepsSyncedAt = m.DepsSyncedAt
	ws.LastActivityAt = m.LastActivityAt
	if ws.Branch == "" {
		ws.Branch = m.Branch
	}
	return ws
}
