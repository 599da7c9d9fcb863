package app

import (
	"context"

	"github.com/firefly-engineering/agentspaces/internal/agent"
	"github.com/firefly-engineering/agentspaces/internal/audit"
	"github.com/firefly-engineering/agentspaces/internal/config"
	"github.com/firefly-engineering/agentspaces/internal/docs"
	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/system"
	"github.com/firefly-engineering/agentspaces/internal/vcs"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// App holds the application dependencies
type App struct {
	// Resolver derives every storage location
	Resolver *paths.Resolver

	// Executor runs external commands
	Executor system.CommandExecutor

	Git         *vcs.Git
	Provisioner *environment.Provisioner
	Audit       *audit.Logger
	Workspaces  *workspace.Service
	Launcher    *agent.Launcher
	Docs        *docs.Catalog

	// Config is the loaded global configuration
	Config config.GlobalConfig

	// Printer writes user-facing messages
	Printer *logging.Printer

	// JSON selects machine-readable output
	JSON bool

	serviceOpts []workspace.Option
	configSet   bool
}

// Option is a function that configures the App
type Option func(*App)

// WithBase sets the storage base directory
func WithBase(base string) Option {
	return func(a *App) {
		if base != "" {
			a.Resolver = paths.New(base)
		}
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithPrinter sets a custom printer
func WithPrinter(p *logging.Printer) Option {
	return func(a *App) {
		a.Printer = p
	}
}

// WithConfig sets the configuration instead of loading it from disk
func WithConfig(cfg config.GlobalConfig) Option {
	return func(a *App) {
		a.Config = cfg
		a.configSet = true
	}
}

// WithJSON selects machine-readable output
func WithJSON(json bool) Option {
	return func(a *App) {
		a.JSON = json
	}
}

// WithServiceOptions passes extra options to the workspace service
func WithServiceOptions(opts ...workspace.Option) Option {
	return func(a *App) {
		a.serviceOpts = append(a.serviceOpts, opts...)
	}
}

// New creates a new App with the given options, wiring the workspace
// service, agent launcher and audit log onto a shared executor.
func New(opts ...Option) *App {
	app := &App{
		Resolver: paths.New(paths.DefaultBase()),
		Executor: system.DefaultExecutor(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Printer == nil {
		app.Printer = logging.NewPrinter(false)
	}
	if !app.configSet {
		app.Config = config.Load(app.Resolver.ConfigFile())
	}

	app.Git = vcs.NewGit(app.Executor)
	app.Provisioner = environment.NewProvisioner(app.Executor)
	app.Audit = audit.NewLogger(app.Resolver)
	app.Docs = docs.Bundled()

	serviceOpts := append([]workspace.Option{
		workspace.WithProvisioner(app.Provisioner),
		workspace.WithRecorder(app.Audit),
	}, app.serviceOpts...)
	app.Workspaces = workspace.NewService(app.Resolver, app.Git, serviceOpts...)
	app.Launcher = agent.NewLauncher(agent.NewClaudeAgent(app.Executor), app.Workspaces, app.Resolver, app.Executor)

	logging.Debug("app initialized", "base", app.Resolver.Base)
	return app
}

// SaveConfig persists cfg and makes it the active configuration
func (a *App) SaveConfig(cfg config.GlobalConfig) error {
	if err := config.Save(cfg, a.Resolver.ConfigFile()); err != nil {
		return err
	}
	a.Config = cfg
	return nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying a
func NewContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the App stored in ctx, or nil
func FromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(contextKey{}).(*App)
	return a
}
