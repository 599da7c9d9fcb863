package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/agentspaces/internal/config"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/system"
)

func TestNew(t *testing.T) {
	base := t.TempDir()
	a := New(WithBase(base), WithExecutor(system.NewMockExecutor()))

	if a.Resolver.Base != base {
		t.Errorf("Base = %q, want %q", a.Resolver.Base, base)
	}
	if a.Workspaces == nil || a.Launcher == nil || a.Git == nil || a.Audit == nil || a.Docs == nil {
		t.Fatalf("App not fully wired: %+v", a)
	}
	if a.Printer == nil {
		t.Error("Printer should default")
	}
	if a.Config != config.Default() {
		t.Errorf("Config = %+v, want defaults", a.Config)
	}
}

func TestNew_EmptyBaseKeepsDefault(t *testing.T) {
	t.Setenv("AGENTSPACES_HOME", "/tmp/agentspaces-test-home")
	a := New(WithBase(""), WithConfig(config.Default()))

	if a.Resolver.Base != "/tmp/agentspaces-test-home" {
		t.Errorf("Base = %q", a.Resolver.Base)
	}
}

func TestNew_LoadsConfig(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.PlanModeByDefault = true
	if err := config.Save(cfg, filepath.Join(base, "config.json")); err != nil {
		t.Fatal(err)
	}

	a := New(WithBase(base))
	if !a.Config.PlanModeByDefault {
		t.Error("config should be loaded from the base directory")
	}
}

func TestNew_WithOptions(t *testing.T) {
	exec := system.NewMockExecutor()
	var out bytes.Buffer
	printer := &logging.Printer{Out: &out, Err: &out}
	cfg := config.GlobalConfig{Version: config.SchemaVersion, PlanModeByDefault: true}

	a := New(
		WithBase(t.TempDir()),
		WithExecutor(exec),
		WithPrinter(printer),
		WithConfig(cfg),
		WithJSON(true),
	)

	if a.Executor != exec {
		t.Error("WithExecutor did not set executor")
	}
	if a.Printer != printer {
		t.Error("WithPrinter did not set printer")
	}
	if a.Config != cfg {
		t.Error("WithConfig did not set config")
	}
	if !a.JSON {
		t.Error("WithJSON did not set JSON")
	}
}

func TestSaveConfig(t *testing.T) {
	a := New(WithBase(t.TempDir()), WithConfig(config.Default()))

	cfg := a.Config
	cfg.PlanModeByDefault = true
	if err := a.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	if !a.Config.PlanModeByDefault {
		t.Error("SaveConfig should update the active config")
	}
	if !config.Load(a.Resolver.ConfigFile()).PlanModeByDefault {
		t.Error("SaveConfig should persist the config")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("empty context should yield nil")
	}

	a := New(WithBase(t.TempDir()), WithConfig(config.Default()))
	ctx := NewContext(context.Background(), a)
	if FromContext(ctx) != a {
		t.Error("FromContext should return the stored App")
	}
}
