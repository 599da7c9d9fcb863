// Package environment provisions per-workspace Python virtual environments
// with uv.
package environment

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/agentspaces/internal/errors"
	"github.com/firefly-engineering/agentspaces/internal/logging"
	"github.com/firefly-engineering/agentspaces/internal/paths"
	"github.com/firefly-engineering/agentspaces/internal/system"
)

const (
	// DefaultTimeout bounds uv venv and other short uv calls.
	DefaultTimeout = 60 * time.Second

	// SyncTimeout bounds uv sync, which may download and build packages.
	SyncTimeout = 300 * time.Second

	pythonVersionFile = ".python-version"
	pyprojectFile     = "pyproject.toml"
	installHint       = "install with: curl -LsSf https://astral.sh/uv/install.sh | sh"
)

var (
	pythonVersionPattern = regexp.MustCompile(`^3\.\d{1,2}(\.\d{1,2})?$`)
	requiresPythonRe     = regexp.MustCompile(`[>=~]+\s*(\d+\.\d+)`)
)

// Result describes the environment of a workspace.
type Result struct {
	HasVenv       bool
	PythonVersion *string
	HasPyproject  bool
	VenvPath      string
}

// Provisioner runs uv through a CommandExecutor.
type Provisioner struct {
	exec        system.CommandExecutor
	timeout     time.Duration
	syncTimeout time.Duration
}

// NewProvisioner returns a Provisioner with the default timeouts.
func NewProvisioner(exec system.CommandExecutor) *Provisioner {
	return &Provisioner{exec: exec, timeout: DefaultTimeout, syncTimeout: SyncTimeout}
}

// ValidatePythonVersion checks that version looks like 3.X or 3.X.Y.
func ValidatePythonVersion(version string) error {
	if !pythonVersionPattern.MatchString(version) {
		return errors.ValidationErrorf("invalid Python version %q: expected X.Y or X.Y.Z (e.g. 3.12, 3.12.1)", version)
	}
	return nil
}

// Available reports whether uv is on PATH.
func (p *Provisioner) Available() bool {
	_, err := p.exec.LookPath("uv")
	return err == nil
}

// Version returns the installed uv version, e.g. "0.9.18".
func (p *Provisioner) Version(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "", 5*time.Second, "--version")
	if err != nil {
		return "", err
	}
	// "uv 0.9.18 (Homebrew 2025-12-16)"
	fields := strings.Fields(out)
	if len(fields) >= 2 {
		return fields[1], nil
	}
	return strings.TrimSpace(out), nil
}

// Setup creates <path>/.venv, using pythonVersion when non-empty and the
// detected project version otherwise. When syncDeps is set and the
// workspace has a pyproject.toml, dependencies are synced; a failed sync
// is logged and does not fail the setup.
func (p *Provisioner) Setup(ctx context.Context, path, pythonVersion string, syncDeps bool) (Result, error) {
	if !p.Available() {
		return Result{}, errors.ProvisioningError("uv is not installed ("+installHint+")", nil)
	}

	version := pythonVersion
	if version == "" {
		version = DetectPythonVersion(path)
	}
	if version != "" {
		if err := ValidatePythonVersion(version); err != nil {
			if pythonVersion != "" {
				return Result{}, err
			}
			logging.Warn("ignoring detected Python version", "path", path, "version", version)
			version = ""
		}
	}

	venv := filepath.Join(path, paths.VenvDirName)
	args := []string{"venv", venv}
	if version != "" {
		args = append(args, "--python", version)
	}
	args = append(args, "--seed")

	logging.Info("creating virtual environment", "path", venv, "python", version)
	if _, err := p.run(ctx, path, p.timeout, args...); err != nil {
		return Result{}, errors.ProvisioningError("failed to create virtual environment", err)
	}

	res := Result{
		HasVenv:      true,
		HasPyproject: hasPyproject(path),
		VenvPath:     venv,
	}
	if version != "" {
		res.PythonVersion = &version
	}

	if syncDeps && res.HasPyproject {
		if _, err := p.run(ctx, path, p.syncTimeout, "sync", "--all-extras"); err != nil {
			logging.Warn("dependency sync failed", "path", path, "error", err)
		} else {
			logging.Info("dependencies synced", "path", path)
		}
	}
	return res, nil
}

// Sync runs uv sync --all-extras in path.
func (p *Provisioner) Sync(ctx context.Context, path string) error {
	if !p.Available() {
		return errors.ProvisioningError("uv is not installed ("+installHint+")", nil)
	}
	if !hasPyproject(path) {
		return errors.ProvisioningError(fmt.Sprintf("no pyproject.toml found in %s, cannot sync dependencies", path), nil)
	}

	logging.Info("syncing dependencies", "path", path)
	if _, err := p.run(ctx, path, p.syncTimeout, "sync", "--all-extras"); err != nil {
		return errors.ProvisioningError("failed to sync dependencies", err)
	}
	return nil
}

func (p *Provisioner) run(ctx context.Context, dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := "uv"
	if len(args) > 0 {
		command += " " + args[0]
	}
	logging.Debug("running uv", "dir", dir, "cmd", shellquote.Join(append([]string{"uv"}, args...)...))

	out, err := p.exec.Execute(ctx, dir, "uv", args...)
	if err == nil {
		return string(out), nil
	}
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return "", errors.TimeoutError(command, timeout)
	}
	var cmdErr *system.CommandError
	if errors.As(err, &cmdErr) {
		return "", errors.ExternalToolError(command, cmdErr.ExitCode, cmdErr.Stderr)
	}
	return "", errors.ExternalToolError(command, -1, err.Error())
}

// DetectPythonVersion returns the version pinned by .python-version, or
// the first X.Y of pyproject.toml's requires-python, or "".
func DetectPythonVersion(path string) string {
	if data, err := os.ReadFile(filepath.Join(path, pythonVersionFile)); err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			logging.Debug("detected python version", "source", pythonVersionFile, "version", v)
			return v
		}
	}

	var pyproject struct {
		Project struct {
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
	}
	if _, err := toml.DecodeFile(filepath.Join(path, pyprojectFile), &pyproject); err != nil {
		if !os.IsNotExist(err) {
			logging.Debug("cannot parse pyproject.toml", "path", path, "error", err)
		}
		return ""
	}
	if v := ParseRequiresPython(pyproject.Project.RequiresPython); v != "" {
		logging.Debug("detected python version", "source", pyprojectFile, "version", v)
		return v
	}
	return ""
}

// ParseRequiresPython extracts X.Y from a constraint such as ">=3.12,<4".
func ParseRequiresPython(constraint string) string {
	m := requiresPythonRe.FindStringSubmatch(constraint)
	if m == nil {
		return ""
	}
	return m[1]
}

// Info inspects the environment of the workspace at path.
func Info(path string) Result {
	res := Result{
		HasVenv:      HasVenv(path),
		HasPyproject: hasPyproject(path),
	}
	var version string
	if res.HasVenv {
		res.VenvPath = filepath.Join(path, paths.VenvDirName)
		version = venvPythonVersion(res.VenvPath)
	}
	if version == "" {
		version = DetectPythonVersion(path)
	}
	if version != "" {
		res.PythonVersion = &version
	}
	return res
}

// venvPythonVersion reads major.minor from pyvenv.cfg.
func venvPythonVersion(venv string) string {
	f, err := os.Open(filepath.Join(venv, "pyvenv.cfg"))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) != "version" && strings.TrimSpace(key) != "version_info" {
			continue
		}
		parts := strings.Split(strings.TrimSpace(value), ".")
		if len(parts) >= 2 {
			return parts[0] + "." + parts[1]
		}
	}
	return ""
}

// HasVenv reports whether path contains a .venv directory.
func HasVenv(path string) bool {
	info, err := os.Stat(filepath.Join(path, paths.VenvDirName))
	return err == nil && info.IsDir()
}

func hasPyproject(path string) bool {
	_, err := os.Stat(filepath.Join(path, pyprojectFile))
	return err == nil
}

// ActivationCommand returns a shell command that activates the venv, or
// "" when the workspace has none.
func ActivationCommand(path string) string {
	activate := filepath.Join(path, paths.VenvDirName, "bin", "activate")
	if _, err := os.Stat(activate); err != nil {
		return ""
	}
	return "source " + shellquote.Join(activate)
}

// Remove deletes the workspace's venv. A missing venv is not an error.
func Remove(path string) error {
	venv := filepath.Join(path, paths.VenvDirName)
	if err := os.RemoveAll(venv); err != nil {
		return errors.ProvisioningError("failed to remove environment", err)
	}
	logging.Info("environment removed", "path", path)
	return nil
}
