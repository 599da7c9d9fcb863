// Package logging provides logging utilities for agentspaces.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users (via Printer)
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("creating worktree", "path", path, "base", base)
//	logging.Warn("skill generation failed", "workspace", name, "error", err)
//
// # User Output
//
// A Printer is built once per invocation and carried by the application
// context:
//
//	p := logging.NewPrinter(quiet)
//	p.Info("Purpose: %s", purpose)
//	p.Success("Workspace %s created", name)
//	p.Warning("uv not found, skipping environment setup")
//	p.Error("Workspace not found: %s", name)
//
// Output destinations:
//   - Info, Success: Out (stdout)
//   - Warning, Error, DidYouMean: Err (stderr)
//
// Info is suppressed in quiet mode.
//
// # Status Indicators
//
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
