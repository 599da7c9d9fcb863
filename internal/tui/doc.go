// Package tui provides terminal user interface components for agentspaces.
//
// This package uses the Bubble Tea framework for the interactive workspace
// picker behind "agentspaces pick".
//
// # Workspace Picker
//
// The picker lists a project's workspaces grouped by the branch they were
// created from:
//
//	opts := tui.PickerOptions{Project: project, Active: active, AllowCreate: true}
//	result, err := tui.RunPicker(workspaces, opts)
//	switch result.Action {
//	case tui.ActionLaunch:
//	    // Launch the agent in result.Workspace
//	case tui.ActionNew:
//	    if result.Create != nil {
//	        // Create a workspace from the wizard's options
//	    }
//	case tui.ActionRemove:
//	    // Remove result.Workspace
//	case tui.ActionQuit:
//	    // Exit
//	}
//
// # Picker Features
//
//   - Keyboard navigation (j/k or arrows), group headers auto-skipped
//   - Filtering on name and purpose with /
//   - Quick actions: Enter (launch), n (new), d (remove), q (quit)
//   - The active workspace is marked with *
//   - Creation wizard when AllowCreate is true (purpose, base branch,
//     environment options)
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
