package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/agentspaces/internal/environment"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// wizardStep identifies the current step.
type wizardStep int

const (
	stepPurpose wizardStep = iota
	stepBase
	stepOptions
	stepConfirm
)

// optionField identifies a field in the options step.
type optionField int

const (
	optVenv optionField = iota
	optPython
	optFieldCount
)

// wizardModel collects the inputs for a new workspace.
type wizardModel struct {
	step wizardStep

	purposeInput textinput.Model
	baseInput    textinput.Model

	optCursor   optionField
	setupVenv   bool
	pythonInput textinput.Model
	pythonErr   string

	width  int
	height int
}

var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardLabelStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	wizardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func newWizardModel() wizardModel {
	pi := textinput.New()
	pi.Placeholder = "What is this workspace for?"
	pi.Focus()
	pi.CharLimit = 500
	pi.Width = 60

	bi := textinput.New()
	bi.Placeholder = workspace.DefaultBaseBranch
	bi.CharLimit = 256
	bi.Width = 40

	pyi := textinput.New()
	pyi.Placeholder = "auto-detect"
	pyi.CharLimit = 8
	pyi.Width = 12

	return wizardModel{
		step:         stepPurpose,
		purposeInput: pi,
		baseInput:    bi,
		pythonInput:  pyi,
		setupVenv:    true,
	}
}

func (w *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes a message and returns (done, createOptions, cmd).
// done=true with non-nil opts means the wizard completed.
// done=true with nil opts means it was cancelled.
func (w *wizardModel) Update(msg tea.Msg) (bool, *workspace.CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return true, nil, nil
		case tea.KeyEsc:
			return w.handleBack()
		}
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		w.width, w.height = size.Width, size.Height
		return false, nil, nil
	}

	switch w.step {
	case stepPurpose:
		return w.updatePurpose(msg)
	case stepBase:
		return w.updateBase(msg)
	case stepOptions:
		return w.updateOptions(msg)
	case stepConfirm:
		return w.updateConfirm(msg)
	}

	return false, nil, nil
}

func (w *wizardModel) handleBack() (bool, *workspace.CreateOptions, tea.Cmd) {
	switch w.step {
	case stepPurpose:
		return true, nil, nil
	case stepBase:
		w.step = stepPurpose
		w.baseInput.Blur()
		w.purposeInput.Focus()
		return false, nil, textinput.Blink
	case stepOptions, stepConfirm:
		w.step = stepBase
		w.pythonInput.Blur()
		w.baseInput.Focus()
		return false, nil, textinput.Blink
	}
	return false, nil, nil
}

func (w *wizardModel) updatePurpose(msg tea.Msg) (bool, *workspace.CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		w.step = stepBase
		w.purposeInput.Blur()
		w.baseInput.Focus()
		return false, nil, textinput.Blink
	}

	var cmd tea.Cmd
	w.purposeInput, cmd = w.purposeInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updateBase(msg tea.Msg) (bool, *workspace.CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			w.step = stepConfirm
			w.baseInput.Blur()
			return false, nil, nil
		case tea.KeyCtrlA:
			w.step = stepOptions
			w.baseInput.Blur()
			return false, nil, w.focusCurrentField()
		}
	}

	var cmd tea.Cmd
	w.baseInput, cmd = w.baseInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) focusCurrentField() tea.Cmd {
	if w.optCursor == optPython {
		w.pythonInput.Focus()
		return textinput.Blink
	}
	w.pythonInput.Blur()
	return nil
}

func (w *wizardModel) updateOptions(msg tea.Msg) (bool, *workspace.CreateOptions, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.Type {
		case tea.KeyEnter:
			if v := strings.TrimSpace(w.pythonInput.Value()); v != "" {
				if err := environment.ValidatePythonVersion(v); err != nil {
					w.pythonErr = err.Error()
					return false, nil, nil
				}
			}
			w.pythonErr = ""
			w.pythonInput.Blur()
			w.step = stepConfirm
			return false, nil, nil
		case tea.KeyUp, tea.KeyShiftTab:
			w.optCursor = (w.optCursor - 1 + optFieldCount) % optFieldCount
			return false, nil, w.focusCurrentField()
		case tea.KeyDown, tea.KeyTab:
			w.optCursor = (w.optCursor + 1) % optFieldCount
			return false, nil, w.focusCurrentField()
		}
	}

	if w.optCursor == optPython {
		var cmd tea.Cmd
		w.pythonInput, cmd = w.pythonInput.Update(msg)
		return false, nil, cmd
	}

	if isKey && keyMsg.String() == " " {
		w.setupVenv = !w.setupVenv
	}
	return false, nil, nil
}

func (w *wizardModel) options() *workspace.CreateOptions {
	base := strings.TrimSpace(w.baseInput.Value())
	if base == "" {
		base = workspace.DefaultBaseBranch
	}
	return &workspace.CreateOptions{
		BaseBranch:    base,
		Purpose:       strings.TrimSpace(w.purposeInput.Value()),
		PythonVersion: strings.TrimSpace(w.pythonInput.Value()),
		SetupVenv:     w.setupVenv,
	}
}

func (w *wizardModel) updateConfirm(msg tea.Msg) (bool, *workspace.CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "y":
			return true, w.options(), nil
		case "n":
			w.step = stepPurpose
			w.purposeInput.SetValue("")
			w.baseInput.SetValue("")
			w.pythonInput.SetValue("")
			w.setupVenv = true
			w.optCursor = optVenv
			w.purposeInput.Focus()
			return false, nil, textinput.Blink
		}
	}
	return false, nil, nil
}

func (w *wizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("Create New Workspace"))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	switch w.step {
	case stepPurpose:
		b.WriteString(wizardLabelStyle.Render("Purpose:"))
		b.WriteString("\n")
		b.WriteString(w.purposeInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Optional. Enter to continue."))
	case stepBase:
		b.WriteString(wizardLabelStyle.Render("Base branch:"))
		b.WriteString("\n")
		b.WriteString(w.baseInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Enter to confirm, Ctrl+A for environment options."))
	case stepOptions:
		b.WriteString(wizardLabelStyle.Render("Environment:"))
		b.WriteString("\n\n")
		b.WriteString(w.renderVenvToggle())
		b.WriteString("\n")
		b.WriteString(w.renderPythonInput())
		if w.pythonErr != "" {
			b.WriteString("\n" + wizardErrStyle.Render("      "+w.pythonErr))
		}
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Space to toggle, Tab to move, Enter to continue, Esc to go back."))
	case stepConfirm:
		opts := w.options()
		b.WriteString(wizardLabelStyle.Render("Confirm:"))
		b.WriteString("\n\n")
		purpose := opts.Purpose
		if purpose == "" {
			purpose = "(none)"
		}
		b.WriteString(fmt.Sprintf("  Purpose: %s\n", wizardValueStyle.Render(purpose)))
		b.WriteString(fmt.Sprintf("  Base:    %s\n", wizardValueStyle.Render(opts.BaseBranch)))
		venv := "no"
		if opts.SetupVenv {
			venv = "yes"
		}
		b.WriteString(fmt.Sprintf("  Venv:    %s\n", wizardValueStyle.Render(venv)))
		if opts.PythonVersion != "" {
			b.WriteString(fmt.Sprintf("  Python:  %s\n", wizardValueStyle.Render(opts.PythonVersion)))
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Enter to create, n to restart, Esc to go back."))
	}

	return b.String()
}

func (w *wizardModel) progressBar() string {
	steps := []string{"Purpose", "Base", "Confirm"}

	current := 0
	switch w.step {
	case stepBase, stepOptions:
		current = 1
	case stepConfirm:
		current = 2
	}

	parts := make([]string, 0, len(steps))
	for i, name := range steps {
		label := fmt.Sprintf("%d. %s", i+1, name)
		if i == current {
			parts = append(parts, wizardActiveStepStyle.Render(label))
		} else {
			parts = append(parts, wizardStepStyle.Render(label))
		}
	}

	return strings.Join(parts, wizardDimStyle.Render(" > "))
}

func (w *wizardModel) renderVenvToggle() string {
	cursor := " "
	if w.optCursor == optVenv {
		cursor = ">"
	}
	checked := " "
	if w.setupVenv {
		checked = "x"
	}
	line := fmt.Sprintf("  %s [%s] Create virtual environment", cursor, checked)
	desc := wizardDimStyle.Render("      Run uv venv in the new workspace")
	if w.optCursor == optVenv {
		return selectedStyle.Render(line) + "\n" + desc
	}
	return line + "\n" + desc
}

func (w *wizardModel) renderPythonInput() string {
	desc := wizardDimStyle.Render("      Leave empty to detect from .python-version or pyproject.toml")
	if w.optCursor == optPython {
		return selectedStyle.Render("  > Python: ") + w.pythonInput.View() + "\n" + desc
	}
	val := strings.TrimSpace(w.pythonInput.Value())
	if val == "" {
		val = "(auto)"
	}
	return fmt.Sprintf("    Python: %s", val) + "\n" + desc
}
