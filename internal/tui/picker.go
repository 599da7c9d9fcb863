package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/agentspaces/internal/metadata"
	"github.com/firefly-engineering/agentspaces/internal/workspace"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionLaunch
	ActionNew
	ActionRemove
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action    Action
	Workspace *workspace.Workspace

	// Create is set for ActionNew when the creation wizard completed.
	Create *workspace.CreateOptions
}

// PickerOptions configures the picker.
type PickerOptions struct {
	Project     string
	Active      string
	AllowCreate bool
}

// workspaceItem implements list.Item for workspace display
type workspaceItem struct {
	ws     workspace.Workspace
	active bool
}

func (i workspaceItem) Title() string {
	if i.active {
		return i.ws.Name + " *"
	}
	return i.ws.Name
}

func (i workspaceItem) Description() string {
	purpose := "no purpose"
	if i.ws.Purpose != nil && *i.ws.Purpose != "" {
		purpose = *i.ws.Purpose
	}
	created := "unknown"
	if i.ws.CreatedAt != nil {
		created = i.ws.CreatedAt.Local().Format("2006-01-02 15:04")
	}

	statusIcon := "●"
	if i.ws.Status == metadata.StatusArchived {
		statusIcon = "○"
	}
	if i.ws.HasVenv {
		statusIcon += " venv"
	}

	return fmt.Sprintf("%s | %s | %s | %s",
		statusIcon,
		i.ws.Branch,
		created,
		truncate(purpose, 40),
	)
}

func (i workspaceItem) FilterValue() string {
	if i.ws.Purpose != nil {
		return i.ws.Name + " " + *i.ws.Purpose
	}
	return i.ws.Name
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the workspace picker
type Model struct {
	list        list.Model
	result      PickerResult
	quitting    bool
	allowCreate bool
	wizard      *wizardModel
	width       int
	height      int
}

// NewPicker creates a new workspace picker
func NewPicker(workspaces []workspace.Workspace, opts PickerOptions) Model {
	items := buildGroupedItems(workspaces, opts.Active)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = "agentspaces - Select Workspace"
	if opts.Project != "" {
		l.Title += " (" + opts.Project + ")"
	}
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	skipHeaders(&l, 1)

	return Model{
		list:        l,
		allowCreate: opts.AllowCreate,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.wizard != nil {
		done, opts, cmd := m.wizard.Update(msg)
		if !done {
			return m, cmd
		}
		m.wizard = nil
		if opts == nil {
			return m, nil
		}
		m.result = PickerResult{Action: ActionNew, Create: opts}
		m.quitting = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if isHeaderSelected(&m.list) {
				skipHeaders(&m.list, 1)
			}
			if item, ok := m.list.SelectedItem().(workspaceItem); ok {
				ws := item.ws
				m.result = PickerResult{Action: ActionLaunch, Workspace: &ws}
				m.quitting = true
				return m, tea.Quit
			}

		case "n":
			if m.allowCreate {
				w := newWizardModel()
				w.width, w.height = m.width, m.height
				m.wizard = &w
				return m, w.Init()
			}
			m.result = PickerResult{Action: ActionNew}
			m.quitting = true
			return m, tea.Quit

		case "d":
			if item, ok := m.list.SelectedItem().(workspaceItem); ok {
				ws := item.ws
				m.result = PickerResult{Action: ActionRemove, Workspace: &ws}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit

		case "up", "k", "down", "j":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			skipHeaders(&m.list, navigationDirection(msg))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.wizard != nil {
		return m.wizard.View()
	}

	help := helpStyle.Render("[enter] Launch  [n] New  [d] Remove  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive workspace picker
func RunPicker(workspaces []workspace.Workspace, opts PickerOptions) (PickerResult, error) {
	if len(workspaces) == 0 && !opts.AllowCreate {
		return PickerResult{Action: ActionNew}, nil
	}

	m := NewPicker(workspaces, opts)
	if len(workspaces) == 0 {
		w := newWizardModel()
		m.wizard = &w
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive listing used when stdout is not a terminal
func SimplePicker(workspaces []workspace.Workspace, active string) string {
	var sb strings.Builder

	sb.WriteString("agentspaces - Workspaces\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(workspaces) == 0 {
		sb.WriteString("No workspaces found.\n")
		sb.WriteString("Create one with: agentspaces workspace create\n")
		return sb.String()
	}

	for i, ws := range workspaces {
		marker := " "
		if ws.Name == active {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s)\n", i+1, marker, ws.Name, ws.Branch))
		sb.WriteString(fmt.Sprintf("   Path: %s\n\n", truncatePath(ws.Path, 50)))
	}

	return sb.String()
}
