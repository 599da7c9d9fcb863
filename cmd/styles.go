package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var categoryColors = map[string]lipgloss.Color{
	"reference":   lipgloss.Color("33"),
	"process":     lipgloss.Color("42"),
	"planning":    lipgloss.Color("214"),
	"operational": lipgloss.Color("170"),
	"decision":    lipgloss.Color("51"),
}

// field is one "label: value" line in a panel.
type field struct {
	label string
	value string
}

// renderFields aligns labels and skips empty values.
func renderFields(styled bool, fields []field) string {
	width := 0
	for _, f := range fields {
		if f.value != "" && len(f.label) > width {
			width = len(f.label)
		}
	}
	var lines []string
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		label := f.label + ":" + strings.Repeat(" ", width-len(f.label))
		if styled {
			lines = append(lines, labelStyle.Render(label)+" "+valueStyle.Render(f.value))
		} else {
			lines = append(lines, label+" "+f.value)
		}
	}
	return strings.Join(lines, "\n")
}

// panel frames body with a border when styled output is enabled.
func panel(styled bool, title, body string) string {
	if !styled {
		return title + "\n" + body
	}
	return panelStyle.Render(labelStyle.Render(title) + "\n\n" + body)
}

func categoryLabel(styled bool, category string) string {
	if !styled {
		return category
	}
	color, ok := categoryColors[category]
	if !ok {
		return category
	}
	return lipgloss.NewStyle().Foreground(color).Render(category)
}

func dim(styled bool, s string) string {
	if !styled {
		return s
	}
	return dimStyle.Render(s)
}
