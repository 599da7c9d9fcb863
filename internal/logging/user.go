package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	infoMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningMark = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
)

// Printer writes user-facing messages with status indicators.
// Info and Success go to Out, Warning and Error go to Err.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Quiet  bool
	Styled bool
}

// NewPrinter returns a Printer on stdout/stderr. Markers are colored only
// when stdout is a terminal.
func NewPrinter(quiet bool) *Printer {
	return &Printer{
		Out:    os.Stdout,
		Err:    os.Stderr,
		Quiet:  quiet,
		Styled: IsTerminal(os.Stdout),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) mark(style lipgloss.Style, m string) string {
	if p.Styled {
		return style.Render(m)
	}
	return m
}

// Info prints an info message. Suppressed in quiet mode.
func (p *Printer) Info(format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Fprintf(p.Out, p.mark(infoMark, "ℹ")+" "+format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Out, p.mark(successMark, "✓")+" "+format+"\n", args...)
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.Err, p.mark(warningMark, "⚠")+" "+format+"\n", args...)
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.Err, p.mark(errorMark, "✗")+" "+format+"\n", args...)
}

// DidYouMean prints name suggestions. Nothing is printed for an empty list.
func (p *Printer) DidYouMean(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(p.Err)
	fmt.Fprintln(p.Err, p.mark(hintStyle, "Did you mean?"))
	for _, s := range suggestions {
		fmt.Fprintf(p.Err, "  %s\n", p.mark(nameStyle, s))
	}
}
