// Package output prints styled status lines for CLI subcommands.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes styled lines to W.
type Printer struct {
	W io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{W: w}
}

// Success prints a completed operation.
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✓ ", format, args...)
}

// Error prints a failure that needs attention.
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle, "✗ ", format, args...)
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) {
	p.line(warnStyle, "! ", format, args...)
}

// Info prints a status update.
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "• ", format, args...)
}

// Step prints an indented sub-item.
func (p *Printer) Step(format string, args ...any) {
	p.line(stepStyle, "   ", format, args...)
}

func (p *Printer) line(style lipgloss.Style, marker, format string, args ...any) {
	fmt.Fprintln(p.W, style.Render(marker+fmt.Sprintf(format, args...)))
}
