// Package ui prints the installer's progress lines. Each line starts with a
// colored "==>" marker: blue for progress, yellow for warnings and red for
// fatal errors. Colors are dropped when the writer is not a terminal, when
// NO_COLOR is set, or when the caller asks for plain output.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const marker = "==>"

// Console writes styled lines to an output and an error stream.
type Console struct {
	out    io.Writer
	errOut io.Writer

	info lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
}

// NewConsole returns a Console writing progress to out and errors to errOut.
func NewConsole(out, errOut io.Writer, noColor bool) *Console {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)
	if noColor {
		outR.SetColorProfile(termenv.Ascii)
		errR.SetColorProfile(termenv.Ascii)
	}
	return &Console{
		out:    out,
		errOut: errOut,
		info:   outR.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		warn:   outR.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		fail:   errR.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Discard returns a Console that prints nothing.
func Discard() *Console {
	return NewConsole(io.Discard, io.Discard, true)
}

// Info prints a progress line.
func (c *Console) Info(msg string) {
	fmt.Fprintf(c.out, "%s %s\n", c.info.Render(marker), msg)
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.out, "%s %s\n", c.warn.Render(marker), msg)
}

// Error prints a fatal error line to the error stream.
func (c *Console) Error(msg string) {
	fmt.Fprintf(c.errOut, "%s %s\n", c.fail.Render(marker), msg)
}

// Println prints msg without a marker.
func (c *Console) Println(msg string) {
	fmt.Fprintln(c.out, msg)
}
