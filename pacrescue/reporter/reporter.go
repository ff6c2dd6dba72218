// Package reporter prints color-coded status lines for the operator.
// The prefixes follow the pacman/makepkg conventions: "::" for
// progress, "==>" for results and warnings.
package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	infoColor    = lipgloss.Color("12") // blue
	successColor = lipgloss.Color("10") // green
	warningColor = lipgloss.Color("11") // yellow
	errorColor   = lipgloss.Color("9")  // red
)

// Reporter writes human-readable status lines. Informational,
// success and warning lines go to out; errors go to errOut. Color is
// only used when out is a terminal.
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	color  bool

	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func New(out, errOut io.Writer) *Reporter {
	r := &Reporter{
		out:     out,
		errOut:  errOut,
		info:    lipgloss.NewStyle().Foreground(infoColor).Bold(true),
		success: lipgloss.NewStyle().Foreground(successColor).Bold(true),
		warning: lipgloss.NewStyle().Foreground(warningColor).Bold(true),
		failure: lipgloss.NewStyle().Foreground(errorColor).Bold(true),
	}
	if f, ok := out.(*os.File); ok {
		r.color = term.IsTerminal(int(f.Fd()))
	}
	return r
}

func (r *Reporter) Infof(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.render(r.info, "::"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Successf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.render(r.success, "==>"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "%s %s\n", r.render(r.warning, "==> WARNING:"), fmt.Sprintf(format, args...))
}

func (r *Reporter) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(r.errOut, "%s %s\n", r.render(r.failure, "==> ERROR:"), fmt.Sprintf(format, args...))
}

// Prompt writes a question without a trailing newline so the answer
// is typed on the same line.
func (r *Reporter) Prompt(msg string) {
	fmt.Fprintf(r.out, "%s %s", r.render(r.info, "::"), msg)
}

func (r *Reporter) render(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}
