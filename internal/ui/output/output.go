// Package output writes terminal reports with the CLI's color handling.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/depcache/internal/ui/style"
)

// ColorProfile returns the color profile to use.
// NO_COLOR forces Ascii; otherwise the environment decides.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output for w using ColorProfile. A nil w means stderr.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

// Status renders an icon and a message in the given color, e.g. a build line.
func Status(out *termenv.Output, icon string, color lipgloss.Color, msg string) string {
	return Paint(out, icon+" "+msg, color)
}

// Paint renders s in color using the profile of out.
func Paint(out *termenv.Output, s string, color lipgloss.Color) string {
	return out.String(s).Foreground(termenv.RGBColor(string(color))).String()
}

// Printer writes line oriented command reports. The first write error is kept
// and later writes are dropped.
type Printer struct {
	out *termenv.Output
	err error
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: New(w)}
}

// Status prints a colored status line.
func (p *Printer) Status(icon string, color lipgloss.Color, format string, args ...any) {
	p.println(Status(p.out, icon, color, fmt.Sprintf(format, args...)))
}

// Heading prints a section title.
func (p *Printer) Heading(title string) {
	p.println(Paint(p.out, title, style.Accent))
}

// Muted prints a line of secondary detail.
func (p *Printer) Muted(format string, args ...any) {
	p.println(Paint(p.out, fmt.Sprintf(format, args...), style.Muted))
}

// Line prints an unstyled line.
func (p *Printer) Line(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Field prints an indented label and value, with labels aligned to width.
func (p *Printer) Field(width int, label string, value any) {
	p.println(fmt.Sprintf("  %-*s %v", width, label, value))
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) println(line string) {
	if p.err != nil {
		return
	}
	_, p.err = p.out.WriteString(line + "\n")
}
