// Package style holds the palette and icons shared by logs and command reports.
package style

import "github.com/charmbracelet/lipgloss"

// Colors, named by what they signal.
var (
	Accent  = lipgloss.Color("#8B5CF6")
	Muted   = lipgloss.Color("#667085")
	Success = lipgloss.Color("#22A06B")
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
)

// Icons. Build lines use one per transform outcome.
const (
	Compiled = "✓"
	Cached   = "●"
	Failed   = "✗"
	Warning  = "!"
)
