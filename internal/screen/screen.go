// Package screen holds the contract between the router and the TUI screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsolver/internal/ui/layout"
)

// Screen is one page of the TUI. The app frame draws the header and footer;
// a screen renders only the area between them.
type Screen interface {
	// Init runs each time the screen becomes active.
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BusyReporter is implemented by screens that run work in the background.
// While Busy reports true the header shows a working status.
type BusyReporter interface {
	Busy() bool
}
