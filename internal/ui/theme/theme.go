// Package theme holds the colors and text styles shared by the TUI screens
// and the styled solution renderer.
package theme

import "charm.land/lipgloss/v2"

// Chalkboard palette.
var (
	Chalk     = lipgloss.Color("#E2E8F0")
	ChalkDim  = lipgloss.Color("#8B98AB")
	Accent    = lipgloss.Color("#38BDF8")
	Highlight = lipgloss.Color("#A78BFA")
	Good      = lipgloss.Color("#4ADE80")
	Caution   = lipgloss.Color("#FBBF24")
	Bad       = lipgloss.Color("#F87171")
	Border    = lipgloss.Color("#3F4B5B")

	// Text and TextDim are aliases used by the frame chrome.
	Text    = Chalk
	TextDim = ChalkDim
	Error   = Bad
)

// Text styles.
var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Highlight)
	Subtitle = lipgloss.NewStyle().Foreground(ChalkDim)
	Body     = lipgloss.NewStyle().Foreground(Chalk)
	Hint     = lipgloss.NewStyle().Foreground(ChalkDim).Italic(true)
	Label    = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// Menu states.
var (
	Selected   = lipgloss.NewStyle().Foreground(Highlight).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Chalk)
)

// Solution states. Answer is a computed value, Soft a result that needs the
// reader's judgement (low OCR confidence, undetermined variable) and Failed
// a problem that could not be solved.
var (
	Answer = lipgloss.NewStyle().Foreground(Good).Bold(true)
	Soft   = lipgloss.NewStyle().Foreground(Caution)
	Failed = lipgloss.NewStyle().Foreground(Bad).Bold(true)
	Step   = lipgloss.NewStyle().Foreground(Chalk).PaddingLeft(2)
)

// Card frames a block such as the home menu or an expanded history entry.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 2)
