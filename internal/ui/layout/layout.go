// Package layout draws the frame around the active screen: a header with
// the breadcrumb and status, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsolver/internal/ui/theme"
)

// Smallest terminal the frame is drawn in. Below it a resize notice is
// shown instead.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small: %d x %d\n\nmathsolver needs at least %d x %d.",
		width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

// bar is the bordered style of the header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader puts the app name on the left, the title in the middle and
// status on the right. A title that does not fit is cut from the left, so
// the current screen stays visible.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	left := theme.Title.Render("  mathsolver")
	right := theme.Subtitle.Render(status)

	room := max(inner-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	if r := []rune(title); len(r) > room {
		title = "…" + string(r[len(r)-room+1:])
	}
	center := theme.Body.Render(title)

	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)
	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter shows as many hints as fit in width, in order.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	inner := max(width-4, 0)

	line := ""
	for _, h := range hints {
		part := keyStyle.Render(h.Key) + " " + theme.Subtitle.Render(h.Description)
		next := part
		if line != "" {
			next = line + "   " + part
		}
		if lipgloss.Width("  "+next) > inner {
			break
		}
		line = next
	}
	return bar(width).Render("  " + line)
}

// RenderFrame stacks header, content and footer into exactly height lines.
// Content taller than the space between them is cut off.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content = lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
