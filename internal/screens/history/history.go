package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsolver/internal/router"
	"github.com/abhisek/mathsolver/internal/screen"
	"github.com/abhisek/mathsolver/internal/store"
	"github.com/abhisek/mathsolver/internal/ui/layout"
	"github.com/abhisek/mathsolver/internal/ui/theme"
)

type historyLoadedMsg struct {
	entries []store.HistoryEntry
	err     error
}

// HistoryScreen lists recent problems. Enter expands the selected entry to
// its full solution.
type HistoryScreen struct {
	repo     store.HistoryRepo
	entries  []store.HistoryEntry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		entries, err := repo.Recent(context.Background(), store.DefaultHistorySize)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Solution"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.entries = msg.entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No problems solved yet.")
	}

	var lines []string
	selectedLine := 0
	for i, e := range s.entries {
		if i == s.selected {
			selectedLine = len(lines)
		}
		lines = append(lines, s.renderRow(i, e, width))
		if s.expanded[i] {
			card := theme.Card.Width(max(width-6, 20)).Render(e.Solution)
			for _, l := range strings.Split(card, "\n") {
				lines = append(lines, "    "+l)
			}
		}
	}

	// Keep the selected row on screen.
	start := 0
	if height > 0 && selectedLine >= height {
		start = selectedLine - height + 1
	}
	end := len(lines)
	if height > 0 && end-start > height {
		end = start + height
	}
	return strings.Join(lines[start:end], "\n")
}

func (s *HistoryScreen) renderRow(i int, e store.HistoryEntry, width int) string {
	mark := theme.Answer.Render("✓")
	if !e.Success {
		mark = theme.Failed.Render("✗")
	}
	src := ""
	if e.Source == store.SourceImage {
		src = " [img]"
	}

	problem := truncate(e.Problem, max(width/2-10, 10))
	row := fmt.Sprintf("%s  %-*s  →  %s%s", e.Timestamp.Local().Format("Jan 02 15:04"),
		max(width/2-10, 10), problem, e.Summary, src)

	style := theme.Unselected
	prefix := "    "
	if i == s.selected {
		style = theme.Selected
		prefix = "  ▸ "
	}
	return prefix + mark + " " + style.Render(row)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
