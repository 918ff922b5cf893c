package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsolver/internal/pipeline"
	"github.com/abhisek/mathsolver/internal/router"
	"github.com/abhisek/mathsolver/internal/screen"
	"github.com/abhisek/mathsolver/internal/screens/history"
	"github.com/abhisek/mathsolver/internal/screens/solve"
	"github.com/abhisek/mathsolver/internal/store"
	"github.com/abhisek/mathsolver/internal/ui/components"
	"github.com/abhisek/mathsolver/internal/ui/theme"
)

type statsLoadedMsg struct {
	stats store.Stats
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	pipeline  *pipeline.Pipeline
	statsRepo store.StatsRepo
	menu      components.Menu
	stats     store.Stats
	hasStats  bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. historyRepo and statsRepo may be nil.
func New(p *pipeline.Pipeline, historyRepo store.HistoryRepo, statsRepo store.StatsRepo) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	imageItem := components.MenuItem{
		Label:  "Solve from Image",
		Action: push(func() screen.Screen { return solve.New(p, solve.ModeImage) }),
	}
	if !p.CanReadImages() {
		imageItem.Disabled = true
		imageItem.Hint = "needs an LLM API key"
	}

	items := []components.MenuItem{
		{Label: "Quick Solve", Action: push(func() screen.Screen { return solve.New(p, solve.ModeText) })},
		imageItem,
		{Label: "History", Action: push(func() screen.Screen { return history.New(historyRepo) }), Disabled: historyRepo == nil},
		{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		pipeline:  p,
		statsRepo: statsRepo,
		menu:      components.NewMenu(items),
	}
}

// Init reloads the counters; it runs again whenever a child screen pops.
func (h *HomeScreen) Init() tea.Cmd {
	if h.statsRepo == nil {
		return nil
	}
	repo := h.statsRepo
	return func() tea.Msg {
		st, err := repo.Get(context.Background())
		return statsLoadedMsg{stats: st, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.err == nil {
			h.stats = msg.stats
			h.hasStats = true
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("mathsolver"))
	sections = append(sections, theme.Subtitle.Render("Type or photograph a problem and get a worked answer."))

	if h.hasStats {
		sections = append(sections, theme.Body.Render(fmt.Sprintf(
			"Solved %d  ·  Images %d  ·  Success %d%%",
			h.stats.ProblemsSolved, h.stats.ImagesProcessed, h.stats.SuccessRate())))
	}

	sections = append(sections, theme.Card.Render(strings.TrimRight(h.menu.View(), "\n")))

	spaced := make([]string, 0, 2*len(sections))
	for i, sec := range sections {
		if i > 0 {
			spaced = append(spaced, "")
		}
		spaced = append(spaced, sec)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, spaced...))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
