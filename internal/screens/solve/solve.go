// Package solve is the interactive problem entry screen.
package solve

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsolver/internal/ocr"
	"github.com/abhisek/mathsolver/internal/pipeline"
	"github.com/abhisek/mathsolver/internal/render"
	"github.com/abhisek/mathsolver/internal/router"
	"github.com/abhisek/mathsolver/internal/screen"
	"github.com/abhisek/mathsolver/internal/ui/components"
	"github.com/abhisek/mathsolver/internal/ui/layout"
	"github.com/abhisek/mathsolver/internal/ui/theme"
)

// Mode selects what the input line holds.
type Mode int

const (
	// ModeText reads the problem itself.
	ModeText Mode = iota
	// ModeImage reads a path to an image of the problem.
	ModeImage
)

type solvedMsg struct {
	report *pipeline.Report
	err    error
}

// SolveScreen takes one problem at a time and shows the solution under
// the input line.
type SolveScreen struct {
	pipeline *pipeline.Pipeline
	mode     Mode
	input    components.TextInput

	working bool
	report  *pipeline.Report
	err     error
}

var _ screen.Screen = (*SolveScreen)(nil)
var _ screen.KeyHintProvider = (*SolveScreen)(nil)
var _ screen.BusyReporter = (*SolveScreen)(nil)

// New creates a SolveScreen.
func New(p *pipeline.Pipeline, mode Mode) *SolveScreen {
	placeholder := "e.g. 2x + 5 = 13"
	if mode == ModeImage {
		placeholder = "path to a .png, .jpg or .webp file"
	}
	return &SolveScreen{
		pipeline: p,
		mode:     mode,
		input:    components.NewTextInput(placeholder, 500),
	}
}

func (s *SolveScreen) Init() tea.Cmd {
	return nil
}

func (s *SolveScreen) Title() string {
	if s.mode == ModeImage {
		return "Solve from Image"
	}
	return "Quick Solve"
}

// Busy reports whether a problem is being solved.
func (s *SolveScreen) Busy() bool {
	return s.working
}

func (s *SolveScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Solve"},
		{Key: "↑↓", Description: "Recall"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SolveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case solvedMsg:
		s.working = false
		s.report, s.err = msg.report, msg.err
		if msg.err == nil {
			s.input.Reset()
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			value := s.input.Value()
			if value == "" || s.working {
				return s, nil
			}
			s.working = true
			s.err = nil
			s.input.Remember(value)
			return s, s.run(value)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SolveScreen) run(value string) tea.Cmd {
	p, mode := s.pipeline, s.mode
	return func() tea.Msg {
		ctx := context.Background()
		if mode == ModeImage {
			img, err := ocr.LoadImage(value)
			if err != nil {
				return solvedMsg{err: err}
			}
			rep, err := p.SolveImage(ctx, img)
			return solvedMsg{report: rep, err: err}
		}
		rep, err := p.SolveText(ctx, value)
		return solvedMsg{report: rep, err: err}
	}
}

func (s *SolveScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("  Problem"))
	b.WriteString("\n  ")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.working:
		b.WriteString(theme.Hint.Render("  Solving..."))
	case s.err != nil:
		b.WriteString(theme.Failed.Render("  Error: " + s.err.Error()))
	case s.report != nil:
		if rec := s.report.Recognition; rec != nil {
			line := fmt.Sprintf("  Read from image (confidence %.0f%%)", rec.Confidence*100)
			if rec.LowConfidence {
				b.WriteString(theme.Soft.Render(line + ": check the text below"))
			} else {
				b.WriteString(theme.Subtitle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString(render.Styled(s.report.Outcome, max(width-2, 20)))
	case s.mode == ModeImage:
		b.WriteString(theme.Hint.Render("  Enter an image path and press Enter."))
	default:
		b.WriteString(theme.Hint.Render("  Type a problem and press Enter."))
	}
	return b.String()
}
