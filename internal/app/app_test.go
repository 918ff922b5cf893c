package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathsolver/internal/pipeline"
	"github.com/abhisek/mathsolver/internal/screen"
	"github.com/abhisek/mathsolver/internal/ui/layout"
)

type busyScreen struct{ busy bool }

func (b *busyScreen) Init() tea.Cmd                           { return nil }
func (b *busyScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return b, nil }
func (b *busyScreen) View(int, int) string                    { return "" }
func (b *busyScreen) Title() string                           { return "Busy" }
func (b *busyScreen) Busy() bool                              { return b.busy }

func (b *busyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func TestNewAppModel_TextOnlyStatus(t *testing.T) {
	m := newAppModel(Options{Pipeline: pipeline.New(pipeline.Options{})})
	assert.Equal(t, "text only", m.status)
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestHeaderStatus_Busy(t *testing.T) {
	m := newAppModel(Options{Pipeline: pipeline.New(pipeline.Options{})})
	s := &busyScreen{}

	assert.Equal(t, "text only", m.headerStatus(s))
	s.busy = true
	assert.Equal(t, "working...", m.headerStatus(s))
}

func TestFooterHints(t *testing.T) {
	m := newAppModel(Options{Pipeline: pipeline.New(pipeline.Options{})})

	hints := m.footerHints(&busyScreen{})
	require.Len(t, hints, 2)
	assert.Equal(t, "Esc", hints[0].Key)
	assert.Equal(t, "Ctrl+C", hints[1].Key)
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newAppModel(Options{Pipeline: pipeline.New(pipeline.Options{})})

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Nil(t, cmd)
	got := next.(AppModel)
	assert.Equal(t, 100, got.width)
	assert.Equal(t, 40, got.height)
}
