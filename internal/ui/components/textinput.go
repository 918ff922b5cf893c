package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is a single-line prompt for problems. Up and down recall
// earlier entries, newest first, like a shell.
type TextInput struct {
	Model textinput.Model

	past   []string
	recall int // index into past while browsing, len(past) when not
	draft  string
}

// NewTextInput returns a focused input. limit <= 0 means no limit.
func NewTextInput(placeholder string, limit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			t.browse(-1)
			return t, nil
		case "down":
			t.browse(1)
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t *TextInput) browse(dir int) {
	if len(t.past) == 0 {
		return
	}
	if t.recall == len(t.past) {
		t.draft = t.Model.Value()
	}
	t.recall = min(max(t.recall+dir, 0), len(t.past))
	if t.recall == len(t.past) {
		t.Model.SetValue(t.draft)
	} else {
		t.Model.SetValue(t.past[t.recall])
	}
	t.Model.CursorEnd()
}

func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the input with surrounding space trimmed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Remember adds v to the recall list unless it repeats the last entry.
func (t *TextInput) Remember(v string) {
	if v != "" && (len(t.past) == 0 || t.past[len(t.past)-1] != v) {
		t.past = append(t.past, v)
	}
	t.recall = len(t.past)
	t.draft = ""
}

// Reset clears the line.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.recall = len(t.past)
}

func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(w)
}
