package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsolver/internal/store"
)

func newTestScreen(t *testing.T, entries ...store.HistoryEntry) *HistoryScreen {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	for i := range entries {
		if err := st.HistoryRepo().Add(context.Background(), &entries[i], 0); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	s := New(st.HistoryRepo())
	s.Update(s.Init()())
	return s
}

func TestEmptyHistory(t *testing.T) {
	s := newTestScreen(t)
	if !strings.Contains(s.View(80, 20), "No problems solved yet") {
		t.Error("expected empty message")
	}
}

func TestListAndExpand(t *testing.T) {
	s := newTestScreen(t,
		store.HistoryEntry{Problem: "1+1", Summary: "2", Success: true, Solution: "Answer:  2"},
		store.HistoryEntry{Problem: "2x+5=13", Summary: "x = 4", Success: true, Solution: "Answer:  x = 4", Source: store.SourceImage},
	)

	view := s.View(100, 20)
	if !strings.Contains(view, "2x+5=13") || !strings.Contains(view, "1+1") {
		t.Fatalf("view missing entries:\n%s", view)
	}
	if !strings.Contains(view, "[img]") {
		t.Error("expected image marker")
	}
	if strings.Contains(view, "Answer:") {
		t.Error("solutions should be collapsed by default")
	}

	// Newest first: the second entry is at the top.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 20), "Answer:  x = 4") {
		t.Error("expected expanded solution")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("площадь круга", 5); got != "площ…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("1+1", 5); got != "1+1" {
		t.Errorf("truncate = %q", got)
	}
}
