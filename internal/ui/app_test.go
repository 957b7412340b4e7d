package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/numdeck/numdeck/internal/edit"
	"github.com/numdeck/numdeck/internal/sheet"
	"github.com/numdeck/numdeck/internal/state"
)

type fakeEngine struct {
	activity int
	forced   int
}

func (f *fakeEngine) Activity()       { f.activity++ }
func (f *fakeEngine) SetVisible(bool) {}
func (f *fakeEngine) ForceRefresh()   { f.forced++ }

type fakeEditor struct {
	begun []struct {
		key sheet.Key
		to  sheet.Status
	}
	accept bool
}

func (f *fakeEditor) Begin(key sheet.Key, to sheet.Status) (edit.Ticket, bool) {
	f.begun = append(f.begun, struct {
		key sheet.Key
		to  sheet.Status
	}{key, to})
	if !f.accept {
		return edit.Ticket{}, false
	}
	return edit.Ticket{ID: "t", Key: key, To: to}, true
}

func (f *fakeEditor) Finish(context.Context, edit.Ticket) edit.Result {
	return edit.ResultApplied
}

func testRows() []sheet.Number {
	return []sheet.Number{
		{MSISDN: "9715551234", AssignDate: "2024-01-02", Category: "Marketing", Owner: "amal", Status: sheet.StatusOpen},
		{MSISDN: "9715559999", AssignDate: "2024-02-07", Category: "Sales", Owner: "rami", Status: sheet.StatusReserved},
		{MSISDN: "9715550001", AssignDate: "2024-03-11", Category: "Support", Owner: "", Status: sheet.StatusOpen},
	}
}

// testModel builds a sized model over a populated store.
func testModel(t *testing.T, engine Engine, editor Editor) Model {
	t.Helper()

	store := &state.Store{}
	store.Replace(testRows())

	m := New(Options{
		Engine: engine,
		Editor: editor,
		Store:  store,
	})
	// Keep tests from writing the real prefs file.
	m.prefsPath = ""

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	next, _ = m.Update(SnapshotMsg(store.Snapshot()))
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestKeystrokesSignalActivity(t *testing.T) {
	engine := &fakeEngine{}
	m := testModel(t, engine, &fakeEditor{accept: true})

	m = press(t, m, "j", "k")
	if engine.activity != 2 {
		t.Fatalf("activity signals = %d, want 2", engine.activity)
	}
	_ = m
}

func TestSearchNarrowsAndResetsPage(t *testing.T) {
	m := testModel(t, &fakeEngine{}, &fakeEditor{accept: true})
	m.query = m.query.WithPageSize(1)
	m.refreshFromStore()
	m = press(t, m, "l") // page 2

	if m.window.Page != 2 {
		t.Fatalf("page = %d, want 2", m.window.Page)
	}

	m = press(t, m, "/")
	if !m.searching {
		t.Fatal("expected search input to be active")
	}
	m = press(t, m, "m", "a", "r")

	if m.query.Search != "mar" {
		t.Fatalf("search = %q, want mar", m.query.Search)
	}
	if m.query.Page != 1 {
		t.Fatalf("page after search = %d, want 1", m.query.Page)
	}
	if m.window.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", m.window.Total)
	}
}

func TestEscapeClearsSearch(t *testing.T) {
	m := testModel(t, &fakeEngine{}, &fakeEditor{accept: true})
	m = press(t, m, "/", "s", "a", "l", "enter")

	if m.window.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", m.window.Total)
	}

	m = press(t, m, "esc")
	if m.query.Search != "" {
		t.Fatalf("search = %q, want empty", m.query.Search)
	}
	if m.window.Total != 3 {
		t.Fatalf("total after clear = %d, want 3", m.window.Total)
	}
}

func TestReserveAsksForConfirmation(t *testing.T) {
	editor := &fakeEditor{accept: true}
	m := testModel(t, &fakeEngine{}, editor)

	// First row is Open; toggling it means reserving.
	m = press(t, m, "enter")
	if !m.confirming {
		t.Fatal("expected confirmation modal for a reserve")
	}
	if len(editor.begun) != 0 {
		t.Fatal("edit must not start before confirmation")
	}

	m = press(t, m, "y")
	if m.confirming {
		t.Fatal("modal should close on confirm")
	}
	if len(editor.begun) != 1 {
		t.Fatalf("begun edits = %d, want 1", len(editor.begun))
	}
	if editor.begun[0].to != sheet.StatusReserved {
		t.Fatalf("edit target = %s, want Reserved", editor.begun[0].to)
	}
}

func TestDecliningConfirmationIsANoOp(t *testing.T) {
	editor := &fakeEditor{accept: true}
	m := testModel(t, &fakeEngine{}, editor)

	m = press(t, m, "enter", "n")
	if m.confirming {
		t.Fatal("modal should close on decline")
	}
	if len(editor.begun) != 0 {
		t.Fatalf("begun edits = %d, want 0", len(editor.begun))
	}
}

func TestReleaseSkipsConfirmation(t *testing.T) {
	editor := &fakeEditor{accept: true}
	m := testModel(t, &fakeEngine{}, editor)

	m = press(t, m, "j") // second row is Reserved
	m = press(t, m, "enter")

	if m.confirming {
		t.Fatal("releasing must not ask for confirmation")
	}
	if len(editor.begun) != 1 || editor.begun[0].to != sheet.StatusOpen {
		t.Fatalf("begun = %+v, want one edit to Open", editor.begun)
	}
}

func TestToggleOnPendingRowIsANoOp(t *testing.T) {
	editor := &fakeEditor{accept: true}
	m := testModel(t, &fakeEngine{}, editor)

	// Mark the second row pending through the store, then refresh the view.
	key := testRows()[1].Key()
	if _, ok := m.store.BeginEdit(key, sheet.StatusOpen); !ok {
		t.Fatal("BeginEdit failed")
	}
	m.refreshFromStore()

	m = press(t, m, "j", "enter")
	if len(editor.begun) != 0 {
		t.Fatalf("begun edits = %d, want 0 while pending", len(editor.begun))
	}
}

func TestManualRefreshForcesScheduler(t *testing.T) {
	engine := &fakeEngine{}
	m := testModel(t, engine, &fakeEditor{accept: true})

	m = press(t, m, "r")
	if engine.forced != 1 {
		t.Fatalf("forced refreshes = %d, want 1", engine.forced)
	}
}

func TestPageSizeCyclePersistsReset(t *testing.T) {
	m := testModel(t, &fakeEngine{}, &fakeEditor{accept: true})
	m.query = m.query.WithPageSize(1)
	m.refreshFromStore()
	m = press(t, m, "l", "l") // last page

	m = press(t, m, "z")
	if m.query.Page != 1 {
		t.Fatalf("page after size change = %d, want 1", m.query.Page)
	}
}

func TestSortCycleWalksSchemaAndBack(t *testing.T) {
	m := testModel(t, &fakeEngine{}, &fakeEditor{accept: true})

	fields := sheet.Fields()
	for _, spec := range fields {
		m = press(t, m, "s")
		if m.query.SortBy != spec.Field {
			t.Fatalf("sort = %q, want %q", m.query.SortBy, spec.Field)
		}
	}
	m = press(t, m, "s")
	if m.query.SortBy != "" {
		t.Fatalf("sort after full cycle = %q, want none", m.query.SortBy)
	}
}

func TestViewRendersWithoutPanic(t *testing.T) {
	m := testModel(t, &fakeEngine{}, &fakeEditor{accept: true})

	if out := m.View(); out == "" {
		t.Fatal("View() returned empty output")
	}

	m.showHelp = true
	if out := m.View(); out == "" {
		t.Fatal("help View() returned empty output")
	}
	m.showHelp = false

	m.showStats = true
	if out := m.View(); out == "" {
		t.Fatal("breakdown View() returned empty output")
	}
}
