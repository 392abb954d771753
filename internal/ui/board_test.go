package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tareas-app/tareas/internal/auth"
	"github.com/tareas-app/tareas/internal/board"
	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/pkg/models"
)

func newTestBoard(t *testing.T) (BoardModel, *board.Controller, *db.DB) {
	t.Helper()

	database := newTestDB(t)
	ctx := context.Background()

	cat := &models.Category{Name: "Trabajo"}
	if err := database.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	ctrl := board.New(database, testLogger())
	if err := ctrl.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	session := &auth.Session{Token: "t", Username: "maria"}
	return NewBoardModel(ctrl, session), ctrl, database
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBoardCreateFlow(t *testing.T) {
	m, ctrl, _ := newTestBoard(t)

	// n opens the form focused on the title.
	model, _ := m.Update(key("n"))
	m = model.(BoardModel)
	if m.focus != focusTitle {
		t.Fatalf("expected title focus after 'n', got %d", m.focus)
	}

	model, _ = m.Update(key("Comprar pan"))
	m = model.(BoardModel)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(BoardModel)
	if m.focus != focusDescription {
		t.Fatalf("expected description focus after tab, got %d", m.focus)
	}

	model, _ = m.Update(key("en el mercado"))
	m = model.(BoardModel)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(BoardModel)
	if m.focus != focusCategory {
		t.Fatalf("expected category focus after tab, got %d", m.focus)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = model.(BoardModel)
	if m.categoryIdx != 0 {
		t.Fatalf("expected first category selected, got %d", m.categoryIdx)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BoardModel)

	if len(ctrl.Rows()) != 1 {
		t.Fatalf("expected 1 row after create, got %d", len(ctrl.Rows()))
	}
	row := ctrl.Rows()[0]
	if row.Title != "Comprar pan" || row.CategoryName != "Trabajo" || row.StatusName != "Pendiente" {
		t.Errorf("unexpected created row: %+v", row)
	}
	if m.focus != focusTable {
		t.Errorf("expected focus back on the table, got %d", m.focus)
	}
	if len(m.table.Rows()) != 1 {
		t.Errorf("expected 1 table row, got %d", len(m.table.Rows()))
	}
}

func TestBoardCreateValidationKeepsForm(t *testing.T) {
	m, ctrl, _ := newTestBoard(t)

	model, _ := m.Update(key("n"))
	m = model.(BoardModel)

	// Submit with everything empty: warning, no store call.
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BoardModel)

	if len(ctrl.Rows()) != 0 {
		t.Errorf("expected no rows after invalid submit, got %d", len(ctrl.Rows()))
	}
	if m.message == "" {
		t.Error("expected a user-visible warning")
	}
	if m.focus == focusTable {
		t.Error("expected form to stay open after invalid submit")
	}
}

func TestBoardEditFlow(t *testing.T) {
	m, ctrl, _ := newTestBoard(t)
	ctx := context.Background()

	cat := ctrl.Categories()[0]
	if _, err := ctrl.SubmitCreate(ctx, "Comprar pan", "en el mercado", cat); err != nil {
		t.Fatalf("SubmitCreate failed: %v", err)
	}
	m.reloadTable()

	// e pre-fills the form from the displayed row.
	model, _ := m.Update(key("e"))
	m = model.(BoardModel)
	if !ctrl.EditMode() {
		t.Fatal("expected edit mode after 'e'")
	}
	if m.titleInput.Value() != "Comprar pan" {
		t.Errorf("expected pre-filled title, got %q", m.titleInput.Value())
	}
	if m.categoryIdx != 0 || m.statusIdx != 0 {
		t.Errorf("expected pre-selected pickers, got category %d status %d", m.categoryIdx, m.statusIdx)
	}

	m.titleInput.SetValue("Comprar leche")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BoardModel)

	if ctrl.EditMode() {
		t.Error("expected create mode after save")
	}
	if len(ctrl.Rows()) != 1 || ctrl.Rows()[0].Title != "Comprar leche" {
		t.Errorf("update did not round-trip: %+v", ctrl.Rows())
	}
}

func TestBoardDeleteConfirmation(t *testing.T) {
	m, ctrl, _ := newTestBoard(t)
	ctx := context.Background()

	cat := ctrl.Categories()[0]
	if _, err := ctrl.SubmitCreate(ctx, "Comprar pan", "en el mercado", cat); err != nil {
		t.Fatalf("SubmitCreate failed: %v", err)
	}
	m.reloadTable()

	// d asks for confirmation; n declines.
	model, _ := m.Update(key("d"))
	m = model.(BoardModel)
	if !m.confirming {
		t.Fatal("expected confirmation prompt after 'd'")
	}
	model, _ = m.Update(key("n"))
	m = model.(BoardModel)
	if m.confirming {
		t.Fatal("expected prompt dismissed after 'n'")
	}
	if len(ctrl.Rows()) != 1 {
		t.Errorf("expected row to survive declined delete, got %d", len(ctrl.Rows()))
	}

	// d then y deletes and refreshes.
	model, _ = m.Update(key("d"))
	m = model.(BoardModel)
	model, _ = m.Update(key("y"))
	m = model.(BoardModel)

	if len(ctrl.Rows()) != 0 {
		t.Errorf("expected empty listing after confirmed delete, got %d", len(ctrl.Rows()))
	}
	if len(m.table.Rows()) != 0 {
		t.Errorf("expected empty table after confirmed delete, got %d", len(m.table.Rows()))
	}
}

func TestBoardEscCancelsEdit(t *testing.T) {
	m, ctrl, _ := newTestBoard(t)
	ctx := context.Background()

	cat := ctrl.Categories()[0]
	if _, err := ctrl.SubmitCreate(ctx, "Comprar pan", "en el mercado", cat); err != nil {
		t.Fatalf("SubmitCreate failed: %v", err)
	}
	m.reloadTable()

	model, _ := m.Update(key("e"))
	m = model.(BoardModel)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(BoardModel)

	if ctrl.EditMode() {
		t.Error("expected create mode after esc")
	}
	if m.focus != focusTable {
		t.Errorf("expected table focus after esc, got %d", m.focus)
	}
}
