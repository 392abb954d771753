package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/pkg/models"
)

func newTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	return NewServer(database), database
}

func TestHandleTasks(t *testing.T) {
	s, database := newTestServer(t)
	ctx := context.Background()

	cat := &models.Category{Name: "Trabajo"}
	if err := database.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	task := &models.Task{
		Title:       "Comprar pan",
		Description: "en el mercado",
		Category:    *cat,
		Status:      models.StatusPending,
	}
	if err := database.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/tareas", nil)
	rec := httptest.NewRecorder()
	s.handleTasks(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %s", ct)
	}

	var rows []models.TaskRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Comprar pan" || rows[0].CategoryName != "Trabajo" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestHandleCategories(t *testing.T) {
	s, database := newTestServer(t)

	cat := &models.Category{Name: "Casa"}
	if err := database.CreateCategory(context.Background(), cat); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/categorias", nil)
	rec := httptest.NewRecorder()
	s.handleCategories(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []models.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Casa" {
		t.Errorf("unexpected categories: %+v", categories)
	}
}
