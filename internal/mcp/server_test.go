package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/pkg/models"
)

func TestServerInitialization(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.Init(context.Background()); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	s := NewServer(database)
	stdio := server.NewStdioServer(s)

	r, w := io.Pipe()
	stdout := &bytes.Buffer{}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdio.Listen(ctx, r, stdout)
	}()

	initReq := mcp.InitializeRequest{}
	initReq.Method = "initialize"
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}

	rawReq := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params":  initReq.Params,
	}

	data, err := json.Marshal(rawReq)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	w.Write(data)
	w.Write([]byte("\n"))

	time.Sleep(200 * time.Millisecond)

	if stdout.Len() == 0 {
		t.Fatal("Expected response from server, got none")
	}

	var resp struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Result  struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}

	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v\nOutput: %s", err, stdout.String())
	}

	if resp.ID != 1 {
		t.Errorf("Expected id 1, got %v", resp.ID)
	}

	if resp.Result.ServerInfo.Name != "Tareas" {
		t.Errorf("Expected server name Tareas, got %v", resp.Result.ServerInfo.Name)
	}
}

func TestToolHandlers(t *testing.T) {
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	s := NewServer(database)

	t.Run("create_category", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "create_category"
		req.Params.Arguments = map[string]interface{}{
			"name": "Trabajo",
		}

		tool := s.GetTool("create_category")
		if tool == nil {
			t.Fatal("Tool create_category not found")
		}

		result, err := tool.Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Handler failed: %v, %v", err, result.Content)
		}

		categories, err := database.ListCategories(ctx)
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if len(categories) != 1 || categories[0].Name != "Trabajo" {
			t.Fatalf("Category not persisted: %+v", categories)
		}
	})

	t.Run("create_task", func(t *testing.T) {
		categories, _ := database.ListCategories(ctx)

		req := mcp.CallToolRequest{}
		req.Params.Name = "create_task"
		req.Params.Arguments = map[string]interface{}{
			"title":       "Informe mensual",
			"description": "Redactar el informe de agosto",
			"category_id": float64(categories[0].ID),
		}

		tool := s.GetTool("create_task")
		if tool == nil {
			t.Fatal("Tool create_task not found")
		}

		result, err := tool.Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Handler failed: %v, %v", err, result.Content)
		}

		rows, err := database.ListTasks(ctx)
		if err != nil {
			t.Fatalf("Failed to list tasks: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("Expected 1 task, got %d", len(rows))
		}
		if rows[0].StatusName != models.StatusPending.Name {
			t.Errorf("Expected status %q, got %q", models.StatusPending.Name, rows[0].StatusName)
		}
	})

	t.Run("create_task_unknown_category", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "create_task"
		req.Params.Arguments = map[string]interface{}{
			"title":       "Huérfana",
			"description": "Sin categoría válida",
			"category_id": 999.0,
		}

		result, err := s.GetTool("create_task").Handler(ctx, req)
		if err != nil {
			t.Fatalf("Handler failed: %v", err)
		}
		if !result.IsError {
			t.Error("Expected error for unknown category, got success")
		}
	})

	t.Run("list_tasks", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "list_tasks"
		req.Params.Arguments = map[string]interface{}{}

		result, err := s.GetTool("list_tasks").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Handler failed: %v, %v", err, result.Content)
		}

		var rows []models.TaskRow
		text := result.Content[0].(mcp.TextContent).Text
		if err := json.Unmarshal([]byte(text), &rows); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("Expected 1 task, got %d", len(rows))
		}
		if rows[0].CategoryName != "Trabajo" {
			t.Errorf("Expected category Trabajo, got %s", rows[0].CategoryName)
		}
	})

	t.Run("create_status_and_update_task", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "create_status"
		req.Params.Arguments = map[string]interface{}{
			"name": "Completada",
		}

		result, err := s.GetTool("create_status").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("create_status failed: %v, %v", err, result.Content)
		}

		statuses, _ := database.ListStatuses(ctx)
		if len(statuses) != 2 {
			t.Fatalf("Expected 2 statuses, got %d", len(statuses))
		}

		categories, _ := database.ListCategories(ctx)
		rows, _ := database.ListTasks(ctx)

		req = mcp.CallToolRequest{}
		req.Params.Name = "update_task"
		req.Params.Arguments = map[string]interface{}{
			"id":          float64(rows[0].ID),
			"title":       "Informe mensual",
			"description": "Entregado",
			"category_id": float64(categories[0].ID),
			"status_id":   float64(statuses[1].ID),
		}

		result, err = s.GetTool("update_task").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("update_task failed: %v, %v", err, result.Content)
		}

		rows, _ = database.ListTasks(ctx)
		if rows[0].StatusName != "Completada" {
			t.Errorf("Expected status Completada, got %s", rows[0].StatusName)
		}
		if rows[0].Description != "Entregado" {
			t.Errorf("Expected description Entregado, got %s", rows[0].Description)
		}
	})

	t.Run("update_task_unknown_id", func(t *testing.T) {
		categories, _ := database.ListCategories(ctx)
		statuses, _ := database.ListStatuses(ctx)

		req := mcp.CallToolRequest{}
		req.Params.Name = "update_task"
		req.Params.Arguments = map[string]interface{}{
			"id":          9999.0,
			"title":       "Fantasma",
			"description": "No existe",
			"category_id": float64(categories[0].ID),
			"status_id":   float64(statuses[0].ID),
		}

		result, err := s.GetTool("update_task").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Expected no-op for unknown id: %v, %v", err, result.Content)
		}

		rows, _ := database.ListTasks(ctx)
		if len(rows) != 1 {
			t.Errorf("Task list changed after no-op update: %d rows", len(rows))
		}
	})

	t.Run("list_statuses", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "list_statuses"
		req.Params.Arguments = map[string]interface{}{}

		result, err := s.GetTool("list_statuses").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Handler failed: %v, %v", err, result.Content)
		}

		text := result.Content[0].(mcp.TextContent).Text
		if !strings.Contains(text, "Pendiente") || !strings.Contains(text, "Completada") {
			t.Errorf("Status listing missing expected names: %s", text)
		}
	})

	t.Run("create_user_and_list", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "create_user"
		req.Params.Arguments = map[string]interface{}{
			"name": "Ana",
		}

		result, err := s.GetTool("create_user").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("create_user failed: %v, %v", err, result.Content)
		}

		req = mcp.CallToolRequest{}
		req.Params.Name = "list_users"
		req.Params.Arguments = map[string]interface{}{}

		result, err = s.GetTool("list_users").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("list_users failed: %v, %v", err, result.Content)
		}

		var users []models.User
		text := result.Content[0].(mcp.TextContent).Text
		if err := json.Unmarshal([]byte(text), &users); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		// Sentinel user plus Ana.
		if len(users) != 2 {
			t.Errorf("Expected 2 users, got %d", len(users))
		}
	})

	t.Run("delete_task", func(t *testing.T) {
		rows, _ := database.ListTasks(ctx)

		req := mcp.CallToolRequest{}
		req.Params.Name = "delete_task"
		req.Params.Arguments = map[string]interface{}{
			"id": float64(rows[0].ID),
		}

		result, err := s.GetTool("delete_task").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("delete_task failed: %v, %v", err, result.Content)
		}

		rows, _ = database.ListTasks(ctx)
		if len(rows) != 0 {
			t.Errorf("Expected 0 tasks after deletion, got %d", len(rows))
		}
	})

	t.Run("delete_task_unknown_id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "delete_task"
		req.Params.Arguments = map[string]interface{}{
			"id": 424242.0,
		}

		result, err := s.GetTool("delete_task").Handler(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("Expected no-op for unknown id: %v, %v", err, result.Content)
		}
	})
}
