package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/pkg/models"
)

// NewServer creates an MCP server exposing the CRUD surface of the store.
// Tools mutate directly; there is no staging layer.
func NewServer(database *db.DB) *server.MCPServer {
	s := server.NewMCPServer("Tareas", "0.1.0")

	// Task management
	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List all tasks with their category and status names."),
	), listTasksHandler(database))

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a task. New tasks start in the 'Pendiente' status."),
		mcp.WithString("title", mcp.Description("Task title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Task description"), mcp.Required()),
		mcp.WithNumber("category_id", mcp.Description("Category id (must exist)"), mcp.Required()),
	), createTaskHandler(database))

	s.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update a task by id. Updating an unknown id is a no-op."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("New description"), mcp.Required()),
		mcp.WithNumber("category_id", mcp.Description("New category id"), mcp.Required()),
		mcp.WithNumber("status_id", mcp.Description("New status id"), mcp.Required()),
	), updateTaskHandler(database))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task by id. Deleting an unknown id is a no-op."),
		mcp.WithNumber("id", mcp.Description("Task id"), mcp.Required()),
	), deleteTaskHandler(database))

	// Catalog management
	s.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all categories."),
	), listCategoriesHandler(database))

	s.AddTool(mcp.NewTool("create_category",
		mcp.WithDescription("Create a category."),
		mcp.WithString("name", mcp.Description("Category name"), mcp.Required()),
	), createCategoryHandler(database))

	s.AddTool(mcp.NewTool("list_statuses",
		mcp.WithDescription("List all statuses."),
	), listStatusesHandler(database))

	s.AddTool(mcp.NewTool("create_status",
		mcp.WithDescription("Create a status."),
		mcp.WithString("name", mcp.Description("Status name"), mcp.Required()),
	), createStatusHandler(database))

	s.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List all users."),
	), listUsersHandler(database))

	s.AddTool(mcp.NewTool("create_user",
		mcp.WithDescription("Create a user (display name only, no credentials)."),
		mcp.WithString("name", mcp.Description("User name"), mcp.Required()),
	), createUserHandler(database))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func listTasksHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rows, err := database.ListTasks(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task := &models.Task{
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			Category:    models.Category{ID: int64(mcp.ParseInt(request, "category_id", 0))},
			Status:      models.StatusPending,
			Assignee:    models.UserUnassigned,
		}

		if err := database.CreateTask(ctx, task); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Task created with id %d", task.ID)), nil
	}
}

func updateTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))
		title := mcp.ParseString(request, "title", "")
		description := mcp.ParseString(request, "description", "")
		categoryID := int64(mcp.ParseInt(request, "category_id", 0))
		statusID := int64(mcp.ParseInt(request, "status_id", 0))

		if err := database.UpdateTask(ctx, id, title, description, categoryID, statusID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Task updated successfully"), nil
	}
}

func deleteTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "id", 0))

		if err := database.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Task deleted successfully"), nil
	}
}

func listCategoriesHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := database.ListCategories(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createCategoryHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := &models.Category{Name: mcp.ParseString(request, "name", "")}

		if err := database.CreateCategory(ctx, c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Category created with id %d", c.ID)), nil
	}
}

func listStatusesHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		statuses, err := database.ListStatuses(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createStatusHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s := &models.Status{Name: mcp.ParseString(request, "name", "")}

		if err := database.CreateStatus(ctx, s); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Status created with id %d", s.ID)), nil
	}
}

func listUsersHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		users, err := database.ListUsers(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func createUserHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		u := &models.User{Name: mcp.ParseString(request, "name", "")}

		if err := database.CreateUser(ctx, u); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("User created with id %d", u.ID)), nil
	}
}
