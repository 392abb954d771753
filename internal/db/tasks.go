package db

import (
	"context"
	"fmt"

	"github.com/tareas-app/tareas/pkg/models"
)

// CreateTask inserts a new task and fills t.ID with the store-assigned id.
// A category or status id that references no existing row fails with
// ErrConstraint.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	query := `
		INSERT INTO Tareas (titulo, descripcion, categoriaId, estadoId)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`
	err := db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Category.ID, t.Status.ID,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", classify(err))
	}

	return nil
}

// ListTasks returns the full denormalized task listing.
func (db *DB) ListTasks(ctx context.Context) ([]models.TaskRow, error) {
	query := `
		SELECT t.id, t.titulo, t.descripcion,
		       c.nombre AS categoria, e.nombre AS estado
		FROM Tareas t
		INNER JOIN Categorias c ON t.categoriaId = c.id
		INNER JOIN Estados e ON t.estadoId = e.id
		ORDER BY t.id ASC
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var listing []models.TaskRow
	for rows.Next() {
		var r models.TaskRow
		err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.CategoryName, &r.StatusName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		listing = append(listing, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return listing, nil
}

// UpdateTask performs a full-row update by id. Updating an id that does not
// exist affects zero rows and is not an error.
func (db *DB) UpdateTask(ctx context.Context, id int64, title, description string, categoryID, statusID int64) error {
	query := `
		UPDATE Tareas
		SET titulo = ?, descripcion = ?, categoriaId = ?, estadoId = ?
		WHERE id = ?
	`
	_, err := db.ExecContext(ctx, query, title, description, categoryID, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", classify(err))
	}

	return nil
}

// DeleteTask deletes a task by id. Deleting an id that does not exist is a
// no-op, not an error.
func (db *DB) DeleteTask(ctx context.Context, id int64) error {
	query := `DELETE FROM Tareas WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
