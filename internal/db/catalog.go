package db

import (
	"context"
	"fmt"

	"github.com/tareas-app/tareas/pkg/models"
)

// The catalog tables (Categorias, Estados, Usuarios) share one lifecycle:
// rows are inserted by name and never updated or deleted.

func (db *DB) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO Categorias (nombre) VALUES (?) RETURNING id`
	if err := db.QueryRowContext(ctx, query, c.Name).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to create category: %w", classify(err))
	}
	return nil
}

func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `SELECT id, nombre FROM Categorias ORDER BY id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

func (db *DB) CreateStatus(ctx context.Context, s *models.Status) error {
	query := `INSERT INTO Estados (nombre) VALUES (?) RETURNING id`
	if err := db.QueryRowContext(ctx, query, s.Name).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to create status: %w", classify(err))
	}
	return nil
}

func (db *DB) ListStatuses(ctx context.Context) ([]models.Status, error) {
	query := `SELECT id, nombre FROM Estados ORDER BY id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.Status
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return statuses, nil
}

func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO Usuarios (nombre) VALUES (?) RETURNING id`
	if err := db.QueryRowContext(ctx, query, u.Name).Scan(&u.ID); err != nil {
		return fmt.Errorf("failed to create user: %w", classify(err))
	}
	return nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, nombre FROM Usuarios ORDER BY id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}
