package db

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Snapshot records are JSONL lines tagged with record_type so a snapshot
// file can be read line by line without knowing its contents up front.

type snapshotRecord struct {
	RecordType string `json:"record_type"`
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`

	// tarea fields
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	StatusName   string `json:"status_name,omitempty"`
}

// Export writes every category, status, user, and task as one JSON line
// each. Tasks reference their category and status by name, so a snapshot
// can be imported into a database with different row ids.
func (db *DB) Export(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)

	categories, err := db.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		rec := snapshotRecord{RecordType: "categoria", ID: c.ID, Name: c.Name}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write category record: %w", err)
		}
	}

	statuses, err := db.ListStatuses(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		rec := snapshotRecord{RecordType: "estado", ID: s.ID, Name: s.Name}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write status record: %w", err)
		}
	}

	users, err := db.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		rec := snapshotRecord{RecordType: "usuario", ID: u.ID, Name: u.Name}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write user record: %w", err)
		}
	}

	tasks, err := db.ListTasks(ctx)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		rec := snapshotRecord{
			RecordType:   "tarea",
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			CategoryName: t.CategoryName,
			StatusName:   t.StatusName,
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write task record: %w", err)
		}
	}

	return nil
}

// ExportSnapshot writes a snapshot to the given path atomically using a
// temporary file.
func (db *DB) ExportSnapshot(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "snapshot-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	if err := db.Export(ctx, tempFile); err != nil {
		return err
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Import reads a JSONL snapshot and populates the database inside one
// transaction. Catalog rows are matched by name; missing ones are created,
// and task references are remapped to the local ids.
func (db *DB) Import(ctx context.Context, r io.Reader) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	categoryIDs := make(map[string]int64)
	statusIDs := make(map[string]int64)
	userIDs := make(map[string]int64)

	loadNames := func(query string, dst map[string]int64) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to load existing rows: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				return err
			}
			dst[name] = id
		}
		return rows.Err()
	}

	if err := loadNames("SELECT id, nombre FROM Categorias", categoryIDs); err != nil {
		return err
	}
	if err := loadNames("SELECT id, nombre FROM Estados", statusIDs); err != nil {
		return err
	}
	if err := loadNames("SELECT id, nombre FROM Usuarios", userIDs); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec snapshotRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot record: %w", err)
		}

		switch rec.RecordType {
		case "categoria":
			if _, exists := categoryIDs[rec.Name]; exists {
				continue
			}
			var id int64
			err := tx.QueryRowContext(ctx,
				"INSERT INTO Categorias (nombre) VALUES (?) RETURNING id", rec.Name,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to import category %s: %w", rec.Name, err)
			}
			categoryIDs[rec.Name] = id

		case "estado":
			if _, exists := statusIDs[rec.Name]; exists {
				continue
			}
			var id int64
			err := tx.QueryRowContext(ctx,
				"INSERT INTO Estados (nombre) VALUES (?) RETURNING id", rec.Name,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to import status %s: %w", rec.Name, err)
			}
			statusIDs[rec.Name] = id

		case "usuario":
			if _, exists := userIDs[rec.Name]; exists {
				continue
			}
			var id int64
			err := tx.QueryRowContext(ctx,
				"INSERT INTO Usuarios (nombre) VALUES (?) RETURNING id", rec.Name,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("failed to import user %s: %w", rec.Name, err)
			}
			userIDs[rec.Name] = id

		case "tarea":
			categoryID, ok := categoryIDs[rec.CategoryName]
			if !ok {
				return fmt.Errorf("category not found for task %q: %s", rec.Title, rec.CategoryName)
			}
			statusID, ok := statusIDs[rec.StatusName]
			if !ok {
				return fmt.Errorf("status not found for task %q: %s", rec.Title, rec.StatusName)
			}

			_, err := tx.ExecContext(ctx, `
				INSERT INTO Tareas (titulo, descripcion, categoriaId, estadoId)
				VALUES (?, ?, ?, ?)`,
				rec.Title, rec.Description, categoryID, statusID)
			if err != nil {
				return fmt.Errorf("failed to import task %q: %w", rec.Title, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return tx.Commit()
}
