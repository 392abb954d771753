package db

import (
	"context"
	"fmt"
)

// Authenticate reports whether a credential row exists for the given
// username and password. It never inspects more than the row count.
func (db *DB) Authenticate(ctx context.Context, username, password string) (bool, error) {
	query := `SELECT COUNT(*) FROM Usuarios WHERE nombreUsuario = ? AND contrasena = ?`

	var count int
	err := db.QueryRowContext(ctx, query, username, password).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check credentials: %w", err)
	}

	return count > 0, nil
}

// CreateCredential inserts a full user row with login credentials. Used by
// the init command to provision the first account.
func (db *DB) CreateCredential(ctx context.Context, username, password, name string) (int64, error) {
	query := `INSERT INTO Usuarios (nombreUsuario, contrasena, nombre) VALUES (?, ?, ?) RETURNING id`

	var id int64
	err := db.QueryRowContext(ctx, query, username, password, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create credential: %w", classify(err))
	}

	return id, nil
}
