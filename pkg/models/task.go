package models

// Task is a single task record. ID is 0 until the store assigns one on
// insert. Category and Status must reference existing rows; the store
// enforces that through foreign keys.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Status      Status   `json:"status"`

	// Assignee is carried in memory only; the Tareas table has no
	// assignee column, so it is never persisted.
	Assignee User `json:"assignee"`
}

// TaskRow is one row of the denormalized task listing: the joined view
// with human-readable category and status names used for display.
type TaskRow struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CategoryName string `json:"category_name"`
	StatusName   string `json:"status_name"`
}
