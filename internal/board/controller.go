package board

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tareas-app/tareas/internal/db"
	"github.com/tareas-app/tareas/pkg/models"
)

// Validation errors, detected before any store call.
var (
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCategoryRequired    = errors.New("no category selected")
	ErrNoSelection         = errors.New("no task selected")
	ErrRowNotFound         = errors.New("row not found")

	// ErrNoCategories is a warning: the board stays usable, but no
	// create can succeed until a category exists.
	ErrNoCategories = errors.New("no categories in the store")
)

// Controller holds the task screen state and reconciles the displayed
// listing with the store. The displayed rows are only a cache for
// pre-filling inputs; the write authority for edits is the selected id.
type Controller struct {
	db  *db.DB
	log *logrus.Entry

	categories []models.Category
	statuses   []models.Status
	rows       []models.TaskRow

	selected      int64 // 0 = create mode
	pendingDelete int64
}

func New(database *db.DB, log *logrus.Entry) *Controller {
	return &Controller{db: database, log: log}
}

// Initialize loads the category and status choices and the full listing,
// and resets to create mode. It returns ErrNoCategories as a warning when
// the category selector has nothing to offer.
func (c *Controller) Initialize(ctx context.Context) error {
	categories, err := c.db.ListCategories(ctx)
	if err != nil {
		return err
	}
	statuses, err := c.db.ListStatuses(ctx)
	if err != nil {
		return err
	}

	c.categories = categories
	c.statuses = statuses

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.Reset()

	if len(c.categories) == 0 {
		c.log.Warn("no categories found in the store")
		return ErrNoCategories
	}
	return nil
}

// Refresh re-fetches the listing and replaces the displayed rows entirely.
func (c *Controller) Refresh(ctx context.Context) error {
	rows, err := c.db.ListTasks(ctx)
	if err != nil {
		return err
	}
	c.rows = rows
	return nil
}

func (c *Controller) Categories() []models.Category { return c.categories }
func (c *Controller) Statuses() []models.Status     { return c.statuses }
func (c *Controller) Rows() []models.TaskRow        { return c.rows }
func (c *Controller) SelectedID() int64             { return c.selected }
func (c *Controller) PendingDelete() int64          { return c.pendingDelete }

func (c *Controller) EditMode() bool {
	return c.selected != 0
}

// Reset returns the board to create mode.
func (c *Controller) Reset() {
	c.selected = 0
	c.pendingDelete = 0
}

// SubmitCreate validates the inputs, inserts a task with the pending
// status and the unassigned sentinel, and appends the new row to the
// listing. No store call happens when validation fails.
func (c *Controller) SubmitCreate(ctx context.Context, title, description string, category models.Category) (models.TaskRow, error) {
	if strings.TrimSpace(title) == "" {
		return models.TaskRow{}, ErrTitleRequired
	}
	if strings.TrimSpace(description) == "" {
		return models.TaskRow{}, ErrDescriptionRequired
	}
	if category.ID == 0 {
		return models.TaskRow{}, ErrCategoryRequired
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Category:    category,
		Status:      models.StatusPending,
		Assignee:    models.UserUnassigned,
	}
	if err := c.db.CreateTask(ctx, task); err != nil {
		return models.TaskRow{}, err
	}

	row := models.TaskRow{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		CategoryName: category.Name,
		StatusName:   task.Status.Name,
	}
	c.rows = append(c.rows, row)
	c.Reset()

	c.log.WithField("task_id", task.ID).Info("task created")
	return row, nil
}

// SelectForEdit flips to edit mode and returns the displayed row so the
// inputs can be pre-filled. The row values may be stale relative to
// concurrent external changes; no fresh fetch happens here.
func (c *Controller) SelectForEdit(rowID int64) (models.TaskRow, error) {
	for _, row := range c.rows {
		if row.ID == rowID {
			c.selected = rowID
			return row, nil
		}
	}
	return models.TaskRow{}, ErrRowNotFound
}

// SubmitUpdate writes the edited fields to the selected task, refreshes
// the listing, and returns to create mode.
func (c *Controller) SubmitUpdate(ctx context.Context, title, description string, categoryID, statusID int64) error {
	if !c.EditMode() {
		return ErrNoSelection
	}

	if err := c.db.UpdateTask(ctx, c.selected, title, description, categoryID, statusID); err != nil {
		return err
	}

	c.log.WithField("task_id", c.selected).Info("task updated")

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.Reset()
	return nil
}

// RequestDelete marks a row for deletion pending explicit confirmation.
func (c *Controller) RequestDelete(rowID int64) {
	c.pendingDelete = rowID
}

// CancelDelete aborts a pending deletion without touching the store.
func (c *Controller) CancelDelete() {
	c.pendingDelete = 0
}

// ConfirmDelete deletes the pending row and refreshes the listing.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	if c.pendingDelete == 0 {
		return ErrNoSelection
	}

	id := c.pendingDelete
	if err := c.db.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.pendingDelete = 0

	c.log.WithField("task_id", id).Info("task deleted")
	return c.Refresh(ctx)
}
