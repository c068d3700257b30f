package repository

import (
	"context"
	"errors"

	"tasktracker/internal/models"
)

// ErrNotFound is returned when the referenced task does not exist.
var ErrNotFound = errors.New("task not found")

// Filter selects which tasks List returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// TaskStore is the set of atomic operations against the task store.
// Implementations execute each operation as a single transaction; the
// handle is constructor-injected, never ambient.
type TaskStore interface {
	// Create inserts a new task with completed=false and both timestamps
	// set to the same instant. The title must already be validated.
	Create(ctx context.Context, title string) (*models.Task, error)

	// Get returns the task or ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Task, error)

	// List returns one page of tasks matching the filter, ordered by
	// created_at descending with id descending as tiebreak.
	List(ctx context.Context, filter Filter, offset, limit int) ([]models.Task, error)

	// Stats returns aggregate counts over the unfiltered set.
	Stats(ctx context.Context) (*models.Stats, error)

	// Update applies the non-nil fields and refreshes updated_at.
	// Returns ErrNotFound if the id is absent.
	Update(ctx context.Context, id int64, title *string, completed *bool) (*models.Task, error)

	// Complete sets completed=true and refreshes updated_at, re-applying
	// even when the task is already completed. Returns ErrNotFound if absent.
	Complete(ctx context.Context, id int64) (*models.Task, error)

	// Delete removes the row for good. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// Ping reports store connectivity.
	Ping(ctx context.Context) error
}
