package models

import "time"

// Task is a single unit of work in the tracker.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Nil fields are left
// untouched; at least one must be set.
type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// Stats holds aggregate counts over the whole table.
type Stats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// TaskList is the body of GET /tasks: one filtered page plus the
// unfiltered aggregate counts.
type TaskList struct {
	Tasks     []Task `json:"tasks"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
	Pending   int64  `json:"pending"`
}
