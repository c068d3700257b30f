package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tasktracker/internal/models"
	"tasktracker/pkg/logger"
)

const taskColumns = "id, title, completed, created_at, updated_at"

// Postgres implements TaskStore on a database/sql pool. Every operation
// is a single statement, so the store's own transaction isolation covers
// atomicity.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres task store on the given pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Create(ctx context.Context, title string) (*models.Task, error) {
	now := time.Now().UTC()
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, completed, created_at, updated_at) VALUES ($1, FALSE, $2, $2) RETURNING id`,
		title, now).Scan(&id)
	if err != nil {
		logger.Error(ctx, "Repository create failed", "error", err)
		return nil, err
	}
	return &models.Task{
		ID:        id,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Postgres) Get(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	err := p.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository get failed", "error", err, "id", id)
		return nil, err
	}
	return &t, nil
}

func (p *Postgres) List(ctx context.Context, filter Filter, offset, limit int) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := []interface{}{}
	switch filter {
	case FilterCompleted:
		query += ` WHERE completed = TRUE`
	case FilterPending:
		query += ` WHERE completed = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC OFFSET $1 LIMIT $2`
	args = append(args, offset, limit)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(ctx, "Repository list failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			logger.Error(ctx, "Repository scan task failed", "error", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (p *Postgres) Stats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE completed) FROM tasks`).
		Scan(&s.Total, &s.Completed)
	if err != nil {
		logger.Error(ctx, "Repository stats failed", "error", err)
		return nil, err
	}
	s.Pending = s.Total - s.Completed
	return &s, nil
}

func (p *Postgres) Update(ctx context.Context, id int64, title *string, completed *bool) (*models.Task, error) {
	var t models.Task
	err := p.db.QueryRowContext(ctx,
		`UPDATE tasks SET title = COALESCE($1, title), completed = COALESCE($2, completed), updated_at = $3
		 WHERE id = $4 RETURNING `+taskColumns,
		title, completed, time.Now().UTC(), id).
		Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository update failed", "error", err, "id", id)
		return nil, err
	}
	return &t, nil
}

func (p *Postgres) Complete(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	err := p.db.QueryRowContext(ctx,
		`UPDATE tasks SET completed = TRUE, updated_at = $1 WHERE id = $2 RETURNING `+taskColumns,
		time.Now().UTC(), id).
		Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository complete failed", "error", err, "id", id)
		return nil, err
	}
	return &t, nil
}

func (p *Postgres) Delete(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository delete failed", "error", err, "id", id)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
