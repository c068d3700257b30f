package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"tasktracker/internal/models"
)

// Memory is an in-memory TaskStore with the same contract as Postgres.
// Used by tests and local development without a database.
type Memory struct {
	mu     sync.RWMutex
	tasks  map[int64]models.Task
	nextID int64
}

// NewMemory creates an empty in-memory task store.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[int64]models.Task)}
}

// clock returns a timestamp guaranteed to be after prev; the wall clock
// may not advance between two calls at nanosecond granularity.
func clock(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (m *Memory) Create(_ context.Context, title string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	t := models.Task{
		ID:        m.nextID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks[t.ID] = t
	return &t, nil
}

func (m *Memory) Get(_ context.Context, id int64) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *Memory) List(_ context.Context, filter Filter, offset, limit int) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		switch filter {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterPending:
			if t.Completed {
				continue
			}
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	if offset >= len(tasks) {
		return []models.Task{}, nil
	}
	tasks = tasks[offset:]
	if limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (m *Memory) Stats(_ context.Context) (*models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := models.Stats{Total: int64(len(m.tasks))}
	for _, t := range m.tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return &s, nil
}

func (m *Memory) Update(_ context.Context, id int64, title *string, completed *bool) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if completed != nil {
		t.Completed = *completed
	}
	t.UpdatedAt = clock(t.UpdatedAt)
	m.tasks[id] = t
	return &t, nil
}

func (m *Memory) Complete(_ context.Context, id int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t.Completed = true
	t.UpdatedAt = clock(t.UpdatedAt)
	m.tasks[id] = t
	return &t, nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}
