package repository

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	created, err := store.Create(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("id=%d, want > 0", created.ID)
	}
	if created.Completed {
		t.Fatal("new task must not be completed")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("created_at=%v updated_at=%v, want equal", created.CreatedAt, created.UpdatedAt)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if got.Title != "Buy milk" {
		t.Fatalf("title=%q, want Buy milk", got.Title)
	}

	if _, err := store.Get(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(999) err=%v, want ErrNotFound", err)
	}
}

func TestMemory_List_OrderAndPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, title := range []string{"A", "B", "C"} {
		if _, err := store.Create(ctx, title); err != nil {
			t.Fatalf("Create(%q) err=%v", title, err)
		}
	}

	tasks, err := store.List(ctx, FilterAll, 0, 100)
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len=%d, want 3", len(tasks))
	}
	// newest first
	if tasks[0].Title != "C" || tasks[2].Title != "A" {
		t.Fatalf("order=[%s %s %s], want [C B A]", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}

	page, err := store.List(ctx, FilterAll, 1, 1)
	if err != nil {
		t.Fatalf("List(offset=1,limit=1) err=%v", err)
	}
	if len(page) != 1 || page[0].Title != "B" {
		t.Fatalf("page=%v, want [B]", page)
	}

	empty, err := store.List(ctx, FilterAll, 10, 5)
	if err != nil {
		t.Fatalf("List(offset beyond) err=%v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("empty=%v, want empty non-nil slice", empty)
	}
}

func TestMemory_List_Filters(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, _ = store.Create(ctx, "A")
	b, _ := store.Create(ctx, "B")
	_, _ = store.Create(ctx, "C")

	if _, err := store.Complete(ctx, b.ID); err != nil {
		t.Fatalf("Complete() err=%v", err)
	}

	completed, err := store.List(ctx, FilterCompleted, 0, 100)
	if err != nil {
		t.Fatalf("List(completed) err=%v", err)
	}
	if len(completed) != 1 || completed[0].ID != b.ID {
		t.Fatalf("completed=%v, want exactly [B]", completed)
	}

	pending, err := store.List(ctx, FilterPending, 0, 100)
	if err != nil {
		t.Fatalf("List(pending) err=%v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending len=%d, want 2", len(pending))
	}
	for _, task := range pending {
		if task.ID == b.ID {
			t.Fatal("completed task leaked into pending filter")
		}
	}
}

func TestMemory_Stats(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	s, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() err=%v", err)
	}
	if s.Total != 0 || s.Completed != 0 || s.Pending != 0 {
		t.Fatalf("empty stats=%+v, want zeros", s)
	}

	for _, title := range []string{"A", "B", "C"} {
		_, _ = store.Create(ctx, title)
	}
	_, _ = store.Complete(ctx, 2)

	s, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() err=%v", err)
	}
	if s.Total != 3 || s.Completed != 1 || s.Pending != 2 {
		t.Fatalf("stats=%+v, want {3 1 2}", s)
	}
	if s.Total != s.Completed+s.Pending {
		t.Fatalf("total=%d completed=%d pending=%d, want total == completed + pending", s.Total, s.Completed, s.Pending)
	}
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	created, _ := store.Create(ctx, "Original")

	t.Run("title only", func(t *testing.T) {
		title := "Renamed"
		updated, err := store.Update(ctx, created.ID, &title, nil)
		if err != nil {
			t.Fatalf("Update() err=%v", err)
		}
		if updated.Title != "Renamed" {
			t.Fatalf("title=%q, want Renamed", updated.Title)
		}
		if updated.Completed {
			t.Fatal("completed changed without being included")
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Fatalf("updated_at=%v, want after %v", updated.UpdatedAt, created.UpdatedAt)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatal("created_at must never change")
		}
	})

	t.Run("completed only", func(t *testing.T) {
		done := true
		updated, err := store.Update(ctx, created.ID, nil, &done)
		if err != nil {
			t.Fatalf("Update() err=%v", err)
		}
		if !updated.Completed {
			t.Fatal("completed=false, want true")
		}
		if updated.Title != "Renamed" {
			t.Fatalf("title=%q, want Renamed untouched", updated.Title)
		}
	})

	t.Run("not found", func(t *testing.T) {
		title := "x"
		if _, err := store.Update(ctx, 999, &title, nil); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err=%v, want ErrNotFound", err)
		}
	})
}

func TestMemory_Complete_Reapplies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	created, _ := store.Create(ctx, "A")

	first, err := store.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if !first.Completed {
		t.Fatal("completed=false after Complete")
	}
	if !first.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("updated_at did not advance: %v vs %v", first.UpdatedAt, created.UpdatedAt)
	}

	second, err := store.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Complete() err=%v", err)
	}
	if !second.Completed {
		t.Fatal("completed=false after second Complete")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("updated_at did not advance on re-apply: %v vs %v", second.UpdatedAt, first.UpdatedAt)
	}

	if _, err := store.Complete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Complete(999) err=%v, want ErrNotFound", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	created, _ := store.Create(ctx, "A")

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() err=%v", err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err=%v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}
}
