package memory

import (
	"context"
	"testing"

	"github.com/goliatone/go-task-repository/task"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New("test")

	a := task.NewWithID("a", "first", "")
	b := task.NewWithID("b", "second", "")
	s.Add(a, b)

	all, err := s.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Errorf("FetchAll() = %+v, want insertion order a, b", all)
	}

	if err := s.MarkCompleted(ctx, a); err != nil {
		t.Fatalf("MarkCompleted() failed: %v", err)
	}
	got, err := s.FetchOne(ctx, "a")
	if err != nil || !got.Completed {
		t.Errorf("FetchOne(a) = %+v, %v; want completed", got, err)
	}

	if err := s.MarkActive(ctx, got); err != nil {
		t.Fatalf("MarkActive() failed: %v", err)
	}
	if got, _ := s.FetchOne(ctx, "a"); got.Completed {
		t.Error("expected a to be active again")
	}

	if err := s.DeleteOne(ctx, "a"); err != nil {
		t.Fatalf("DeleteOne() failed: %v", err)
	}
	if _, err := s.FetchOne(ctx, "a"); !task.IsNotFound(err) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
	if err := s.DeleteOne(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing task should be a no-op, got %v", err)
	}
}

func TestStore_ClearCompleted(t *testing.T) {
	ctx := context.Background()
	s := New("test")
	s.Add(
		task.NewWithID("1", "one", "").Complete(),
		task.NewWithID("2", "two", ""),
		task.NewWithID("3", "three", "").Complete(),
	)

	for i := 0; i < 2; i++ {
		if err := s.ClearCompleted(ctx); err != nil {
			t.Fatalf("ClearCompleted() failed: %v", err)
		}
		all, _ := s.FetchAll(ctx)
		if len(all) != 1 || all[0].ID != "2" {
			t.Errorf("pass %d: FetchAll() = %+v, want only task 2", i, all)
		}
	}
}

func TestStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	s := New("test")
	s.Add(task.NewWithID("1", "one", ""), task.NewWithID("2", "two", ""))

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", s.Len())
	}
}

func TestStore_Isolation(t *testing.T) {
	a := New("a")
	b := New("b")
	a.Add(task.NewWithID("1", "one", ""))

	if b.Len() != 0 {
		t.Error("stores must not share state")
	}
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New("x").FetchAll(ctx); err == nil {
		t.Error("expected cancelled context to fail FetchAll")
	}
}
