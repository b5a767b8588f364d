// Package memory provides an in-memory task.DataSource.
//
// Each Store holds its own state; nothing is shared between instances, which
// keeps tests that construct one per case hermetic.
package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-task-repository/task"
)

// Store is a mutex guarded, insertion ordered task map.
type Store struct {
	name  string
	mu    sync.RWMutex
	order []string
	tasks map[string]task.Task
}

var _ task.DataSource = (*Store)(nil)

// New creates an empty store. name is reported in NotFound errors.
func New(name string) *Store {
	return &Store{
		name:  name,
		tasks: make(map[string]task.Task),
	}
}

// Add seeds the store with tasks, replacing entries that share an ID.
func (s *Store) Add(tasks ...task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.putLocked(t)
	}
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) FetchAll(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *Store) FetchOne(ctx context.Context, id string) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return task.Task{}, task.NotFound(s.name, id)
	}
	return t, nil
}

func (s *Store) Save(ctx context.Context, t task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(t)
	return nil
}

func (s *Store) MarkCompleted(ctx context.Context, t task.Task) error {
	return s.Save(ctx, t.Complete())
}

func (s *Store) MarkActive(ctx context.Context, t task.Task) error {
	return s.Save(ctx, t.Activate())
}

func (s *Store) DeleteOne(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.tasks = make(map[string]task.Task)
	return nil
}

func (s *Store) ClearCompleted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		if s.tasks[id].Completed {
			delete(s.tasks, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

func (s *Store) putLocked(t task.Task) {
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = t
}

func (s *Store) deleteLocked(id string) {
	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
