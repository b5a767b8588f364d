package repositorycache

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-task-repository/datasource/memory"
	"github.com/goliatone/go-task-repository/task"
)

// recordingSource wraps a memory store, recording every call and failing
// the methods listed in failures.
type recordingSource struct {
	*memory.Store

	mu       sync.Mutex
	calls    []string
	failures map[string]error

	// fetchEntered/fetchGate pause FetchAll after the snapshot is taken.
	fetchEntered chan struct{}
	fetchGate    chan struct{}
	// fetchOneEntered/fetchOneGate pause FetchOne after the task is read.
	fetchOneEntered chan struct{}
	fetchOneGate    chan struct{}
	// deleteAllGate pauses DeleteAll before it runs.
	deleteAllGate chan struct{}
	// hang makes every call block until its context is done.
	hang bool
}

var _ task.DataSource = (*recordingSource)(nil)

func newRecordingSource(name string, tasks ...task.Task) *recordingSource {
	s := &recordingSource{
		Store:    memory.New(name),
		failures: make(map[string]error),
	}
	s.Store.Add(tasks...)
	return s
}

func (s *recordingSource) record(ctx context.Context, method string) error {
	s.mu.Lock()
	s.calls = append(s.calls, method)
	err := s.failures[method]
	hang := s.hang
	s.mu.Unlock()

	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (s *recordingSource) fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

func (s *recordingSource) getCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *recordingSource) count(method string) int {
	n := 0
	for _, c := range s.getCalls() {
		if c == method {
			n++
		}
	}
	return n
}

func (s *recordingSource) clearCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *recordingSource) FetchAll(ctx context.Context) ([]task.Task, error) {
	if err := s.record(ctx, "FetchAll"); err != nil {
		return nil, err
	}
	tasks, err := s.Store.FetchAll(ctx)
	if s.fetchGate != nil {
		s.fetchEntered <- struct{}{}
		<-s.fetchGate
	}
	return tasks, err
}

func (s *recordingSource) FetchOne(ctx context.Context, id string) (task.Task, error) {
	if err := s.record(ctx, "FetchOne"); err != nil {
		return task.Task{}, err
	}
	t, err := s.Store.FetchOne(ctx, id)
	if s.fetchOneGate != nil {
		s.fetchOneEntered <- struct{}{}
		<-s.fetchOneGate
	}
	return t, err
}

func (s *recordingSource) Save(ctx context.Context, t task.Task) error {
	if err := s.record(ctx, "Save"); err != nil {
		return err
	}
	return s.Store.Save(ctx, t)
}

func (s *recordingSource) MarkCompleted(ctx context.Context, t task.Task) error {
	if err := s.record(ctx, "MarkCompleted"); err != nil {
		return err
	}
	return s.Store.MarkCompleted(ctx, t)
}

func (s *recordingSource) MarkActive(ctx context.Context, t task.Task) error {
	if err := s.record(ctx, "MarkActive"); err != nil {
		return err
	}
	return s.Store.MarkActive(ctx, t)
}

func (s *recordingSource) DeleteOne(ctx context.Context, id string) error {
	if err := s.record(ctx, "DeleteOne"); err != nil {
		return err
	}
	return s.Store.DeleteOne(ctx, id)
}

func (s *recordingSource) DeleteAll(ctx context.Context) error {
	if err := s.record(ctx, "DeleteAll"); err != nil {
		return err
	}
	if s.deleteAllGate != nil {
		<-s.deleteAllGate
	}
	return s.Store.DeleteAll(ctx)
}

func (s *recordingSource) ClearCompleted(ctx context.Context) error {
	if err := s.record(ctx, "ClearCompleted"); err != nil {
		return err
	}
	return s.Store.ClearCompleted(ctx)
}

// mapStore is a cache.Store whose entries can be evicted by tests.
type mapStore struct {
	mu      sync.Mutex
	entries map[string]task.Task
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]task.Task)}
}

func (m *mapStore) Get(key string) (task.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.entries[key]
	return t, ok
}

func (m *mapStore) Set(key string, value task.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *mapStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *mapStore) DeleteByPrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

func (m *mapStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	return keys
}

func (m *mapStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// evict drops the entry for the task with the given id.
func (m *mapStore) evict(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasSuffix(k, "::"+id) {
			delete(m.entries, k)
			return true
		}
	}
	return false
}
