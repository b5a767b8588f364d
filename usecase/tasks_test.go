package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/goliatone/go-task-repository/cache"
	"github.com/goliatone/go-task-repository/datasource/memory"
	"github.com/goliatone/go-task-repository/repositorycache"
	"github.com/goliatone/go-task-repository/task"
)

type mockRepository struct {
	mu    sync.Mutex
	calls []string
	tasks []task.Task
	err   error
}

func (m *mockRepository) recordCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
}

func (m *mockRepository) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockRepository) GetTasks(ctx context.Context, forceUpdate bool) ([]task.Task, error) {
	m.recordCall("GetTasks")
	return m.tasks, m.err
}

func (m *mockRepository) GetTask(ctx context.Context, id string, forceUpdate bool) (task.Task, error) {
	m.recordCall("GetTask")
	for _, t := range m.tasks {
		if t.ID == id {
			return t, m.err
		}
	}
	return task.Task{}, task.NotFound("mock", id)
}

func (m *mockRepository) SaveTask(ctx context.Context, t task.Task) error {
	m.recordCall("SaveTask")
	return m.err
}

func (m *mockRepository) CompleteTaskByID(ctx context.Context, id string) error {
	m.recordCall("CompleteTaskByID")
	return m.err
}

func (m *mockRepository) ActivateTaskByID(ctx context.Context, id string) error {
	m.recordCall("ActivateTaskByID")
	return m.err
}

func (m *mockRepository) DeleteTask(ctx context.Context, id string) error {
	m.recordCall("DeleteTask")
	return m.err
}

func (m *mockRepository) ClearCompletedTasks(ctx context.Context) error {
	m.recordCall("ClearCompletedTasks")
	return m.err
}

// deliveryScheduler counts jobs and records whether a job is running on it.
type deliveryScheduler struct {
	mu      sync.Mutex
	count   int
	running bool
}

func (d *deliveryScheduler) Schedule(job func()) {
	d.mu.Lock()
	d.count++
	d.running = true
	d.mu.Unlock()

	job()

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

func (d *deliveryScheduler) isRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func sampleTasks() []task.Task {
	return []task.Task{
		task.NewWithID("1", "one", ""),
		task.NewWithID("2", "two", "").Complete(),
		task.NewWithID("3", "three", ""),
	}
}

func TestGetTasks_Filters(t *testing.T) {
	repo := &mockRepository{tasks: sampleTasks()}
	uc := New(repo, nil, nil)

	tests := []struct {
		filter task.FilterType
		want   []string
	}{
		{filter: task.AllTasks, want: []string{"1", "2", "3"}},
		{filter: task.ActiveTasks, want: []string{"1", "3"}},
		{filter: task.CompletedTasks, want: []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			resp, err := uc.GetTasks.Run(context.Background(), GetTasksRequest{Filter: tt.filter})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			var got []string
			for _, tk := range resp.Tasks {
				got = append(got, tk.ID)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetStatistics(t *testing.T) {
	uc := New(&mockRepository{tasks: sampleTasks()}, nil, nil)

	resp, err := uc.GetStatistics.Run(context.Background(), GetStatisticsRequest{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if resp.Statistics.Active != 2 || resp.Statistics.Completed != 1 {
		t.Errorf("unexpected statistics %+v", resp.Statistics)
	}
}

func TestByIDCommands_Delegate(t *testing.T) {
	repo := &mockRepository{}
	uc := New(repo, nil, nil)
	ctx := context.Background()

	uc.CompleteTask.Run(ctx, TaskIDRequest{ID: "1"})
	uc.ActivateTask.Run(ctx, TaskIDRequest{ID: "1"})
	uc.DeleteTask.Run(ctx, TaskIDRequest{ID: "1"})
	uc.ClearCompletedTasks.Run(ctx, Empty{})

	want := []string{"CompleteTaskByID", "ActivateTaskByID", "DeleteTask", "ClearCompletedTasks"}
	if got := repo.getCalls(); !slices.Equal(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestRequests_RejectEmptyID(t *testing.T) {
	repo := &mockRepository{}
	uc := New(repo, nil, nil)
	ctx := context.Background()

	if _, err := uc.GetTask.Run(ctx, GetTaskRequest{}); !task.IsInvalidTask(err) {
		t.Errorf("GetTask: expected InvalidTask, got %v", err)
	}
	if _, err := uc.DeleteTask.Run(ctx, TaskIDRequest{}); !task.IsInvalidTask(err) {
		t.Errorf("DeleteTask: expected InvalidTask, got %v", err)
	}
	if calls := repo.getCalls(); len(calls) != 0 {
		t.Errorf("expected no repository calls, got %v", calls)
	}
}

func TestExecute_DeliversOnceOnDeliveryScheduler(t *testing.T) {
	repo := &mockRepository{tasks: sampleTasks()}
	background := &Goroutine{}
	delivery := &deliveryScheduler{}
	uc := New(repo, background, delivery)

	var mu sync.Mutex
	var successes, failures int
	done := make(chan struct{})

	uc.GetTask.Execute(context.Background(), GetTaskRequest{ID: "2"}, Callback[GetTaskResponse]{
		OnSuccess: func(resp GetTaskResponse) {
			mu.Lock()
			successes++
			mu.Unlock()
			if !delivery.isRunning() {
				t.Error("callback ran outside the delivery scheduler")
			}
			if resp.Task.ID != "2" {
				t.Errorf("unexpected task %+v", resp.Task)
			}
			close(done)
		},
		OnError: func(err error) {
			mu.Lock()
			failures++
			mu.Unlock()
		},
	})

	<-done
	background.Wait()

	mu.Lock()
	defer mu.Unlock()
	if successes != 1 || failures != 0 {
		t.Errorf("expected exactly one success, got %d successes and %d failures", successes, failures)
	}
	if delivery.count != 1 {
		t.Errorf("expected one delivery, got %d", delivery.count)
	}
}

func TestExecute_DeliversError(t *testing.T) {
	boom := errors.New("boom")
	uc := New(&mockRepository{err: boom}, Immediate{}, Immediate{})

	var got error
	calls := 0
	uc.ClearCompletedTasks.Execute(context.Background(), Empty{}, Callback[Empty]{
		OnSuccess: func(Empty) { calls++ },
		OnError: func(err error) {
			calls++
			got = err
		},
	})

	if calls != 1 || !errors.Is(got, boom) {
		t.Errorf("expected a single error delivery of %v, got %d calls with %v", boom, calls, got)
	}
}

func TestExecute_NilCallbacks(t *testing.T) {
	uc := New(&mockRepository{}, Immediate{}, Immediate{})
	uc.SaveTask.Execute(context.Background(), SaveTaskRequest{Task: task.New("x", "")}, Callback[SaveTaskResponse]{})
}

func TestUseCases_WithRepository(t *testing.T) {
	store, err := cache.NewStore[task.Task](cache.DefaultConfig())
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	repo := repositorycache.New(memory.New("local"), memory.New("remote"), store)
	defer repo.Close()

	pool := NewPool(2, 8)
	defer pool.Close()
	uc := New(repo, pool, Immediate{})
	ctx := context.Background()

	saved, err := uc.SaveTask.Run(ctx, SaveTaskRequest{Task: task.New("write tests", "")})
	if err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}
	if _, err := uc.CompleteTask.Run(ctx, TaskIDRequest{ID: saved.Task.ID}); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}

	result := make(chan GetStatisticsResponse, 1)
	uc.GetStatistics.Execute(ctx, GetStatisticsRequest{ForceUpdate: true}, Callback[GetStatisticsResponse]{
		OnSuccess: func(resp GetStatisticsResponse) { result <- resp },
		OnError: func(err error) {
			t.Errorf("GetStatistics failed: %v", err)
			result <- GetStatisticsResponse{}
		},
	})

	stats := <-result
	if stats.Statistics.Completed != 1 || stats.Statistics.Active != 0 {
		t.Errorf("unexpected statistics %+v", stats.Statistics)
	}
}
