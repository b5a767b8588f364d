package repositorycache

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-task-repository/cache"
	"github.com/goliatone/go-task-repository/task"
)

const (
	sourceLocal  = "local"
	sourceRemote = "remote"
)

// State describes the repository wide cache state.
type State int

const (
	// StateEmpty means no full listing has been fetched yet.
	StateEmpty State = iota
	// StateValid means the cache can answer listings without I/O.
	StateValid
	// StateDirty means the cache must be refreshed before it is trusted.
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateDirty:
		return "dirty"
	default:
		return "empty"
	}
}

// TasksRepository presents a single view of the tasks held by a local and a
// remote data source, fronted by an in-memory cache.
//
// Reads are served from the cache while it is valid. Full listings come from
// the remote source ("remote wins") and are mirrored into the local source in
// the background. Writes go to both sources before the cache is updated.
type TasksRepository struct {
	local  task.DataSource
	remote task.DataSource
	store  cache.Store[task.Task]
	keys   cache.KeySerializer

	logger       *slog.Logger
	storeTimeout time.Duration

	// mu guards every field below. It is never held across store I/O and
	// never acquired before localMu is released.
	mu        sync.Mutex
	index     *idIndex
	loaded    bool
	dirty     bool
	gen       uint64
	pending   int
	mirrorSeq uint64

	// localMu is held exclusively while the local source is overwritten with
	// remote data; local reads and writes hold it shared so they never
	// observe a half mirrored store. Lock order is localMu, then mu.
	localMu sync.RWMutex
}

// Option configures a TasksRepository.
type Option func(*TasksRepository)

// WithLogger sets the structured logger used for fallback and mirror events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *TasksRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStoreTimeout bounds every individual data source call. Zero disables the bound.
func WithStoreTimeout(d time.Duration) Option {
	return func(r *TasksRepository) {
		r.storeTimeout = d
	}
}

// WithKeySerializer sets the serializer used to build cache keys.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(r *TasksRepository) {
		if keys != nil {
			r.keys = keys
		}
	}
}

// New creates a TasksRepository over the given sources and cache store.
func New(local, remote task.DataSource, store cache.Store[task.Task], opts ...Option) *TasksRepository {
	r := &TasksRepository{
		local:  local,
		remote: remote,
		store:  store,
		keys:   cache.NewNamespacedKeySerializer("tasks"),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:  newIDIndex(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetTasks returns every task.
//
// When forceUpdate is false and the cache is valid and non-empty, the cached
// tasks are returned without touching either source. Otherwise the remote
// source is consulted; on success it replaces the cache and is mirrored into
// the local source asynchronously. If the remote source fails, the local
// source is returned instead and the cache stays dirty.
func (r *TasksRepository) GetTasks(ctx context.Context, forceUpdate bool) ([]task.Task, error) {
	r.mu.Lock()
	if forceUpdate {
		r.dirty = true
	} else if tasks, ok := r.cachedTasksLocked(); ok {
		r.mu.Unlock()
		return tasks, nil
	}
	gen := r.gen
	r.mu.Unlock()

	var tasks []task.Task
	err := r.call(ctx, sourceRemote, func(ctx context.Context) error {
		var err error
		tasks, err = r.remote.FetchAll(ctx)
		return err
	})
	if err != nil {
		r.logWarn("remote fetch failed, falling back to local", err)
		r.markDirty()
		return r.fetchLocalTasks(ctx)
	}

	r.mu.Lock()
	if !r.unchangedSinceLocked(gen) {
		// A write overlapped the fetch; the snapshot may not include it.
		r.dirty = true
		r.mu.Unlock()
		return tasks, nil
	}
	r.replaceLocked(tasks)
	r.mirrorSeq++
	seq := r.mirrorSeq
	r.mu.Unlock()

	// A newer listing or a write that started meanwhile supersedes this mirror.
	r.localMu.Lock()
	if !r.mirrorCurrent(seq, gen) {
		r.localMu.Unlock()
		r.logger.Debug("local mirror superseded", slog.Int("tasks", len(tasks)))
	} else {
		go r.mirrorToLocal(context.WithoutCancel(ctx), tasks)
	}

	return append([]task.Task(nil), tasks...), nil
}

// GetTask returns the task with the given ID.
//
// A cached entry is returned unless forceUpdate is set or the cache is dirty.
// Otherwise the local source is tried first, then the remote source; a task
// found remotely is cached and copied into the local source.
func (r *TasksRepository) GetTask(ctx context.Context, id string, forceUpdate bool) (task.Task, error) {
	r.mu.Lock()
	if !forceUpdate && !r.dirty {
		if t, ok := r.cachedTaskLocked(id); ok {
			r.mu.Unlock()
			return t, nil
		}
	}
	gen := r.gen
	r.mu.Unlock()

	var t task.Task
	r.localMu.RLock()
	localErr := r.call(ctx, sourceLocal, func(ctx context.Context) error {
		var err error
		t, err = r.local.FetchOne(ctx, id)
		return err
	})
	r.localMu.RUnlock()
	if localErr == nil {
		return t, nil
	}

	remoteErr := r.call(ctx, sourceRemote, func(ctx context.Context) error {
		var err error
		t, err = r.remote.FetchOne(ctx, id)
		return err
	})
	if remoteErr != nil {
		if !task.IsNotFound(remoteErr) && task.IsNotFound(localErr) {
			r.logWarn("remote lookup failed", remoteErr, slog.String("task_id", id))
			return task.Task{}, localErr
		}
		return task.Task{}, remoteErr
	}

	r.mu.Lock()
	if r.unchangedSinceLocked(gen) {
		r.upsertLocked(t)
	}
	r.mu.Unlock()

	// Held exclusively so a write that starts after the check lands in the
	// local source after this copy.
	r.localMu.Lock()
	r.mu.Lock()
	current := r.unchangedSinceLocked(gen)
	r.mu.Unlock()
	if current {
		err := r.call(context.WithoutCancel(ctx), sourceLocal, func(ctx context.Context) error {
			return r.local.Save(ctx, t)
		})
		if err != nil {
			r.logError("mirroring remote task into local failed", err, slog.String("task_id", id))
		}
	}
	r.localMu.Unlock()

	return t, nil
}

// SaveTask writes t to both sources and then into the cache.
// Empty tasks are rejected with an InvalidTask error before any I/O.
func (r *TasksRepository) SaveTask(ctx context.Context, t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.Save(ctx, t)
	}, func() {
		r.upsertLocked(t)
	})
}

// CompleteTask marks t completed in both sources and in the cache.
func (r *TasksRepository) CompleteTask(ctx context.Context, t task.Task) error {
	done := t.Complete()
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.MarkCompleted(ctx, done)
	}, func() {
		r.upsertLocked(done)
	})
}

// CompleteTaskByID resolves id through GetTask and completes it.
func (r *TasksRepository) CompleteTaskByID(ctx context.Context, id string) error {
	t, err := r.GetTask(ctx, id, false)
	if err != nil {
		return err
	}
	return r.CompleteTask(ctx, t)
}

// ActivateTask marks t active in both sources and in the cache.
func (r *TasksRepository) ActivateTask(ctx context.Context, t task.Task) error {
	active := t.Activate()
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.MarkActive(ctx, active)
	}, func() {
		r.upsertLocked(active)
	})
}

// ActivateTaskByID resolves id through GetTask and activates it.
func (r *TasksRepository) ActivateTaskByID(ctx context.Context, id string) error {
	t, err := r.GetTask(ctx, id, false)
	if err != nil {
		return err
	}
	return r.ActivateTask(ctx, t)
}

// ClearCompletedTasks removes completed tasks from both sources and the cache.
func (r *TasksRepository) ClearCompletedTasks(ctx context.Context) error {
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.ClearCompleted(ctx)
	}, func() {
		for _, id := range r.index.ids() {
			t, ok := r.store.Get(r.key(id))
			if !ok {
				r.dirty = true
				continue
			}
			if t.Completed {
				r.removeLocked(id)
			}
		}
	})
}

// DeleteTask removes the task from both sources and the cache.
func (r *TasksRepository) DeleteTask(ctx context.Context, id string) error {
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.DeleteOne(ctx, id)
	}, func() {
		r.removeLocked(id)
	})
}

// DeleteAllTasks removes every task from both sources and clears the cache.
func (r *TasksRepository) DeleteAllTasks(ctx context.Context) error {
	return r.writeThrough(ctx, func(ctx context.Context, ds task.DataSource) error {
		return ds.DeleteAll(ctx)
	}, func() {
		r.clearLocked()
	})
}

// RefreshTasks marks the cache dirty so the next read goes to the sources.
func (r *TasksRepository) RefreshTasks() {
	r.markDirty()
}

// CacheState reports the current cache state.
func (r *TasksRepository) CacheState() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.dirty:
		return StateDirty
	case r.loaded:
		return StateValid
	default:
		return StateEmpty
	}
}

// Close waits for any in-flight local mirror to finish.
func (r *TasksRepository) Close() error {
	r.localMu.Lock()
	defer r.localMu.Unlock()
	return nil
}

// writeThrough applies write to the remote source, then to the local source,
// and finally runs apply under the cache lock. The operation runs detached
// from ctx cancellation once started. A failure after the remote write
// succeeded leaves the sources disagreeing, so the cache is marked dirty.
func (r *TasksRepository) writeThrough(ctx context.Context, write func(context.Context, task.DataSource) error, apply func()) error {
	ctx = context.WithoutCancel(ctx)

	r.mu.Lock()
	r.gen++
	r.pending++
	r.mu.Unlock()

	err := r.call(ctx, sourceRemote, func(ctx context.Context) error {
		return write(ctx, r.remote)
	})
	if err != nil {
		r.endWrite(nil, false)
		return err
	}

	r.localMu.RLock()
	err = r.call(ctx, sourceLocal, func(ctx context.Context) error {
		return write(ctx, r.local)
	})
	r.localMu.RUnlock()
	if err != nil {
		r.logError("local write failed after remote write", err)
		r.endWrite(nil, true)
		return err
	}

	r.endWrite(apply, false)
	return nil
}

func (r *TasksRepository) endWrite(apply func(), invalidate bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if apply != nil {
		apply()
	}
	if invalidate {
		r.dirty = true
	}
	r.gen++
	r.pending--
}

func (r *TasksRepository) fetchLocalTasks(ctx context.Context) ([]task.Task, error) {
	r.localMu.RLock()
	defer r.localMu.RUnlock()

	var tasks []task.Task
	err := r.call(ctx, sourceLocal, func(ctx context.Context) error {
		var err error
		tasks, err = r.local.FetchAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// mirrorToLocal replaces the local contents with tasks. The caller must hold
// localMu exclusively; it is released when the mirror completes.
func (r *TasksRepository) mirrorToLocal(ctx context.Context, tasks []task.Task) {
	defer r.localMu.Unlock()

	err := r.call(ctx, sourceLocal, func(ctx context.Context) error {
		return r.local.DeleteAll(ctx)
	})
	if err != nil {
		r.logError("local mirror: delete all failed", err)
		return
	}

	for _, t := range tasks {
		err := r.call(ctx, sourceLocal, func(ctx context.Context) error {
			return r.local.Save(ctx, t)
		})
		if err != nil {
			r.logError("local mirror: save failed", err, slog.String("task_id", t.ID))
		}
	}

	r.logger.Debug("local mirror complete", slog.Int("tasks", len(tasks)))
}

// call runs fn against source with the store timeout applied and classifies
// any failure as SourceUnavailable unless the source already reported a kind.
func (r *TasksRepository) call(ctx context.Context, source string, fn func(context.Context) error) error {
	if r.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.storeTimeout)
		defer cancel()
	}
	return task.SourceUnavailable(source, fn(ctx))
}

// mirrorCurrent reports whether the mirror numbered seq, taken at gen, is
// still the latest one and no write has touched the sources since. A mirror
// dropped because of a write leaves local behind the cache, so the cache is
// marked dirty and the next listing mirrors again.
func (r *TasksRepository) mirrorCurrent(seq, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mirrorSeq != seq {
		return false
	}
	if !r.unchangedSinceLocked(gen) {
		r.dirty = true
		return false
	}
	return true
}

func (r *TasksRepository) markDirty() {
	r.mu.Lock()
	r.dirty = true
	r.mu.Unlock()
}

func (r *TasksRepository) key(id string) string {
	return r.keys.SerializeKey("task", id)
}

// unchangedSinceLocked reports whether no write started or finished since gen was read.
func (r *TasksRepository) unchangedSinceLocked(gen uint64) bool {
	return r.gen == gen && r.pending == 0
}

// cachedTasksLocked returns the cached listing if it can be trusted. An
// evicted or expired entry invalidates the whole listing.
func (r *TasksRepository) cachedTasksLocked() ([]task.Task, bool) {
	if r.dirty || !r.loaded || r.index.len() == 0 {
		return nil, false
	}

	tasks := make([]task.Task, 0, r.index.len())
	for _, id := range r.index.ids() {
		t, ok := r.store.Get(r.key(id))
		if !ok {
			r.dirty = true
			return nil, false
		}
		tasks = append(tasks, t)
	}
	return tasks, true
}

func (r *TasksRepository) cachedTaskLocked(id string) (task.Task, bool) {
	if !r.index.has(id) {
		return task.Task{}, false
	}
	return r.store.Get(r.key(id))
}

func (r *TasksRepository) replaceLocked(tasks []task.Task) {
	r.clearLocked()
	for _, t := range tasks {
		r.upsertLocked(t)
	}
	r.loaded = true
	r.dirty = false
}

func (r *TasksRepository) upsertLocked(t task.Task) {
	r.index.add(t.ID)
	r.store.Set(r.key(t.ID), t)
}

func (r *TasksRepository) removeLocked(id string) {
	r.index.remove(id)
	r.store.Delete(r.key(id))
}

// clearLocked drops every entry under this repository's namespace, including
// entries the index no longer tracks.
func (r *TasksRepository) clearLocked() {
	r.store.DeleteByPrefix(r.keys.SerializeKey("task") + cache.KeySeparator)
	r.index.reset()
}
