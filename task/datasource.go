package task

import "context"

// DataSource is the capability set shared by every task store.
//
// Implementations must be safe for concurrent use. Blocking operations honour
// ctx cancellation and deadlines; the repository applies its store timeout at
// this boundary.
type DataSource interface {
	// FetchAll returns every stored task. It fails with SourceUnavailable when
	// the medium cannot be read.
	FetchAll(ctx context.Context) ([]Task, error)

	// FetchOne returns the task with the given ID, or NotFound.
	FetchOne(ctx context.Context, id string) (Task, error)

	// Save upserts the task by ID.
	Save(ctx context.Context, t Task) error

	// MarkCompleted and MarkActive upsert t with the completion flag set or
	// cleared. Both are idempotent.
	MarkCompleted(ctx context.Context, t Task) error
	MarkActive(ctx context.Context, t Task) error

	// DeleteOne removes a single task. Deleting a missing ID is not an error.
	DeleteOne(ctx context.Context, id string) error

	// DeleteAll removes every task.
	DeleteAll(ctx context.Context) error

	// ClearCompleted removes every completed task.
	ClearCompleted(ctx context.Context) error
}
