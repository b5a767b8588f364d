// Package sqlite implements task.DataSource on top of a SQLite database.
//
// Tasks live in a single "tasks" table created on Open. Listings come back in
// insertion order; saving an existing ID updates the row in place.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-task-repository/task"
)

// SourceName identifies this store in errors.
const SourceName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a SQLite backed task.DataSource.
type Store struct {
	db   *bun.DB
	repo repository.Repository[*taskRecord]
}

var _ task.DataSource = (*Store)(nil)

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create database directory").
				WithMetadata(map[string]any{"path": path})
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_fk=1", path)
	}

	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ping database")
	}

	_, err = db.NewCreateTable().
		Model((*taskRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		_ = db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create tasks table")
	}

	return &Store{
		db:   db,
		repo: repository.NewRepository[*taskRecord](db, taskHandlers()),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of stored tasks.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}

func (s *Store) FetchAll(ctx context.Context) ([]task.Task, error) {
	var records []taskRecord
	err := s.db.NewSelect().
		Model(&records).
		OrderExpr("rowid ASC").
		Scan(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	tasks := make([]task.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].toTask())
	}
	return tasks, nil
}

func (s *Store) FetchOne(ctx context.Context, id string) (task.Task, error) {
	records, _, err := s.repo.List(ctx, byID(id))
	if err != nil {
		return task.Task{}, unavailable(err)
	}
	if len(records) == 0 {
		return task.Task{}, task.NotFound(SourceName, id)
	}
	return records[0].toTask(), nil
}

func (s *Store) Save(ctx context.Context, t task.Task) error {
	_, err := s.db.NewInsert().
		Model(toRecord(t)).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("completed = EXCLUDED.completed").
		Exec(ctx)
	return unavailable(err)
}

func (s *Store) MarkCompleted(ctx context.Context, t task.Task) error {
	return s.Save(ctx, t.Complete())
}

func (s *Store) MarkActive(ctx context.Context, t task.Task) error {
	return s.Save(ctx, t.Activate())
}

func (s *Store) DeleteOne(ctx context.Context, id string) error {
	return unavailable(s.repo.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("id = ?", id)
	}))
}

func (s *Store) DeleteAll(ctx context.Context) error {
	return unavailable(s.repo.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("1 = 1")
	}))
}

func (s *Store) ClearCompleted(ctx context.Context) error {
	return unavailable(s.repo.DeleteWhere(ctx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("completed = ?", true)
	}))
}

func byID(id string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	}
}

func unavailable(err error) error {
	return task.SourceUnavailable(SourceName, err)
}
