package sqlite

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-task-repository/task"
)

type taskRecord struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID          string `bun:"id,pk"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
	Completed   bool   `bun:"completed,notnull"`
}

func toRecord(t task.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
}

func (r *taskRecord) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

func taskHandlers() repository.ModelHandlers[*taskRecord] {
	return repository.ModelHandlers[*taskRecord]{
		NewRecord: func() *taskRecord {
			return &taskRecord{}
		},
		GetID: func(r *taskRecord) uuid.UUID {
			// Task IDs are opaque strings; only generated ones parse.
			id, _ := uuid.Parse(r.ID)
			return id
		},
		SetID: func(r *taskRecord, id uuid.UUID) {
			r.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
	}
}
