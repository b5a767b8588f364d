package task

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Task is an immutable to-do item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// New creates an active task with a freshly generated ID.
func New(title, description string) Task {
	return Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}
}

// NewWithID creates an active task that keeps the provided ID.
func NewWithID(id, title, description string) Task {
	return Task{ID: id, Title: title, Description: description}
}

// IsActive reports whether the task is not completed.
func (t Task) IsActive() bool {
	return !t.Completed
}

// IsEmpty reports whether the task has neither title nor description.
func (t Task) IsEmpty() bool {
	return t.Title == "" && t.Description == ""
}

// DisplayTitle returns the title, or the description when the title is empty.
func (t Task) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Description
}

// Complete returns a copy of the task marked as completed.
func (t Task) Complete() Task {
	t.Completed = true
	return t
}

// Activate returns a copy of the task marked as active.
func (t Task) Activate() Task {
	t.Completed = false
	return t
}

// Validate returns an InvalidTask error when the task cannot be persisted.
func (t Task) Validate() error {
	err := validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required),
		validation.Field(&t.Title,
			validation.Required.When(t.Description == "").Error("title or description is required"),
		),
	)
	if err != nil {
		return newInvalidTask(t, err)
	}
	return nil
}
