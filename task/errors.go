package task

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to the errors produced by this package.
const (
	TextCodeNotFound          = "TASK_NOT_FOUND"
	TextCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	TextCodeInvalidTask       = "INVALID_TASK"
)

// NotFound builds the error returned when id is absent from source.
func NotFound(source, id string) error {
	return goerrors.New("task not found", goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound).
		WithMetadata(map[string]any{"source": source, "task_id": id})
}

// SourceUnavailable wraps a medium failure reported by source.
// NotFound, InvalidTask and SourceUnavailable errors are returned unchanged.
func SourceUnavailable(source string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsInvalidTask(err) || IsSourceUnavailable(err) {
		return err
	}
	// goerrors.Wrap keeps the category of a wrapped *Error, so build a fresh one.
	e := goerrors.New(source+" unavailable", goerrors.CategoryExternal).
		WithTextCode(TextCodeSourceUnavailable).
		WithMetadata(map[string]any{"source": source})
	e.Source = err
	return e
}

func newInvalidTask(t Task, err error) error {
	return goerrors.FromOzzoValidation(err, "invalid task").
		WithTextCode(TextCodeInvalidTask).
		WithMetadata(map[string]any{"task_id": t.ID})
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return goerrors.HasCategory(err, goerrors.CategoryNotFound)
}

// IsSourceUnavailable reports whether err is a SourceUnavailable error.
func IsSourceUnavailable(err error) bool {
	return goerrors.HasCategory(err, goerrors.CategoryExternal)
}

// IsInvalidTask reports whether err is an InvalidTask error.
func IsInvalidTask(err error) bool {
	return goerrors.HasCategory(err, goerrors.CategoryValidation)
}
