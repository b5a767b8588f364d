package task

import (
	"errors"
	"testing"
)

func TestNew_AssignsID(t *testing.T) {
	a := New("title", "desc")
	b := New("title", "desc")

	if a.ID == "" {
		t.Fatal("expected New to assign an ID")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct IDs, both were %q", a.ID)
	}
	if a.Completed {
		t.Error("new tasks should be active")
	}
}

func TestTask_CompleteActivateKeepID(t *testing.T) {
	orig := NewWithID("t-1", "title", "")

	done := orig.Complete()
	if !done.Completed || done.ID != orig.ID {
		t.Errorf("Complete() = %+v, want completed with ID %q", done, orig.ID)
	}
	if orig.Completed {
		t.Error("Complete() must not mutate the receiver")
	}

	active := done.Activate()
	if active.Completed || !active.IsActive() {
		t.Errorf("Activate() = %+v, want active", active)
	}
}

func TestTask_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"both empty", Task{ID: "1"}, true},
		{"title only", Task{ID: "1", Title: "a"}, false},
		{"description only", Task{ID: "1", Description: "b"}, false},
		{"both set", Task{ID: "1", Title: "a", Description: "b"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_DisplayTitle(t *testing.T) {
	if got := NewWithID("1", "", "only description").DisplayTitle(); got != "only description" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := NewWithID("1", "title", "description").DisplayTitle(); got != "title" {
		t.Errorf("DisplayTitle() = %q", got)
	}
}

func TestTask_Validate(t *testing.T) {
	if err := NewWithID("1", "title", "").Validate(); err != nil {
		t.Errorf("expected title-only task to be valid, got %v", err)
	}
	if err := NewWithID("1", "", "description").Validate(); err != nil {
		t.Errorf("expected description-only task to be valid, got %v", err)
	}

	err := NewWithID("1", "", "").Validate()
	if err == nil {
		t.Fatal("expected empty task to be invalid")
	}
	if !IsInvalidTask(err) {
		t.Errorf("expected InvalidTask, got %v", err)
	}
	if IsNotFound(err) || IsSourceUnavailable(err) {
		t.Errorf("InvalidTask misclassified: %v", err)
	}

	if err := (Task{Title: "no id"}).Validate(); !IsInvalidTask(err) {
		t.Errorf("expected missing ID to be invalid, got %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	notFound := NotFound("local", "t-1")
	if !IsNotFound(notFound) {
		t.Errorf("IsNotFound(%v) = false", notFound)
	}

	cause := errors.New("connection refused")
	unavailable := SourceUnavailable("remote", cause)
	if !IsSourceUnavailable(unavailable) {
		t.Errorf("IsSourceUnavailable(%v) = false", unavailable)
	}
	if !errors.Is(unavailable, cause) {
		t.Error("SourceUnavailable should keep the cause in the chain")
	}

	if got := SourceUnavailable("remote", notFound); !IsNotFound(got) {
		t.Errorf("SourceUnavailable must not reclassify NotFound, got %v", got)
	}
	if SourceUnavailable("remote", nil) != nil {
		t.Error("SourceUnavailable(nil) should be nil")
	}
}
