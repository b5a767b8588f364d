package task

import "strings"

// FilterType selects which tasks a listing returns.
type FilterType int

const (
	AllTasks FilterType = iota
	ActiveTasks
	CompletedTasks
)

func (f FilterType) String() string {
	switch f {
	case ActiveTasks:
		return "active"
	case CompletedTasks:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilterType maps "all", "active" and "completed" to a FilterType.
// Unknown values map to AllTasks.
func ParseFilterType(s string) FilterType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return ActiveTasks
	case "completed":
		return CompletedTasks
	default:
		return AllTasks
	}
}

// Filter returns the tasks matching f, preserving order.
func Filter(tasks []Task, f FilterType) []Task {
	if f == AllTasks {
		return append([]Task(nil), tasks...)
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if (f == ActiveTasks && t.IsActive()) || (f == CompletedTasks && t.Completed) {
			out = append(out, t)
		}
	}
	return out
}
