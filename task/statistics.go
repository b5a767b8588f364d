package task

// Statistics summarizes a task listing.
type Statistics struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Total returns the number of tasks counted.
func (s Statistics) Total() int {
	return s.Active + s.Completed
}

// CompletedPercent returns the share of completed tasks in [0, 100].
func (s Statistics) CompletedPercent() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Completed) * 100 / float64(s.Total())
}

// Stats counts active and completed tasks.
func Stats(tasks []Task) Statistics {
	var s Statistics
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}
