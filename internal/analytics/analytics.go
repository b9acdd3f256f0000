// Package analytics summarizes a task collection.
package analytics

import (
	"math"

	"github.com/abatilo/taskdash/internal/task"
)

// Summary is a point-in-time view of the task collection.
type Summary struct {
	Total              int           `json:"total"`
	Completed          int           `json:"completed"`
	Overdue            int           `json:"overdue"`
	CompletionRate     int           `json:"completionRate"`
	TodoCount          int           `json:"todoCount"`
	InProgressCount    int           `json:"inProgressCount"`
	MostCommonPriority task.Priority `json:"mostCommonPriority"`
}

// Compute builds a Summary from scratch. today is the ISO date that
// decides which open tasks are overdue.
func Compute(tasks []task.Task, today string) Summary {
	s := Summary{Total: len(tasks)}
	counts := make(map[task.Priority]int, len(task.Priorities()))

	for _, t := range tasks {
		switch t.Status {
		case task.StatusDone:
			s.Completed++
		case task.StatusTodo:
			s.TodoCount++
		case task.StatusInProgress:
			s.InProgressCount++
		}
		if t.Status != task.StatusDone && t.DueDate < today {
			s.Overdue++
		}
		counts[t.Priority]++
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100)) //nolint:mnd // percent
	}
	s.MostCommonPriority = mostCommon(counts)
	return s
}

// mostCommon picks the priority with the highest count. Ties go to the
// earliest in Low, Medium, High order; Medium wins when nothing is counted.
func mostCommon(counts map[task.Priority]int) task.Priority {
	best, bestCount := task.PriorityMedium, 0
	for _, p := range task.Priorities() {
		if counts[p] > bestCount {
			best, bestCount = p, counts[p]
		}
	}
	return best
}
