package output

import (
	"github.com/abatilo/taskdash/internal/analytics"
	"github.com/abatilo/taskdash/internal/board"
	"github.com/abatilo/taskdash/internal/dates"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatSummary(s analytics.Summary) string
	FormatDashboard(d board.Dashboard) string
	FormatDates(choices []dates.Choice) string
	FormatNotifications(ns []notify.Notification) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// New returns the JSON formatter when asJSON is set and the human one
// otherwise. w decides which tasks are overdue and how due dates are labeled.
func New(asJSON bool, w *dates.Window) Formatter {
	if asJSON {
		return NewJSONFormatter(w)
	}
	return NewHumanFormatter(w)
}

// isOverdue reports whether an open task is past its due date.
func isOverdue(w *dates.Window, t task.Task) bool {
	return !t.IsDone() && w.IsOverdue(t.DueDate)
}
