package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/taskdash/internal/analytics"
	"github.com/abatilo/taskdash/internal/board"
	"github.com/abatilo/taskdash/internal/dates"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/task"
	"github.com/abatilo/taskdash/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	window *dates.Window
}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter(w *dates.Window) *JSONFormatter {
	return &JSONFormatter{window: w}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	DueDate   string `json:"dueDate"`
	CreatedAt string `json:"createdAt"`
	Overdue   bool   `json:"overdue"`
}

func (f *JSONFormatter) toTaskJSON(t task.Task) taskJSON {
	return taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		Overdue:   isOverdue(f.window, t),
	}
}

func (f *JSONFormatter) toTaskListJSON(tasks []task.Task) []taskJSON {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = f.toTaskJSON(t)
	}
	return out
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(f.toTaskJSON(t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	return marshalJSON(f.toTaskListJSON(tasks))
}

// FormatSummary formats analytics as JSON.
func (f *JSONFormatter) FormatSummary(s analytics.Summary) string {
	return marshalJSON(s)
}

type dashboardJSON struct {
	Today     string            `json:"today"`
	Filters   view.State        `json:"filters"`
	Tasks     []taskJSON        `json:"tasks"`
	Analytics analytics.Summary `json:"analytics"`
}

// FormatDashboard formats the filtered list and analytics as one document.
func (f *JSONFormatter) FormatDashboard(d board.Dashboard) string {
	return marshalJSON(dashboardJSON{
		Today:     d.Today,
		Filters:   d.State,
		Tasks:     f.toTaskListJSON(d.Visible),
		Analytics: d.Summary,
	})
}

// FormatDates formats the selectable due dates as JSON.
func (f *JSONFormatter) FormatDates(choices []dates.Choice) string {
	if choices == nil {
		choices = []dates.Choice{}
	}
	return marshalJSON(choices)
}

// FormatNotifications formats notifications as JSON.
func (f *JSONFormatter) FormatNotifications(ns []notify.Notification) string {
	if ns == nil {
		ns = []notify.Notification{}
	}
	return marshalJSON(ns)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
