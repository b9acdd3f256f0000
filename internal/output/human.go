package output

import (
	"fmt"
	"strings"

	"github.com/abatilo/taskdash/internal/analytics"
	"github.com/abatilo/taskdash/internal/board"
	"github.com/abatilo/taskdash/internal/dates"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	window *dates.Window
}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter(w *dates.Window) *HumanFormatter {
	return &HumanFormatter{window: w}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, t.Title)
	fmt.Fprintf(&sb, "  Status:   %s\n", t.Status)
	fmt.Fprintf(&sb, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(&sb, "  Due:      %s\n", f.dueText(t))
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task) string {
	return fmt.Sprintf("%s %s [%s] %s  (due %s)\n",
		f.statusIcon(t.Status), f.priorityMark(t.Priority), t.ID, t.Title, f.dueText(t))
}

func (f *HumanFormatter) dueText(t task.Task) string {
	due := dates.Format(t.DueDate)
	switch {
	case isOverdue(f.window, t):
		return due + ", OVERDUE"
	case f.window.IsWithinWindow(t.DueDate):
		return due + ", " + f.window.Label(t.DueDate)
	default:
		return due
	}
}

func (f *HumanFormatter) statusIcon(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "[ ]"
	case task.StatusInProgress:
		return "[*]"
	case task.StatusDone:
		return "[X]"
	default:
		return "[?]"
	}
}

func (f *HumanFormatter) priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "H"
	case task.PriorityMedium:
		return "M"
	case task.PriorityLow:
		return "L"
	default:
		return "?"
	}
}

// FormatSummary formats analytics as an aligned block.
func (f *HumanFormatter) FormatSummary(s analytics.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total:        %d\n", s.Total)
	fmt.Fprintf(&sb, "Completed:    %d (%d%%)\n", s.Completed, s.CompletionRate)
	fmt.Fprintf(&sb, "Todo:         %d\n", s.TodoCount)
	fmt.Fprintf(&sb, "In Progress:  %d\n", s.InProgressCount)
	fmt.Fprintf(&sb, "Overdue:      %d\n", s.Overdue)
	fmt.Fprintf(&sb, "Top priority: %s\n", s.MostCommonPriority)
	return sb.String()
}

// FormatDashboard formats analytics followed by the filtered list.
func (f *HumanFormatter) FormatDashboard(d board.Dashboard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Today: %s\n\n", dates.Format(d.Today))
	sb.WriteString(f.FormatSummary(d.Summary))
	fmt.Fprintf(&sb, "\nStatus: %s  Priority: %s  Sort: %s %s\n",
		d.State.Status, d.State.Priority, d.State.SortBy, d.State.SortOrder)
	fmt.Fprintf(&sb, "Showing %d of %d tasks\n\n", len(d.Visible), len(d.Tasks))
	sb.WriteString(f.FormatTaskList(d.Visible))
	return sb.String()
}

// FormatDates formats the selectable due dates, one per line.
func (f *HumanFormatter) FormatDates(choices []dates.Choice) string {
	var sb strings.Builder
	for _, c := range choices {
		fmt.Fprintf(&sb, "%s  %-12s  %s\n", c.Date, dates.Format(c.Date), c.Label)
	}
	return sb.String()
}

// FormatNotifications formats each notification on its own line.
func (f *HumanFormatter) FormatNotifications(ns []notify.Notification) string {
	var sb strings.Builder
	for _, n := range ns {
		fmt.Fprintf(&sb, "%s %s: %s\n", f.kindIcon(n.Kind), n.Title, n.Message)
	}
	return sb.String()
}

func (f *HumanFormatter) kindIcon(k notify.Kind) string {
	switch k {
	case notify.KindSuccess:
		return "✓"
	case notify.KindWarning:
		return "!"
	case notify.KindError:
		return "✗"
	default:
		return "•"
	}
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
