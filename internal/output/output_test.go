//nolint:testpackage // Tests require internal access for thorough testing
package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abatilo/taskdash/internal/analytics"
	"github.com/abatilo/taskdash/internal/board"
	"github.com/abatilo/taskdash/internal/dates"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/task"
	"github.com/abatilo/taskdash/internal/view"
)

func testWindow() *dates.Window {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	return dates.NewWindow(dates.WithClock(func() time.Time { return now }), dates.WithLocation(time.UTC))
}

func sampleTasks() []task.Task {
	created := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	return []task.Task{
		{ID: "a1", Title: "Late report", Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: "2024-06-08", CreatedAt: created},
		{ID: "b2", Title: "Ship it", Priority: task.PriorityLow, Status: task.StatusDone, DueDate: "2024-06-08", CreatedAt: created},
		{ID: "c3", Title: "Review", Priority: task.PriorityMedium, Status: task.StatusInProgress, DueDate: "2024-06-11", CreatedAt: created},
	}
}

func TestNewPicksFormatter(t *testing.T) {
	if _, ok := New(true, testWindow()).(*JSONFormatter); !ok {
		t.Error("New(true) should return *JSONFormatter")
	}
	if _, ok := New(false, testWindow()).(*HumanFormatter); !ok {
		t.Error("New(false) should return *HumanFormatter")
	}
}

func TestHumanTaskList(t *testing.T) {
	f := NewHumanFormatter(testWindow())

	got := f.FormatTaskList(sampleTasks())
	want := "[ ] H [a1] Late report  (due Jun 8, 2024, OVERDUE)\n" +
		"[X] L [b2] Ship it  (due Jun 8, 2024)\n" +
		"[*] M [c3] Review  (due Jun 11, 2024, Tomorrow)\n"
	if got != want {
		t.Errorf("FormatTaskList() =\n%s\nwant\n%s", got, want)
	}

	if got := f.FormatTaskList(nil); got != "No tasks found.\n" {
		t.Errorf("FormatTaskList(nil) = %q", got)
	}
}

func TestHumanTask(t *testing.T) {
	f := NewHumanFormatter(testWindow())
	got := f.FormatTask(sampleTasks()[2])

	for _, want := range []string{"[c3] Review", "Status:   In Progress", "Priority: Medium", "Due:      Jun 11, 2024, Tomorrow", "Created:"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatTask() missing %q in\n%s", want, got)
		}
	}
}

func TestHumanDashboard(t *testing.T) {
	f := NewHumanFormatter(testWindow())
	tasks := sampleTasks()
	d := board.Dashboard{
		Today:   "2024-06-10",
		State:   view.DefaultState(),
		Tasks:   tasks,
		Visible: tasks[:1],
		Summary: analytics.Compute(tasks, "2024-06-10"),
	}

	got := f.FormatDashboard(d)
	for _, want := range []string{"Today: Jun 10, 2024", "Completed:    1 (33%)", "Overdue:      1", "Showing 1 of 3 tasks", "[a1] Late report"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatDashboard() missing %q in\n%s", want, got)
		}
	}
}

func TestHumanDatesAndNotifications(t *testing.T) {
	f := NewHumanFormatter(testWindow())

	got := f.FormatDates(testWindow().Choices())
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != dates.WindowDays {
		t.Fatalf("FormatDates() lines = %d, want %d", len(lines), dates.WindowDays)
	}
	if !strings.HasPrefix(lines[0], "2024-06-10") || !strings.HasSuffix(lines[0], "Today") {
		t.Errorf("first line = %q", lines[0])
	}

	got = f.FormatNotifications([]notify.Notification{
		{Kind: notify.KindSuccess, Title: "Task Added", Message: "ok"},
		{Kind: notify.KindError, Title: "Cannot Delete", Message: "Completed tasks cannot be deleted."},
	})
	want := "✓ Task Added: ok\n✗ Cannot Delete: Completed tasks cannot be deleted.\n"
	if got != want {
		t.Errorf("FormatNotifications() = %q, want %q", got, want)
	}
}

func TestJSONTaskList(t *testing.T) {
	f := NewJSONFormatter(testWindow())

	var got []taskJSON
	if err := json.Unmarshal([]byte(f.FormatTaskList(sampleTasks())), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].Overdue || got[1].Overdue || got[2].Overdue {
		t.Errorf("overdue flags = %v %v %v, want true false false", got[0].Overdue, got[1].Overdue, got[2].Overdue)
	}
	if got[2].Status != "In Progress" || got[2].DueDate != "2024-06-11" {
		t.Errorf("task = %+v", got[2])
	}
	if got[0].CreatedAt != "2024-06-01T08:30:00Z" {
		t.Errorf("createdAt = %q", got[0].CreatedAt)
	}
}

func TestJSONEmptyCollections(t *testing.T) {
	f := NewJSONFormatter(testWindow())

	if got := f.FormatTaskList(nil); got != "[]\n" {
		t.Errorf("FormatTaskList(nil) = %q", got)
	}
	if got := f.FormatNotifications(nil); got != "[]\n" {
		t.Errorf("FormatNotifications(nil) = %q", got)
	}
	if got := f.FormatDates(nil); got != "[]\n" {
		t.Errorf("FormatDates(nil) = %q", got)
	}
}

func TestJSONDashboard(t *testing.T) {
	f := NewJSONFormatter(testWindow())
	tasks := sampleTasks()
	d := board.Dashboard{
		Today:   "2024-06-10",
		State:   view.DefaultState(),
		Tasks:   tasks,
		Visible: tasks,
		Summary: analytics.Compute(tasks, "2024-06-10"),
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(f.FormatDashboard(d)), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"today", "filters", "tasks", "analytics"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	var summary analytics.Summary
	if err := json.Unmarshal(got["analytics"], &summary); err != nil {
		t.Fatal(err)
	}
	if summary.CompletionRate != 33 {
		t.Errorf("completionRate = %d, want 33", summary.CompletionRate)
	}
}

func TestErrorAndMessage(t *testing.T) {
	err := errors.New("boom")

	if got := NewHumanFormatter(testWindow()).FormatError(err); got != "Error: boom\n" {
		t.Errorf("human FormatError() = %q", got)
	}
	if got := NewJSONFormatter(testWindow()).FormatError(err); got != "{\n  \"error\": \"boom\"\n}\n" {
		t.Errorf("json FormatError() = %q", got)
	}
	if got := NewJSONFormatter(testWindow()).FormatMessage("done"); got != "{\n  \"message\": \"done\"\n}\n" {
		t.Errorf("json FormatMessage() = %q", got)
	}
}
