package view_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/task"
	"github.com/abatilo/taskdash/internal/view"
)

func ids(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixture() []task.Task {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []task.Task{
		{ID: "h", Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: "2024-01-05", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "l", Priority: task.PriorityLow, Status: task.StatusDone, DueDate: "2024-01-03", CreatedAt: base},
		{ID: "m", Priority: task.PriorityMedium, Status: task.StatusInProgress, DueDate: "2024-01-04", CreatedAt: base.Add(time.Hour)},
	}
}

func TestApplyPrioritySort(t *testing.T) {
	state := view.DefaultState()
	state.SortBy = view.SortByPriority

	assert.Equal(t, []string{"h", "m", "l"}, ids(view.Apply(fixture(), state)))

	state.SortOrder = view.Desc
	assert.Equal(t, []string{"l", "m", "h"}, ids(view.Apply(fixture(), state)))
}

func TestApplyDateSorts(t *testing.T) {
	state := view.DefaultState()
	assert.Equal(t, []string{"l", "m", "h"}, ids(view.Apply(fixture(), state)))

	state.SortBy = view.SortByCreatedAt
	state.SortOrder = view.Desc
	assert.Equal(t, []string{"h", "m", "l"}, ids(view.Apply(fixture(), state)))
}

func TestApplyIsStable(t *testing.T) {
	tasks := []task.Task{
		{ID: "first", DueDate: "2024-01-02", Priority: task.PriorityLow},
		{ID: "early", DueDate: "2024-01-01", Priority: task.PriorityLow},
		{ID: "second", DueDate: "2024-01-02", Priority: task.PriorityLow},
		{ID: "third", DueDate: "2024-01-02", Priority: task.PriorityLow},
	}

	state := view.DefaultState()
	assert.Equal(t, []string{"early", "first", "second", "third"}, ids(view.Apply(tasks, state)))

	state.SortOrder = view.Desc
	assert.Equal(t, []string{"first", "second", "third", "early"}, ids(view.Apply(tasks, state)))

	state.SortBy = view.SortByPriority
	assert.Equal(t, []string{"first", "early", "second", "third"}, ids(view.Apply(tasks, state)))
}

func TestApplyFilters(t *testing.T) {
	state := view.DefaultState()
	state.Status = task.StatusDone
	assert.Equal(t, []string{"l"}, ids(view.Apply(fixture(), state)))

	state = view.DefaultState()
	state.Priority = task.PriorityHigh
	assert.Equal(t, []string{"h"}, ids(view.Apply(fixture(), state)))

	state.Status = task.StatusDone
	assert.Empty(t, view.Apply(fixture(), state))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)

	state := view.DefaultState()
	state.SortBy = view.SortByPriority
	out := view.Apply(in, state)

	assert.Equal(t, before, ids(in))
	out[0].Title = "changed"
	assert.Empty(t, in[0].Title)
}

func TestParseHelpers(t *testing.T) {
	st, err := view.ParseStatus("ALL")
	require.NoError(t, err)
	assert.Equal(t, view.StatusAll, st)

	st, err = view.ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, st)

	p, err := view.ParsePriority("all")
	require.NoError(t, err)
	assert.Equal(t, view.PriorityAll, p)

	k, err := view.ParseSortKey("DUEDATE")
	require.NoError(t, err)
	assert.Equal(t, view.SortByDueDate, k)

	_, err = view.ParseSortKey("title")
	var sortErr dasherrors.InvalidSortError
	assert.True(t, errors.As(err, &sortErr))

	_, err = view.ParseOrder("sideways")
	assert.Error(t, err)
}

func TestStateValidate(t *testing.T) {
	assert.NoError(t, view.DefaultState().Validate())

	bad := view.DefaultState()
	bad.Status = "Blocked"
	assert.Error(t, bad.Validate())

	bad = view.DefaultState()
	bad.SortBy = "title"
	assert.Error(t, bad.Validate())
}
