// Package view derives the displayed task list from a filter and sort state.
package view

import (
	"cmp"
	"slices"
	"strings"

	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/task"
)

const (
	StatusAll   task.Status   = "All"
	PriorityAll task.Priority = "All"
)

// SortKey names the field tasks are ordered by.
type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "createdAt"
)

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// State is the filter and sort configuration of the task list.
// It is never persisted.
type State struct {
	Status    task.Status   `json:"status"`
	Priority  task.Priority `json:"priority"`
	SortBy    SortKey       `json:"sortBy"`
	SortOrder Order         `json:"sortOrder"`
}

// DefaultState shows everything ordered by due date, soonest first.
func DefaultState() State {
	return State{
		Status:    StatusAll,
		Priority:  PriorityAll,
		SortBy:    SortByDueDate,
		SortOrder: Asc,
	}
}

// Validate checks that every field holds a known value.
func (s State) Validate() error {
	if s.Status != StatusAll && !task.IsValidStatus(s.Status) {
		return dasherrors.InvalidStatusError{Value: string(s.Status)}
	}
	if s.Priority != PriorityAll && !task.IsValidPriority(s.Priority) {
		return dasherrors.InvalidPriorityError{Value: string(s.Priority)}
	}
	if _, err := ParseSortKey(string(s.SortBy)); err != nil {
		return err
	}
	if _, err := ParseOrder(string(s.SortOrder)); err != nil {
		return err
	}
	return nil
}

// ParseStatus accepts "all" or any task status spelling.
func ParseStatus(s string) (task.Status, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusAll)) {
		return StatusAll, nil
	}
	st, ok := task.ParseStatus(s)
	if !ok {
		return "", dasherrors.InvalidStatusError{Value: s}
	}
	return st, nil
}

// ParsePriority accepts "all" or any task priority spelling.
func ParsePriority(s string) (task.Priority, error) {
	if strings.EqualFold(strings.TrimSpace(s), string(PriorityAll)) {
		return PriorityAll, nil
	}
	p, ok := task.ParsePriority(s)
	if !ok {
		return "", dasherrors.InvalidPriorityError{Value: s}
	}
	return p, nil
}

// ParseSortKey matches a sort key ignoring case.
func ParseSortKey(s string) (SortKey, error) {
	keys := []SortKey{SortByDueDate, SortByPriority, SortByCreatedAt}
	for _, k := range keys {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", dasherrors.InvalidSortError{Value: s, Allowed: []string{"dueDate", "priority", "createdAt"}}
}

// ParseOrder matches a sort order ignoring case.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", dasherrors.InvalidSortError{Value: s, Allowed: []string{"asc", "desc"}}
	}
}

// Matches reports whether t passes the status and priority filters.
func (s State) Matches(t task.Task) bool {
	if s.Status != StatusAll && s.Status != "" && t.Status != s.Status {
		return false
	}
	if s.Priority != PriorityAll && s.Priority != "" && t.Priority != s.Priority {
		return false
	}
	return true
}

// Apply filters and sorts tasks into a new slice. The input is not
// modified. Equal keys keep their input order.
func Apply(tasks []task.Task, s State) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if s.Matches(t) {
			out = append(out, t)
		}
	}

	compare := comparator(s.SortBy)
	if s.SortOrder == Desc {
		asc := compare
		compare = func(a, b task.Task) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(key SortKey) func(a, b task.Task) int {
	switch key {
	case SortByPriority:
		return func(a, b task.Task) int {
			return cmp.Compare(task.PriorityRank(a.Priority), task.PriorityRank(b.Priority))
		}
	case SortByCreatedAt:
		return func(a, b task.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	default:
		// ISO dates order chronologically as strings.
		return func(a, b task.Task) int {
			return strings.Compare(a.DueDate, b.DueDate)
		}
	}
}
