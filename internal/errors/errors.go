//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import (
	"fmt"
	"strings"
)

// NotInitializedError indicates the data directory doesn't exist.
type NotInitializedError struct {
	Path string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("taskdash not initialized at %s: run 'taskdash init' first", e.Path)
}

// AlreadyInitializedError indicates the data directory already exists.
type AlreadyInitializedError struct {
	Path string
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("taskdash already initialized at %s", e.Path)
}

// NotInRepoError indicates no enclosing git repository was found.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository"
}

// TaskNotFoundError indicates an operation targeted an unknown task ID.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// ValidationError indicates bad input to add or edit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProtectedStateError indicates a delete was attempted on a completed task.
type ProtectedStateError struct {
	ID     string
	Status string
}

func (e ProtectedStateError) Error() string {
	return fmt.Sprintf("task %s has status '%s' and cannot be deleted", e.ID, e.Status)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: low, medium, high)", e.Value)
}

// InvalidStatusError indicates an invalid status value.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: todo, in-progress, done)", e.Value)
}

// InvalidSortError indicates an unknown sort key or order.
type InvalidSortError struct {
	Value   string
	Allowed []string
}

func (e InvalidSortError) Error() string {
	return fmt.Sprintf("invalid sort option: %s (valid: %s)", e.Value, strings.Join(e.Allowed, ", "))
}

// UnknownBackendError indicates a storage backend name nothing implements.
type UnknownBackendError struct {
	Name string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: file, sqlite, memory)", e.Name)
}
