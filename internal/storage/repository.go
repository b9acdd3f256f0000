package storage

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/abatilo/taskdash/internal/task"
)

// DefaultKey is the namespace key holding the serialized task collection.
const DefaultKey = "task-dashboard-tasks"

// createdAtLayout mirrors the millisecond ISO timestamps the dashboard writes.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Repository loads and saves the whole task collection under one key.
// It never returns errors: loads degrade to an empty or filtered
// collection and failed saves are logged.
type Repository struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithKey overrides DefaultKey.
func WithKey(key string) RepositoryOption {
	return func(r *Repository) { r.key = key }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) { r.logger = l }
}

// NewRepository creates a Repository over kv.
func NewRepository(kv KV, opts ...RepositoryOption) *Repository {
	r := &Repository{kv: kv, key: DefaultKey, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// taskRecord is the stored shape of a task. Every field is a string so a
// single bad entry cannot fail the decode of its neighbours.
type taskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	DueDate   string `json:"dueDate"`
	CreatedAt string `json:"createdAt"`
}

func (rec taskRecord) valid() bool {
	return rec.ID != "" &&
		rec.Title != "" &&
		task.IsValidPriority(task.Priority(rec.Priority)) &&
		task.IsValidStatus(task.Status(rec.Status)) &&
		rec.DueDate != "" &&
		rec.CreatedAt != ""
}

func (rec taskRecord) toTask() task.Task {
	// A non-empty but unreadable timestamp keeps the task with a zero time.
	createdAt, _ := parseTime(rec.CreatedAt)
	return task.Task{
		ID:        rec.ID,
		Title:     rec.Title,
		Priority:  task.Priority(rec.Priority),
		Status:    task.Status(rec.Status),
		DueDate:   rec.DueDate,
		CreatedAt: createdAt,
	}
}

func fromTask(t task.Task) taskRecord {
	return taskRecord{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt.UTC().Format(createdAtLayout),
	}
}

// Load returns the stored tasks. A missing key, an unreadable store or a
// blob that is not a JSON array yields an empty slice. Entries failing
// validation are dropped.
func (r *Repository) Load() []task.Task {
	data, ok, err := r.kv.Get(r.key)
	if err != nil {
		r.logger.Error("failed to read tasks", "key", r.key, "err", err)
		return []task.Task{}
	}
	if !ok || len(data) == 0 {
		return []task.Task{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Warn("stored tasks are not a list, starting empty", "key", r.key, "err", err)
		return []task.Task{}
	}

	tasks := make([]task.Task, 0, len(raw))
	for _, entry := range raw {
		var rec taskRecord
		if err := json.Unmarshal(entry, &rec); err != nil || !rec.valid() {
			continue
		}
		tasks = append(tasks, rec.toTask())
	}
	if dropped := len(raw) - len(tasks); dropped > 0 {
		r.logger.Debug("dropped invalid stored tasks", "key", r.key, "dropped", dropped)
	}
	return tasks
}

// Save writes the full collection. Failures are logged and swallowed; the
// in-memory collection stays authoritative.
func (r *Repository) Save(tasks []task.Task) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = fromTask(t)
	}

	data, err := json.Marshal(records)
	if err != nil {
		r.logger.Error("failed to serialize tasks", "key", r.key, "err", err)
		return
	}
	if err := r.kv.Set(r.key, data); err != nil {
		r.logger.Error("failed to save tasks", "key", r.key, "err", err)
	}
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	}
	var lastErr error
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
