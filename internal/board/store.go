// Package board owns the authoritative task collection for a session and
// enforces the task lifecycle rules on every mutation.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abatilo/taskdash/internal/analytics"
	"github.com/abatilo/taskdash/internal/dates"
	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/task"
	"github.com/abatilo/taskdash/internal/view"
)

// Persister hydrates and flushes the full collection.
type Persister interface {
	Load() []task.Task
	Save(tasks []task.Task)
}

// Store is the in-memory task collection. A mutation, its flush and the
// snapshot handed to observers happen under one lock.
type Store struct {
	mu        sync.Mutex
	tasks     []task.Task
	persister Persister
	notifier  notify.Sink
	window    *dates.Window
	now       func() time.Time
	logger    *slog.Logger

	enforceWindow bool

	observers map[int]func([]task.Task)
	nextObs   int
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where outcome notifications go.
func WithNotifier(n notify.Sink) Option {
	return func(s *Store) { s.notifier = n }
}

// WithWindow sets the due-date window used for validation and overdue checks.
func WithWindow(w *dates.Window) Option {
	return func(s *Store) { s.window = w }
}

// WithClock sets the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDueWindow toggles rejection of due dates outside the window.
func WithDueWindow(enforce bool) Option {
	return func(s *Store) { s.enforceWindow = enforce }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store hydrated from p.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister:     p,
		notifier:      notify.SinkFunc(func(notify.Kind, string, string) {}),
		window:        dates.NewWindow(),
		now:           time.Now,
		logger:        slog.Default(),
		enforceWindow: true,
		observers:     make(map[int]func([]task.Task)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load()
	if s.tasks == nil {
		s.tasks = []task.Task{}
	}
	return s
}

// Subscribe registers fn to receive a copy of the collection after every
// successful mutation. The returned func unsubscribes.
func (s *Store) Subscribe(fn func([]task.Task)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, dasherrors.TaskNotFoundError{ID: id}
	}
	return s.tasks[i], nil
}

// Exists reports whether a task with id is present.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Dashboard is everything the UI renders, computed from one snapshot.
type Dashboard struct {
	Today   string            `json:"today"`
	State   view.State        `json:"filters"`
	Tasks   []task.Task       `json:"-"`
	Visible []task.Task       `json:"tasks"`
	Summary analytics.Summary `json:"analytics"`
}

// Dashboard derives the filtered list and the analytics from the current
// collection.
func (s *Store) Dashboard(state view.State) Dashboard {
	s.mu.Lock()
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	today := s.window.Today()
	return Dashboard{
		Today:   today,
		State:   state,
		Tasks:   snapshot,
		Visible: view.Apply(snapshot, state),
		Summary: analytics.Compute(snapshot, today),
	}
}

// Add validates d and appends a new task.
func (s *Store) Add(d task.Draft) (task.Task, error) {
	s.mu.Lock()

	title := strings.TrimSpace(d.Title)
	if err := s.validate(&title, &d.Priority, &d.Status, &d.DueDate); err != nil {
		s.mu.Unlock()
		return task.Task{}, s.fail(err)
	}

	createdAt := s.now().UTC()
	t := task.Task{
		ID:        task.GenerateID(title, createdAt, func(id string) bool { return s.indexOf(id) >= 0 }),
		Title:     title,
		Priority:  d.Priority,
		Status:    d.Status,
		DueDate:   d.DueDate,
		CreatedAt: createdAt,
	}
	s.tasks = append(s.tasks, t)
	snapshot := s.commit()
	s.mu.Unlock()

	s.logger.Debug("task added", "id", t.ID)
	s.notifier.Notify(notify.KindSuccess, "Task Added", fmt.Sprintf("%q has been added successfully.", t.Title))
	s.publish(snapshot)
	return t, nil
}

// Update merges p into the task with id. ID and CreatedAt never change.
func (s *Store) Update(id string, p task.Patch) (task.Task, error) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, s.fail(dasherrors.TaskNotFoundError{ID: id})
	}
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		p.Title = &trimmed
	}
	if err := s.validate(p.Title, p.Priority, p.Status, p.DueDate); err != nil {
		s.mu.Unlock()
		return task.Task{}, s.fail(err)
	}

	p.Apply(&s.tasks[i])
	t := s.tasks[i]
	snapshot := s.commit()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindSuccess, "Task Updated", fmt.Sprintf("%q has been updated successfully.", t.Title))
	s.publish(snapshot)
	return t, nil
}

// Remove deletes the task with id. Done tasks are protected.
func (s *Store) Remove(id string) error {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return s.fail(dasherrors.TaskNotFoundError{ID: id})
	}
	t := s.tasks[i]
	if t.IsDone() {
		s.mu.Unlock()
		return s.fail(dasherrors.ProtectedStateError{ID: id, Status: string(t.Status)})
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	snapshot := s.commit()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindInfo, "Task Deleted", fmt.Sprintf("%q has been removed.", t.Title))
	s.publish(snapshot)
	return nil
}

// SetStatus moves the task to status. Every transition is allowed.
func (s *Store) SetStatus(id string, status task.Status) (task.Task, error) {
	if !task.IsValidStatus(status) {
		return task.Task{}, s.fail(dasherrors.ValidationError{Field: "status", Reason: dasherrors.InvalidStatusError{Value: string(status)}.Error()})
	}
	return s.changeStatus(id, func(task.Status) task.Status { return status })
}

// AdvanceStatus cycles Todo -> In Progress -> Done -> Todo.
func (s *Store) AdvanceStatus(id string) (task.Task, error) {
	return s.changeStatus(id, task.Status.Next)
}

func (s *Store) changeStatus(id string, next func(task.Status) task.Status) (task.Task, error) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return task.Task{}, s.fail(dasherrors.TaskNotFoundError{ID: id})
	}
	s.tasks[i].Status = next(s.tasks[i].Status)
	t := s.tasks[i]
	snapshot := s.commit()
	s.mu.Unlock()

	s.notifier.Notify(notify.KindInfo, "Status Updated", fmt.Sprintf("Task %q is now %s.", t.Title, t.Status))
	s.publish(snapshot)
	return t, nil
}

// validate checks whichever fields are non-nil. Must hold s.mu.
func (s *Store) validate(title *string, priority *task.Priority, status *task.Status, due *string) error {
	if title != nil && *title == "" {
		return dasherrors.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if priority != nil && !task.IsValidPriority(*priority) {
		return dasherrors.ValidationError{Field: "priority", Reason: dasherrors.InvalidPriorityError{Value: string(*priority)}.Error()}
	}
	if status != nil && !task.IsValidStatus(*status) {
		return dasherrors.ValidationError{Field: "status", Reason: dasherrors.InvalidStatusError{Value: string(*status)}.Error()}
	}
	if due != nil {
		switch {
		case *due == "":
			return dasherrors.ValidationError{Field: "due date", Reason: "must not be empty"}
		case !dates.Valid(*due):
			return dasherrors.ValidationError{Field: "due date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", *due)}
		case s.enforceWindow && !s.window.IsWithinWindow(*due):
			avail := s.window.AvailableDates()
			return dasherrors.ValidationError{
				Field:  "due date",
				Reason: fmt.Sprintf("%s is outside %s..%s", *due, avail[0], avail[len(avail)-1]),
			}
		}
	}
	return nil
}

// commit flushes the collection and returns the snapshot for observers.
// Must hold s.mu.
func (s *Store) commit() []task.Task {
	s.persister.Save(s.tasks)
	return slices.Clone(s.tasks)
}

func (s *Store) publish(snapshot []task.Task) {
	s.mu.Lock()
	fns := make([]func([]task.Task), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}

// fail reports err to the notifier and returns it.
func (s *Store) fail(err error) error {
	var (
		validation dasherrors.ValidationError
		notFound   dasherrors.TaskNotFoundError
		protected  dasherrors.ProtectedStateError
	)
	switch {
	case errors.As(err, &protected):
		s.notifier.Notify(notify.KindError, "Cannot Delete", "Completed tasks cannot be deleted.")
	case errors.As(err, &notFound):
		s.notifier.Notify(notify.KindError, "Task Not Found", err.Error())
	case errors.As(err, &validation):
		s.notifier.Notify(notify.KindError, "Validation Error", err.Error())
	default:
		s.notifier.Notify(notify.KindError, "Error", err.Error())
	}
	return err
}

// indexOf returns the position of id or -1. Must hold s.mu.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}
