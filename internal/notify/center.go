package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays active.
const DefaultTTL = 3 * time.Second

// Canceler disarms a scheduled callback.
type Canceler interface {
	Stop() bool
}

// Scheduler arms callbacks to run after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Canceler
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Canceler {
	return time.AfterFunc(d, f)
}

type entry struct {
	n     Notification
	timer Canceler
}

// Center keeps the active notifications in arrival order and dismisses
// each one when its timer fires. It implements Sink.
type Center struct {
	mu      sync.Mutex
	ttl     time.Duration
	sched   Scheduler
	now     func() time.Time
	newID   func() string
	entries []*entry
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithTTL sets the auto-dismiss delay. Zero keeps notifications until
// dismissed.
func WithTTL(d time.Duration) CenterOption {
	return func(c *Center) { c.ttl = d }
}

// WithScheduler replaces the timer implementation.
func WithScheduler(s Scheduler) CenterOption {
	return func(c *Center) { c.sched = s }
}

// WithIDFunc replaces the ID generator.
func WithIDFunc(f func() string) CenterOption {
	return func(c *Center) { c.newID = f }
}

// WithClock replaces the clock used for CreatedAt.
func WithClock(now func() time.Time) CenterOption {
	return func(c *Center) { c.now = now }
}

// NewCenter creates a Center with a DefaultTTL auto-dismiss.
func NewCenter(opts ...CenterOption) *Center {
	c := &Center{
		ttl:   DefaultTTL,
		sched: timeScheduler{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify implements Sink.
func (c *Center) Notify(kind Kind, title, message string) {
	c.Push(kind, title, message)
}

// Push records a notification and arms its dismissal timer.
func (c *Center) Push(kind Kind, title, message string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{n: Notification{
		ID:        c.newID(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: c.now(),
	}}
	if c.ttl > 0 {
		e.timer = c.sched.AfterFunc(c.ttl, func() { c.expire(e) })
	}
	c.entries = append(c.entries, e)
	return e.n
}

// expire removes exactly the entry the timer was armed for. A timer
// that outlives its entry finds nothing, even if the ID was reused.
func (c *Center) expire(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = slices.DeleteFunc(c.entries, func(x *entry) bool { return x == e })
}

// Dismiss removes the notification with id and disarms its timer.
// It reports whether anything was removed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.entries, func(x *entry) bool { return x.n.ID == id })
	if i < 0 {
		return false
	}
	if t := c.entries[i].timer; t != nil {
		t.Stop()
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

// Active returns the notifications that are still showing.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.n
	}
	return out
}

// Close disarms every timer and drops all notifications.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	c.entries = nil
}
