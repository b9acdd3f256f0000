// Package dates computes the rolling due-date window and the labels shown
// next to due dates.
package dates

import (
	"fmt"
	"time"
)

const (
	// Layout is the ISO calendar date format used for due dates.
	Layout = "2006-01-02"
	// DisplayLayout is the human-facing date format.
	DisplayLayout = "Jan 2, 2006"
	// WindowDays is the number of selectable days, today included.
	WindowDays = 5
)

// Window answers questions about due dates relative to "today".
// Today is read from the clock on every call and never cached.
type Window struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Window.
type Option func(*Window)

// WithClock overrides the clock used to determine today.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// WithLocation sets the location whose calendar day counts as today.
func WithLocation(loc *time.Location) Option {
	return func(w *Window) { w.loc = loc }
}

// NewWindow creates a Window using the local clock and time zone by default.
func NewWindow(opts ...Option) *Window {
	w := &Window{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// midnight returns today at 00:00 in the window's location.
func (w *Window) midnight() time.Time {
	y, m, d := w.now().In(w.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, w.loc)
}

// Today returns today's ISO date.
func (w *Window) Today() string {
	return w.midnight().Format(Layout)
}

// AvailableDates returns today and the following four days as ISO dates.
func (w *Window) AvailableDates() []string {
	start := w.midnight()
	out := make([]string, WindowDays)
	for i := 0; i < WindowDays; i++ {
		out[i] = start.AddDate(0, 0, i).Format(Layout)
	}
	return out
}

// IsWithinWindow reports whether date falls between the first and last
// available dates, inclusive. ISO dates compare correctly as strings.
func (w *Window) IsWithinWindow(date string) bool {
	avail := w.AvailableDates()
	return date >= avail[0] && date <= avail[len(avail)-1]
}

// IsOverdue reports whether date is strictly before today.
// Status is not considered here.
func (w *Window) IsOverdue(date string) bool {
	return date < w.Today()
}

// DaysFromToday returns the whole-day distance from today to date.
// Both ends are reduced to calendar days first, so DST shifts never
// change the result.
func (w *Window) DaysFromToday(date string) (int, error) {
	d, err := time.Parse(Layout, date)
	if err != nil {
		return 0, err
	}
	y, m, day := w.now().In(w.loc).Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return int(d.Sub(today).Hours() / 24), nil //nolint:mnd // hours per day
}

// Label describes date relative to today.
func (w *Window) Label(date string) string {
	n, err := w.DaysFromToday(date)
	if err != nil {
		return date
	}
	switch n {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case 2: //nolint:mnd // fixed label bucket
		return "Day after tomorrow"
	default:
		return fmt.Sprintf("%d days from now", n)
	}
}

// Choice is one selectable due date.
type Choice struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// Choices returns the available dates paired with their labels.
func (w *Window) Choices() []Choice {
	avail := w.AvailableDates()
	out := make([]Choice, len(avail))
	for i, d := range avail {
		out[i] = Choice{Date: d, Label: w.Label(d)}
	}
	return out
}

// Valid reports whether date is a well-formed ISO calendar date.
func Valid(date string) bool {
	_, err := time.Parse(Layout, date)
	return err == nil
}

// Format renders an ISO date as "Jan 2, 2006". Unparsable input is
// returned unchanged.
func Format(date string) string {
	d, err := time.Parse(Layout, date)
	if err != nil {
		return date
	}
	return d.Format(DisplayLayout)
}
