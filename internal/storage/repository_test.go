//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abatilo/taskdash/internal/task"
)

type failingKV struct {
	*MemoryKV
	setErr error
	getErr error
}

func (f failingKV) Get(key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.MemoryKV.Get(key)
}

func (f failingKV) Set(key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryKV.Set(key, value)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sampleTasks() []task.Task {
	created := time.Date(2024, 1, 15, 10, 30, 0, 123_000_000, time.UTC)
	return []task.Task{
		{ID: "a1", Title: "Write report", Priority: task.PriorityHigh, Status: task.StatusTodo, DueDate: "2024-01-16", CreatedAt: created},
		{ID: "b2", Title: "Review PR", Priority: task.PriorityLow, Status: task.StatusInProgress, DueDate: "2024-01-17", CreatedAt: created.Add(time.Minute)},
		{ID: "c3", Title: "Ship it", Priority: task.PriorityMedium, Status: task.StatusDone, DueDate: "2024-01-18", CreatedAt: created.Add(time.Hour)},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewRepository(NewMemoryKV())
	want := sampleTasks()

	repo.Save(want)
	got := repo.Load()

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.Equal(t, want[i].Priority, got[i].Priority)
		assert.Equal(t, want[i].Status, got[i].Status)
		assert.Equal(t, want[i].DueDate, got[i].DueDate)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "createdAt %v != %v", want[i].CreatedAt, got[i].CreatedAt)
	}
}

func TestRepositorySavesDoneTasksVerbatim(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewRepository(kv)

	repo.Save(sampleTasks())

	raw, ok, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"status":"Done"`)
	assert.Contains(t, string(raw), `"createdAt":"2024-01-15T10:30:00.123Z"`)
	assert.Len(t, repo.Load(), 3)
}

func TestRepositoryLoadMissingKey(t *testing.T) {
	repo := NewRepository(NewMemoryKV())

	got := repo.Load()
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepositoryLoadNotAList(t *testing.T) {
	for _, blob := range []string{`{"id":"a"}`, `not json`, `"string"`, `42`} {
		t.Run(blob, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(DefaultKey, []byte(blob)))

			var logs bytes.Buffer
			got := NewRepository(kv, WithLogger(bufferLogger(&logs))).Load()
			assert.Empty(t, got)
		})
	}
}

func TestRepositoryLoadDropsMalformedEntries(t *testing.T) {
	kv := NewMemoryKV()
	blob := `[
		{"id":"a","title":"One","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"2024-01-15T10:30:00.000Z"},
		{"id":"b","title":"Two","priority":"Low","status":"Done","createdAt":"2024-01-15T10:30:00.000Z"},
		{"id":"c","title":"Three","priority":"Medium","status":"In Progress","dueDate":"2024-01-17","createdAt":"2024-01-15T11:30:00.000Z"},
		{"id":"d","title":"Four","priority":"Low","status":"Todo","dueDate":"2024-01-18","createdAt":"2024-01-15T12:30:00.000Z"}
	]`
	require.NoError(t, kv.Set(DefaultKey, []byte(blob)))

	var logs bytes.Buffer
	got := NewRepository(kv, WithLogger(bufferLogger(&logs))).Load()

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Contains(t, logs.String(), "dropped=1")
}

func TestRepositoryLoadValidationPredicate(t *testing.T) {
	valid := `{"id":"a","title":"T","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"2024-01-15T10:30:00Z"}`
	tests := []struct {
		name  string
		entry string
		keep  bool
	}{
		{"valid", valid, true},
		{"empty id", `{"id":"","title":"T","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"x"}`, false},
		{"missing title", `{"id":"a","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"x"}`, false},
		{"bad priority", `{"id":"a","title":"T","priority":"Urgent","status":"Todo","dueDate":"2024-01-16","createdAt":"x"}`, false},
		{"bad status", `{"id":"a","title":"T","priority":"High","status":"Blocked","dueDate":"2024-01-16","createdAt":"x"}`, false},
		{"missing createdAt", `{"id":"a","title":"T","priority":"High","status":"Todo","dueDate":"2024-01-16"}`, false},
		{"numeric id", `{"id":7,"title":"T","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"x"}`, false},
		{"null entry", `null`, false},
		{"unparsable createdAt kept", `{"id":"a","title":"T","priority":"High","status":"Todo","dueDate":"2024-01-16","createdAt":"yesterday"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(DefaultKey, []byte("["+tt.entry+"]")))

			got := NewRepository(kv, WithLogger(bufferLogger(&bytes.Buffer{}))).Load()
			if tt.keep {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestRepositorySaveFailureIsSwallowed(t *testing.T) {
	kv := failingKV{MemoryKV: NewMemoryKV(), setErr: errors.New("quota exceeded")}

	var logs bytes.Buffer
	repo := NewRepository(kv, WithLogger(bufferLogger(&logs)))

	assert.NotPanics(t, func() { repo.Save(sampleTasks()) })
	assert.Contains(t, logs.String(), "failed to save tasks")
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestRepositoryLoadReadFailure(t *testing.T) {
	kv := failingKV{MemoryKV: NewMemoryKV(), getErr: errors.New("disk gone")}

	var logs bytes.Buffer
	got := NewRepository(kv, WithLogger(bufferLogger(&logs))).Load()

	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "disk gone")
}

func TestRepositoryCustomKey(t *testing.T) {
	kv := NewMemoryKV()
	NewRepository(kv, WithKey("other")).Save(sampleTasks())

	_, ok, _ := kv.Get(DefaultKey)
	assert.False(t, ok)
	assert.Len(t, NewRepository(kv, WithKey("other")).Load(), 3)
}
