package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskdash/internal/board"
	"github.com/abatilo/taskdash/internal/config"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/storage"
	"github.com/abatilo/taskdash/internal/view"
)

// app is everything a command needs once config and storage are open.
type app struct {
	cfg    *config.Config
	kv     storage.KV
	store  *board.Store
	center *notify.Center
	logger *slog.Logger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	var dir string
	if cfg.Storage.Backend != storage.BackendMemory {
		if dir, err = cfg.DataDir(); err != nil {
			return nil, err
		}
	}
	kv, err := storage.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "dir", dir)

	center := notify.NewCenter(notify.WithTTL(cfg.Notifications.DismissAfter))
	repo := storage.NewRepository(kv, storage.WithKey(cfg.Storage.Key), storage.WithLogger(logger))
	store := board.New(repo,
		board.WithNotifier(notify.Multi(center, notify.LogSink(logger))),
		board.WithWindow(window),
		board.WithDueWindow(cfg.Dates.EnforceWindow),
		board.WithLogger(logger),
	)

	return &app{cfg: cfg, kv: kv, store: store, center: center, logger: logger}, nil
}

func mustOpenApp() *app {
	a, err := openApp()
	if err != nil {
		printError(err)
	}
	return a
}

func (a *app) close() {
	a.center.Close()
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close storage", "err", err)
	}
}

// flushNotifications writes the active notifications to stderr and reports
// how many there were. JSON output stays a single document on stdout.
func (a *app) flushNotifications() int {
	active := a.center.Active()
	if jsonOutput || len(active) == 0 {
		return len(active)
	}
	os.Stderr.WriteString(formatter.FormatNotifications(active)) //nolint:gosec // stderr write errors are unrecoverable
	return len(active)
}

// fail reports a store error and exits. In human mode the error
// notification already says what went wrong.
func (a *app) fail(err error) {
	shown := a.flushNotifications()
	a.close()
	if !jsonOutput && shown > 0 {
		os.Exit(1)
	}
	printError(err)
}

// resolveDue turns "" into today and "+N" into today plus N days.
// Anything else is passed through for the store to validate.
func resolveDue(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "today"):
		return window.Today()
	case strings.EqualFold(s, "tomorrow"):
		return window.AvailableDates()[1]
	case strings.HasPrefix(s, "+"):
		n, err := strconv.Atoi(s[1:])
		avail := window.AvailableDates()
		if err == nil && n >= 0 && n < len(avail) {
			return avail[n]
		}
	}
	return s
}

// viewFlags are the filter and sort flags shared by list and dashboard.
type viewFlags struct {
	status, priority, sortBy, order string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "", "Filter by status (all, todo, in-progress, done)")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Filter by priority (all, low, medium, high)")
	cmd.Flags().StringVar(&f.sortBy, "sort", "", "Sort by dueDate, priority or createdAt")
	cmd.Flags().StringVar(&f.order, "order", "", "Sort order (asc, desc)")
}

// state starts from the configured view and applies the flags that were set.
func (f *viewFlags) state(cmd *cobra.Command, cfg *config.Config) (view.State, error) {
	state, err := cfg.ViewState()
	if err != nil {
		return view.State{}, err
	}
	if cmd.Flags().Changed("status") {
		if state.Status, err = view.ParseStatus(f.status); err != nil {
			return view.State{}, err
		}
	}
	if cmd.Flags().Changed("priority") {
		if state.Priority, err = view.ParsePriority(f.priority); err != nil {
			return view.State{}, err
		}
	}
	if cmd.Flags().Changed("sort") {
		if state.SortBy, err = view.ParseSortKey(f.sortBy); err != nil {
			return view.State{}, err
		}
	}
	if cmd.Flags().Changed("order") {
		if state.SortOrder, err = view.ParseOrder(f.order); err != nil {
			return view.State{}, err
		}
	}
	return state, nil
}
