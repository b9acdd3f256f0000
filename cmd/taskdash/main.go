package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskdash/internal/dates"
	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/notify"
	"github.com/abatilo/taskdash/internal/output"
	"github.com/abatilo/taskdash/internal/storage"
	"github.com/abatilo/taskdash/internal/task"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level by design
var (
	jsonOutput bool
	configPath string
	ephemeral  bool
	window     *dates.Window
	formatter  output.Formatter
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskdash",
		Short: "A small personal task dashboard",
		Long:  "taskdash - Track tasks with a five-day due window, filters and completion analytics.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			window = dates.NewWindow()
			formatter = output.New(jsonOutput, window)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Extra config file merged over global and project config")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep tasks in memory only")

	rootCmd.AddCommand(
		initCmd(),
		addCmd(),
		listCmd(),
		showCmd(),
		editCmd(),
		statusCmd(),
		advanceCmd(),
		rmCmd(),
		statsCmd(),
		datesCmd(),
		dashboardCmd(),
		configCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// initCmd implements 'taskdash init'.
func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the task data directory",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := loadConfig()
			if err != nil {
				printError(err)
			}
			if cfg.Storage.Backend == storage.BackendMemory {
				printOutput(formatter.FormatMessage("Memory backend needs no initialization"))
				return
			}
			dir, err := cfg.DataDir()
			if err != nil {
				printError(err)
			}
			if err = storage.Init(dir, force); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Initialized taskdash at %s", dir)))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reinitialize even if already exists")
	return cmd
}

// addCmd implements 'taskdash add'.
func addCmd() *cobra.Command {
	var priority, status, due string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			p, ok := task.ParsePriority(priority)
			if !ok {
				printError(dasherrors.InvalidPriorityError{Value: priority})
			}
			s, ok := task.ParseStatus(status)
			if !ok {
				printError(dasherrors.InvalidStatusError{Value: status})
			}

			t, err := a.store.Add(task.Draft{
				Title:    args[0],
				Priority: p,
				Status:   s,
				DueDate:  resolveDue(due),
			})
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatTask(t))
			a.flushNotifications()
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(task.PriorityMedium), "Priority (low, medium, high)")
	cmd.Flags().StringVarP(&status, "status", "s", string(task.StatusTodo), "Status (todo, in-progress, done)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date: YYYY-MM-DD or +N days (default today)")
	return cmd
}

// listCmd implements 'taskdash list'.
func listCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks through the status and priority filters",
		Run: func(cmd *cobra.Command, _ []string) {
			a := mustOpenApp()
			defer a.close()

			state, err := flags.state(cmd, a.cfg)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTaskList(a.store.Dashboard(state).Visible))
		},
	}
	flags.register(cmd)
	return cmd
}

// showCmd implements 'taskdash show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			t, err := a.store.Get(args[0])
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatTask(t))
		},
	}
}

// editCmd implements 'taskdash edit'.
func editCmd() *cobra.Command {
	var title, priority, status, due string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, priority, status or due date",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			var patch task.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("priority") {
				p, ok := task.ParsePriority(priority)
				if !ok {
					printError(dasherrors.InvalidPriorityError{Value: priority})
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("status") {
				s, ok := task.ParseStatus(status)
				if !ok {
					printError(dasherrors.InvalidStatusError{Value: status})
				}
				patch.Status = &s
			}
			if cmd.Flags().Changed("due") {
				d := resolveDue(due)
				patch.DueDate = &d
			}
			if patch.IsEmpty() {
				printError(dasherrors.ValidationError{Field: "edit", Reason: "no fields given"})
			}

			t, err := a.store.Update(args[0], patch)
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatTask(t))
			a.flushNotifications()
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority")
	cmd.Flags().StringVarP(&status, "status", "s", "", "New status")
	cmd.Flags().StringVarP(&due, "due", "d", "", "New due date: YYYY-MM-DD or +N days")
	return cmd
}

// statusCmd implements 'taskdash status'.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2), //nolint:mnd // CLI takes 2 positional args
		Run: func(_ *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			s, ok := task.ParseStatus(args[1])
			if !ok {
				printError(dasherrors.InvalidStatusError{Value: args[1]})
			}
			t, err := a.store.SetStatus(args[0], s)
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatTask(t))
			a.flushNotifications()
		},
	}
}

// advanceCmd implements 'taskdash advance'.
func advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Move a task to its next status (Todo, In Progress, Done, Todo)",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			t, err := a.store.AdvanceStatus(args[0])
			if err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatTask(t))
			a.flushNotifications()
		},
	}
}

// rmCmd implements 'taskdash rm'.
func rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task that is not done",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			a := mustOpenApp()
			defer a.close()

			t, err := a.store.Get(args[0])
			if err != nil {
				a.fail(err)
			}

			var confirmer notify.Confirmer = notify.AlwaysConfirm{}
			if !yes {
				confirmer = notify.NewPrompt(os.Stdin, os.Stderr)
			}
			if !confirmer.Confirm(fmt.Sprintf("Delete %q?", t.Title)) {
				printOutput(formatter.FormatMessage("Aborted"))
				return
			}

			if err = a.store.Remove(t.ID); err != nil {
				a.fail(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Removed task %s", t.ID)))
			a.flushNotifications()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
