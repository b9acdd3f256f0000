package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abatilo/taskdash/internal/config"
	dasherrors "github.com/abatilo/taskdash/internal/errors"
	"github.com/abatilo/taskdash/internal/view"
)

// statsCmd implements 'taskdash stats'.
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion and overdue analytics",
		Run: func(_ *cobra.Command, _ []string) {
			a := mustOpenApp()
			defer a.close()

			printOutput(formatter.FormatSummary(a.store.Dashboard(view.DefaultState()).Summary))
		},
	}
}

// datesCmd implements 'taskdash dates'.
func datesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List the due dates a task can be given",
		Run: func(_ *cobra.Command, _ []string) {
			printOutput(formatter.FormatDates(window.Choices()))
		},
	}
}

// dashboardCmd implements 'taskdash dashboard'.
func dashboardCmd() *cobra.Command {
	var flags viewFlags
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show analytics and the filtered task list",
		Run: func(cmd *cobra.Command, _ []string) {
			a := mustOpenApp()
			defer a.close()

			state, err := flags.state(cmd, a.cfg)
			if err != nil {
				printError(err)
			}
			printOutput(formatter.FormatDashboard(a.store.Dashboard(state)))
		},
	}
	flags.register(cmd)
	return cmd
}

// configCmd implements 'taskdash config'.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage taskdash configuration",
	}
	cmd.AddCommand(configInitCmd(), configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var project, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Run: func(_ *cobra.Command, _ []string) {
			pathFn := config.GlobalPath
			if project {
				pathFn = config.ProjectPath
			}
			path, err := pathFn()
			if err != nil {
				printError(err)
			}
			if _, err = os.Stat(path); err == nil && !force {
				printError(dasherrors.AlreadyInitializedError{Path: path})
			}
			if err = config.WriteDefault(path); err != nil {
				printError(err)
			}
			printOutput(formatter.FormatMessage(fmt.Sprintf("Wrote %s", path)))
		},
	}
	cmd.Flags().BoolVar(&project, "project", false, "Write the project config instead of the global one")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := loadConfig()
			if err != nil {
				printError(err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				printError(fmt.Errorf("failed to marshal config: %w", err))
			}
			printOutput(string(data))
		},
	}
}
