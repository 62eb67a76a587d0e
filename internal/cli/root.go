// Package cli provides the command-line interface for todo.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/tui"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupData  = "data"
	groupSetup = "setup"
)

// annotationNeedsStorage marks commands that cannot run without the task store.
const annotationNeedsStorage = "todo/needs-storage"

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = tui.Run

// NewRootCommand creates the root command for todo.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "A small personal to-do list",
		Long: `todo keeps a personal list of short tasks.

Tasks can be marked as favorite or completed. The list is always shown with
open tasks first, favorites before the rest, and newest first.

Run without arguments to open the interactive list.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		Annotations:   map[string]string{annotationNeedsStorage: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}

			if cmd.Annotations[annotationNeedsStorage] == "true" {
				return c.RequireStorage()
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Default: launch TUI
			return launchTUIFunc(c)
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	taskCmds := []*cobra.Command{
		newAddCommand(c),
		newListCommand(c),
		newFavCommand(c),
		newDoneCommand(c),
		newEditCommand(c),
		newRmCommand(c),
		newClearCommand(c),
		newTUICommand(c),
	}
	dataCmds := []*cobra.Command{
		newExportCommand(c),
		newImportCommand(c),
		newCheckCommand(c),
	}

	for _, cmd := range taskCmds {
		cmd.GroupID = groupTask
		needsStorage(cmd)
		root.AddCommand(cmd)
	}
	for _, cmd := range dataCmds {
		cmd.GroupID = groupData
		needsStorage(cmd)
		root.AddCommand(cmd)
	}

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup
	root.AddCommand(configCmd)

	return root
}

// needsStorage annotates cmd so the root pre-run checks the task store.
func needsStorage(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationNeedsStorage] = "true"
}
