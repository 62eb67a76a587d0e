package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
)

// newTUICommand creates the tui command for launching the interactive TUI.
// Running `todo` without arguments does the same.
func newTUICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive TUI",
		Long: `Launch the interactive terminal user interface.

Keys:
  a       add a task
  space   complete / reopen the selected task
  f       favorite / unfavorite the selected task
  d       delete the selected task
  D       delete every task
  r       reload from storage
  ?       help
  q       quit`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
	return cmd
}
