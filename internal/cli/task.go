package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/domain"
	"github.com/runoshun/todo/internal/usecase"
)

// createdLayout is the local time format used in listings.
const createdLayout = "2006-01-02 15:04"

// newAddCommand creates the add command for creating tasks.
func newAddCommand(c *app.Container) *cobra.Command {
	var favorite bool

	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task",
		Long: `Add a new task. Arguments are joined with spaces to form the title.

Titles are trimmed and must be 1 to 100 characters long.

Examples:
  # Add a task
  todo add Buy milk

  # Add a favorite task
  todo add --favorite "Call Mom"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.AddTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AddTaskInput{
				Title:    strings.Join(args, " "),
				Favorite: favorite,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", out.Task.ShortID(), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&favorite, "favorite", "f", false, "Mark the task as favorite")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `Display tasks in display order: open before completed, favorites
before the rest, newest first.

Output is tab-aligned with columns:
  ID, DONE, FAV, CREATED, TITLE

A summary line with counts and completion progress follows the table.

Examples:
  # List every task
  todo list

  # List only open tasks
  todo list --filter active`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Filter: domain.TaskFilter(filter),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Summary.Total == 0 {
				_, _ = fmt.Fprintln(w, out.Summary.Headline())
				return nil
			}
			printTaskList(w, out.Tasks)
			_, _ = fmt.Fprintf(w, "\n%s (%d%% complete)\n", out.Summary.Headline(), out.Summary.Progress())
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(domain.FilterAll), "Filter: all, active, completed, favorites")

	return cmd
}

// printTaskList prints tasks in aligned columns.
func printTaskList(w io.Writer, tasks []domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tFAV\tCREATED\tTITLE")

	// Rows
	for _, task := range tasks {
		done := " "
		if task.Completed {
			done = "x"
		}
		fav := " "
		if task.IsFavorite {
			fav = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\t%s\n",
			task.ShortID(),
			done,
			fav,
			task.CreatedAt.Local().Format(createdLayout),
			task.Title,
		)
	}
}

// newFavCommand creates the fav command for toggling the favorite flag.
func newFavCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a task's favorite flag",
		Long: `Toggle the favorite flag of a task.

The id may be abbreviated to any unique prefix, as shown by 'todo list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ToggleFavoriteUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ToggleFavoriteInput{TaskRef: args[0]})
			if err != nil {
				return err
			}

			verb := "Unfavorited"
			if out.Task.IsFavorite {
				verb = "Favorited"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", verb, out.Task.ShortID(), out.Task.Title)
			return nil
		},
	}
	return cmd
}

// newDoneCommand creates the done command for toggling completion.
func newDoneCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion",
		Long: `Mark an open task as completed, or reopen a completed task.

The id may be abbreviated to any unique prefix, as shown by 'todo list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ToggleCompleteUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ToggleCompleteInput{TaskRef: args[0]})
			if err != nil {
				return err
			}

			verb := "Reopened"
			if out.Task.Completed {
				verb = "Completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", verb, out.Task.ShortID(), out.Task.Title)
			return nil
		},
	}
	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title    string
		Favorite bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Change a task's title or favorite flag.

Only the flags that are given are changed.

Examples:
  # Rename a task
  todo edit 1f0c --title "Buy oat milk"

  # Clear the favorite flag
  todo edit 1f0c --favorite=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.EditTaskInput{TaskRef: args[0]}
			if cmd.Flags().Changed("title") {
				input.Title = &opts.Title
			}
			if cmd.Flags().Changed("favorite") {
				input.Favorite = &opts.Favorite
			}

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", out.Task.ShortID(), out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().BoolVarP(&opts.Favorite, "favorite", "f", false, "Set the favorite flag")

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete a task permanently.

The id may be abbreviated to any unique prefix, as shown by 'todo list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.DeleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskRef: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", out.Task.ShortID(), out.Task.Title)
			return nil
		},
	}
	return cmd
}

// errClearNotConfirmed is returned when clear runs without --yes.
var errClearNotConfirmed = errors.New("refusing to delete every task without --yes")

// newClearCommand creates the clear command for deleting every task.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Long:  `Delete every task. Requires --yes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errClearNotConfirmed
			}

			uc := c.ClearTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ClearTasksInput{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d tasks\n", out.Removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting every task")

	return cmd
}
