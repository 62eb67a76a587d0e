package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Output string
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to YAML or JSON",
		Long: `Write every task to stdout or a file.

The format defaults to YAML. When --output is given without --format, the
format is taken from the file extension (.json, .yaml or .yml).

Examples:
  # Print tasks as YAML
  todo export

  # Save a JSON backup
  todo export -o tasks.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := usecase.FormatYAML
			switch {
			case opts.Format != "":
				f, err := usecase.ParseFormat(opts.Format)
				if err != nil {
					return err
				}
				format = f
			case opts.Output != "":
				format = usecase.FormatFromPath(opts.Output)
			}

			uc := c.ExportTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ExportTasksInput{Format: format})
			if err != nil {
				return err
			}

			if opts.Output == "" {
				_, _ = cmd.OutOrStdout().Write(out.Data)
				return nil
			}

			if err := os.WriteFile(opts.Output, out.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.Output, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", out.Count, opts.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format: yaml or json")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import tasks from YAML or JSON",
		Long: `Add the tasks of an exported document to the list.

Every imported task gets a new id and keeps its title, favorite flag and
completion state. Use "-" to read from stdin.

Examples:
  # Restore a backup
  todo import tasks.json

  # Check a document without storing anything
  todo import --dry-run tasks.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var data []byte
			var err error
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			format := usecase.FormatFromPath(path)
			if opts.Format != "" {
				format, err = usecase.ParseFormat(opts.Format)
				if err != nil {
					return err
				}
			}

			uc := c.ImportTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportTasksInput{
				Format: format,
				Data:   data,
				DryRun: opts.DryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.DryRun {
				_, _ = fmt.Fprintf(w, "Would import %d tasks\n", len(out.Tasks))
				for _, task := range out.Tasks {
					_, _ = fmt.Fprintf(w, "  %s\n", task.Title)
				}
				return nil
			}
			_, _ = fmt.Fprintf(w, "Imported %d tasks\n", len(out.Tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "Input format: yaml or json (default: from extension)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate without storing")

	return cmd
}
