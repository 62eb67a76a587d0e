package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/todo/internal/app"
	"github.com/runoshun/todo/internal/usecase"
)

// errStoreInvalid is returned when the stored blob fails validation.
var errStoreInvalid = errors.New("stored tasks are invalid")

// newCheckCommand creates the check command.
func newCheckCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the stored task list",
		Long: `Validate the stored task list against its schema.

Each problem is printed with the JSON path of the offending value.
Exits with an error when any problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.CheckStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.CheckStoreInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.OK() {
				_, _ = fmt.Fprintln(w, "Store is valid")
				return nil
			}

			for _, p := range out.Problems {
				path := p.Path
				if path == "" {
					path = "(root)"
				}
				_, _ = fmt.Fprintf(w, "%s: %s\n", path, p.Message)
			}
			return fmt.Errorf("%w: %d problems", errStoreInvalid, len(out.Problems))
		},
	}
	return cmd
}
