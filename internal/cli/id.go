package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcnlab/railvos/internal/ident"
)

// IDOptions holds flags for the id command.
type IDOptions struct {
	Count int
}

// NewIDCommand creates the id command, which prints freshly generated
// unique identifiers.
func NewIDCommand(root *RootOptions) *cobra.Command {
	opts := &IDOptions{}

	cmd := &cobra.Command{
		Use:   "id",
		Short: "Generate unique identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", opts.Count)
			}

			gen := ident.NewGenerator(nil, root.Logger())
			for i := 0; i < opts.Count; i++ {
				fmt.Fprintln(cmd.OutOrStdout(), gen.Generate())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of identifiers to generate")

	return cmd
}
