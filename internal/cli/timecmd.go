package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcnlab/railvos/internal/timeval"
)

// NewTimeCommand creates the time command, which prints the current
// VOS timestamp string.
func NewTimeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "time",
		Short: "Print the current timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(timeval.Stamp()))
			return nil
		},
	}
}
