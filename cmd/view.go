package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/esmify/internal/domain"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the last migration report",
		Long:  "View the last migration report saved in the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.View(domain.ViewArgs{Reports: reportsDir(cmd)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
