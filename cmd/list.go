package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/esmify/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()
var listExcludeFlags []string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List candidate files and legacy import counts",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Estimate(domain.EstimateArgs{
				Dir:     targetDir(args),
				Exclude: listExcludeFlags,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&listExcludeFlags, "exclude", "x", nil, "exclude files matching a gitignore pattern (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

const listLongDescription = `List the script files of the extension directory with the number of
legacy declarations of each kind. Nothing is rewritten or saved.`
