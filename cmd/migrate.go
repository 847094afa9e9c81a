package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/esmify/internal/domain"
)

var migrateParallelFlag int
var migrateWriteFlag bool
var migrateShowDiffFlag bool
var migrateExcludeFlags []string

// migrateCmd represents the migrate command.
var migrateCmd = newMigrateCmd()

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [dir]",
		Short: "Rewrite legacy imports to ES modules",
		Long:  migrateLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Migrate(cmd.Context(), domain.MigrateArgs{
				EstimateArgs: domain.EstimateArgs{
					Dir:     targetDir(args),
					Exclude: migrateExcludeFlags,
				},
				Reports:  reportsDir(cmd),
				Threads:  threads(cmd, migrateParallelFlag),
				Write:    migrateWriteFlag,
				ShowDiff: migrateShowDiffFlag,
			})
		},
	}
	cmd.Flags().IntVarP(&migrateParallelFlag, "parallel", "p", 1, "number of files migrated in parallel")
	cmd.Flags().BoolVarP(&migrateWriteFlag, "write", "w", false, "write the rewritten files back instead of a dry run")
	cmd.Flags().BoolVar(&migrateShowDiffFlag, "show-diff", false, "print every replaced declaration")
	cmd.Flags().StringArrayVarP(&migrateExcludeFlags, "exclude", "x", nil, "exclude files matching a gitignore pattern (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

const migrateLongDescription = `Rewrite every legacy imports.* declaration of the extension directory.

The entry module (extension.js by default) is restructured first: its
top-level functions become methods of an exported class extending
Extension. Every other script is then rewritten in parallel. Files that
must be ported by hand (prefs.js by default) are skipped with an advisory.

Unhandled declarations are left untouched and listed in the report.`
