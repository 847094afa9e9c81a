// Package cmd provides the root command and CLI setup for esmify.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/esmify/internal/adapter"
	"github.com/mouse-blink/esmify/internal/config"
	"github.com/mouse-blink/esmify/internal/controller"
	"github.com/mouse-blink/esmify/internal/domain"
	"github.com/mouse-blink/esmify/internal/logging"
	m "github.com/mouse-blink/esmify/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var ui controller.UI

// workflow is built from the loaded config before a command runs, unless
// one was injected already.
var workflow domain.Workflow
var settings = config.Default()
var logger = logging.Nop()

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
}

var configFlag string
var reportsOutputDirFlag string
var logLevelFlag string

var listFlag bool
var writeFlag bool
var showDiffFlag bool
var parallelFlag int
var excludeFlags []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "esmify [dir]",
		Short:             "Migrate GNOME Shell extensions to ES modules",
		Long:              rootLongDescription,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: prepare,
		RunE: func(cmd *cobra.Command, args []string) error {
			estimateArgs := domain.EstimateArgs{
				Dir:     targetDir(args),
				Exclude: excludeFlags,
			}
			if listFlag {
				return workflow.Estimate(estimateArgs)
			}

			return workflow.Migrate(cmd.Context(), domain.MigrateArgs{
				EstimateArgs: estimateArgs,
				Reports:      reportsDir(cmd),
				Threads:      threads(cmd, parallelFlag),
				Write:        writeFlag,
				ShowDiff:     showDiffFlag,
			})
		},
	}
	cmd.Flags().BoolVarP(&listFlag, "list", "l", false, "list candidate files and their legacy import counts")
	cmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "write the rewritten files back instead of a dry run")
	cmd.Flags().BoolVar(&showDiffFlag, "show-diff", false, "print every replaced declaration")
	cmd.Flags().IntVarP(&parallelFlag, "parallel", "p", 1, "number of files migrated in parallel")
	cmd.Flags().StringArrayVarP(&excludeFlags, "exclude", "x", nil, "exclude files matching a gitignore pattern (can be repeated)")

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default <dir>/"+config.FileName+")")
	cmd.PersistentFlags().StringVarP(&reportsOutputDirFlag, "reports", "r", config.DefaultReportsDir, "directory for saved reports")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

// prepare loads the config of the target directory and wires the workflow.
func prepare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag, string(targetDir(args)))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}

	settings = cfg
	logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

	if workflow == nil {
		workflow = newWorkflow(cfg, logger)
	}

	return nil
}

func newWorkflow(cfg config.Config, log zerolog.Logger) domain.Workflow {
	return domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		domain.NewMigrator(cfg.Rules(), log),
		cfg.Layout(),
		cfg.Rules(),
		log,
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func targetDir(args []string) m.Path {
	if len(args) == 0 {
		return m.Path(".")
	}

	return m.Path(args[0])
}

// reportsDir prefers the flag, then the config file.
func reportsDir(cmd *cobra.Command) m.Path {
	if cmd.Flags().Changed("reports") {
		return m.Path(reportsOutputDirFlag)
	}

	return m.Path(settings.ReportsDir)
}

// threads prefers the flag, then the config file.
func threads(cmd *cobra.Command, flag int) int {
	if cmd.Flags().Changed("parallel") {
		return flag
	}

	return settings.Parallel
}

const rootLongDescription = `esmify rewrites a legacy GNOME Shell extension, whose files reach each
other through the ambient imports object, into the ES module syntax the
GNOME 45 loader requires.

Without --write the run is a dry run: the report is printed and saved,
but no file is touched.

Examples:
  esmify --list ./my-extension@example.org
  esmify --show-diff ./my-extension@example.org
  esmify --write -p 4 -x 'vendor-*.js' ./my-extension@example.org`
