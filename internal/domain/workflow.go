// Package domain drives the migration of an extension directory: it lists the
// candidate files, runs the rewrite engine over them and reports the result.
package domain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/esmify/internal/adapter"
	"github.com/mouse-blink/esmify/internal/controller"
	"github.com/mouse-blink/esmify/internal/domain/rewrite"
	m "github.com/mouse-blink/esmify/internal/model"
)

// ErrInvalidDirectory is returned when the target is missing or not a directory.
var ErrInvalidDirectory = errors.New("invalid extension directory")

// ManualAdvisory names a file that is left out of the import pass.
func ManualAdvisory(name string) string {
	return name + " must be migrated manually"
}

// Layout describes which files of an extension directory take part in a run.
type Layout struct {
	EntryFile   string
	ScriptExt   string
	ManualFiles []string
}

// EstimateArgs selects the candidate files of a run.
type EstimateArgs struct {
	Dir     m.Path
	Exclude []string
}

// MigrateArgs configures a migration run.
type MigrateArgs struct {
	EstimateArgs
	Reports  m.Path
	Threads  int
	Write    bool
	ShowDiff bool
}

// ViewArgs locates a saved report.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the operations behind the CLI commands.
type Workflow interface {
	Estimate(args EstimateArgs) error
	Migrate(ctx context.Context, args MigrateArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	reportStore adapter.ReportStore
	ui          controller.UI
	migrator    Migrator
	layout      Layout
	rules       rewrite.Rules
	log         zerolog.Logger
	now         func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	migrator Migrator,
	layout Layout,
	rules rewrite.Rules,
	log zerolog.Logger,
) Workflow {
	return &workflow{
		fsAdapter:   fsAdapter,
		reportStore: reportStore,
		ui:          ui,
		migrator:    migrator,
		layout:      layout,
		rules:       rules,
		log:         log,
		now:         time.Now,
	}
}

// Estimate counts the legacy declarations of every candidate file.
func (w *workflow) Estimate(args EstimateArgs) error {
	if err := w.ui.Start(controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	candidates, manual, err := w.candidates(args.Dir, args.Exclude)
	if err != nil {
		return w.ui.DisplayEstimation(nil, err)
	}

	estimates := make([]m.Estimate, 0, len(candidates)+len(manual))

	for _, c := range candidates {
		estimates = append(estimates, w.estimate(c))
	}

	for _, name := range manual {
		estimates = append(estimates, m.Estimate{Path: w.fsAdapter.JoinPath(string(args.Dir), name), Manual: true})
	}

	if err := w.ui.DisplayEstimation(estimates, nil); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}

func (w *workflow) estimate(c m.Candidate) m.Estimate {
	est := m.Estimate{Path: c.Path, Entry: c.Entry, Counts: make(map[m.Dialect]int)}

	buf, err := w.fsAdapter.ReadFile(c.Path)
	if err != nil {
		est.Err = err

		return est
	}

	for span := range rewrite.Matches(buf) {
		est.Counts[rewrite.Classify(span.Captures, w.rules)]++
		est.Total++
	}

	if c.Entry {
		blocks, err := rewrite.FindFunctionBlocks(buf)
		if err != nil {
			est.Err = err
		}

		est.Blocks = len(blocks)
	}

	return est
}

// Migrate rewrites every candidate file. The entry module goes first so the
// other files know whether the extension class exists.
func (w *workflow) Migrate(ctx context.Context, args MigrateArgs) error {
	candidates, manual, err := w.candidates(args.Dir, args.Exclude)
	if err != nil {
		return err
	}

	threads := max(args.Threads, 1)

	if err := w.ui.Start(controller.WithMigrateMode(), controller.WithDiff(args.ShowDiff)); err != nil {
		return err
	}
	defer w.ui.Close()

	w.ui.DisplayRunInfo(controller.RunInfo{
		Directory: args.Dir,
		Files:     len(candidates),
		Manual:    manual,
		Threads:   threads,
		Write:     args.Write,
	})

	results, err := w.migrateAll(ctx, args.Dir, candidates, threads)
	if err != nil {
		return err
	}

	builder := NewReportBuilder(args.Dir)
	for _, name := range manual {
		builder.AddAdvisories(ManualAdvisory(name))
	}

	for i := range results {
		if args.Write {
			w.write(&results[i])
		}

		builder.Add(results[i])
		w.ui.DisplayFileResult(results[i])
	}

	report := builder.Build()
	report.Written = args.Write
	report.GeneratedAt = w.now().UTC()

	if err := w.ui.DisplayReport(report); err != nil {
		return err
	}

	if err := w.reportStore.SaveReport(args.Reports, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	w.log.Debug().Str("reports", string(args.Reports)).Msg("report saved")

	return nil
}

// migrateAll returns one result per candidate, in candidate order.
func (w *workflow) migrateAll(ctx context.Context, dir m.Path, candidates []m.Candidate, threads int) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(candidates))

	extensionClass := ""

	if i := slices.IndexFunc(candidates, func(c m.Candidate) bool { return c.Entry }); i >= 0 {
		results[i] = w.migrateOne(candidates[i], func(src m.SourceFile) m.FileResult {
			return w.migrator.MigrateEntry(src, extensionDirName(dir))
		})

		if plan := results[i].Restructure; plan != nil {
			extensionClass = plan.ClassName
		}
	}

	// Results are written by index, so no locking is needed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, c := range candidates {
		if c.Entry {
			continue
		}

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = w.migrateOne(c, func(src m.SourceFile) m.FileResult {
				return w.migrator.MigrateFile(src, extensionClass)
			})

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *workflow) migrateOne(c m.Candidate, run func(m.SourceFile) m.FileResult) m.FileResult {
	buf, err := w.fsAdapter.ReadFile(c.Path)
	if err != nil {
		w.log.Error().Str("file", c.Name).Err(err).Msg("read failed")

		return m.FileResult{
			Source: c.Path,
			Entry:  c.Entry,
			Diagnostics: []m.Diagnostic{{
				File:    c.Path,
				Kind:    m.DiagnosticIO,
				Message: err.Error(),
			}},
		}
	}

	w.log.Debug().Str("file", c.Name).Bool("entry", c.Entry).Msg("migrating")

	return run(m.SourceFile{Name: c.Name, Path: c.Path, Original: buf, Entry: c.Entry})
}

func (w *workflow) write(r *m.FileResult) {
	if !r.Changed {
		return
	}

	if err := w.fsAdapter.WriteFile(r.Source, r.Output); err != nil {
		w.log.Error().Str("file", string(r.Source)).Err(err).Msg("write failed")

		r.Diagnostics = append(r.Diagnostics, m.Diagnostic{
			File:    r.Source,
			Kind:    m.DiagnosticIO,
			Message: err.Error(),
		})
	}
}

// View renders the last saved report.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.reportStore.LoadReport(args.Reports)
	if err != nil {
		return err
	}

	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	return w.ui.DisplayReport(report)
}

// candidates lists the files of dir taking part in the import pass and the
// manual files present in it.
func (w *workflow) candidates(dir m.Path, exclude []string) ([]m.Candidate, []string, error) {
	info, err := w.fsAdapter.FileInfo(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, dir, err)
	}

	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, dir)
	}

	paths, err := w.fsAdapter.ListCandidates(dir, w.layout.ScriptExt, exclude)
	if err != nil {
		return nil, nil, err
	}

	var (
		candidates []m.Candidate
		manual     []string
	)

	for _, p := range paths {
		name := filepath.Base(string(p))

		if slices.Contains(w.layout.ManualFiles, name) {
			manual = append(manual, name)

			continue
		}

		candidates = append(candidates, m.Candidate{Name: name, Path: p, Entry: name == w.layout.EntryFile})
	}

	return candidates, manual, nil
}

func extensionDirName(dir m.Path) string {
	abs, err := filepath.Abs(string(dir))
	if err != nil {
		return filepath.Base(string(dir))
	}

	return filepath.Base(abs)
}
