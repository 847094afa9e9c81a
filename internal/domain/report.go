package domain

import (
	m "github.com/mouse-blink/esmify/internal/model"
)

// ReportBuilder accumulates per-file results into a Report. It never changes
// the results it is given.
type ReportBuilder struct {
	directory    m.Path
	advisories   *AdvisorySet
	diagnostics  []m.Diagnostic
	files        []m.FileSummary
	logs         []m.ChangeLog
	replacements int
	changed      int
}

// NewReportBuilder starts a report for the extension directory dir.
func NewReportBuilder(dir m.Path) *ReportBuilder {
	return &ReportBuilder{
		directory:  dir,
		advisories: NewAdvisorySet(),
	}
}

// AddAdvisories records run-level advisories, such as manual-migration notes.
func (b *ReportBuilder) AddAdvisories(advisories ...string) {
	b.advisories.Add(advisories...)
}

// Add records the result of one candidate file. Files must be added in the
// order they should appear in the report.
func (b *ReportBuilder) Add(r m.FileResult) {
	b.replacements += len(r.Changes)
	if len(r.Changes) > 0 {
		b.changed++
	}

	b.advisories.Add(r.Advisories...)
	b.diagnostics = append(b.diagnostics, r.Diagnostics...)
	b.files = append(b.files, m.FileSummary{
		Path:         r.Source,
		Entry:        r.Entry,
		Restructured: r.Restructure != nil,
		Replacements: len(r.Changes),
	})

	if len(r.Changes) > 0 {
		b.logs = append(b.logs, m.ChangeLog{File: r.Source, Changes: r.Changes})
	}
}

// Build returns the aggregated report. GeneratedAt and Written are left for
// the caller.
func (b *ReportBuilder) Build() m.Report {
	return m.Report{
		Directory:         b.directory,
		TotalReplacements: b.replacements,
		FilesChanged:      b.changed,
		TotalFiles:        len(b.files),
		Advisories:        b.advisories.Items(),
		Diagnostics:       append([]m.Diagnostic(nil), b.diagnostics...),
		Files:             append([]m.FileSummary(nil), b.files...),
		ChangeLogs:        append([]m.ChangeLog(nil), b.logs...),
	}
}
