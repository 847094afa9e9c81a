package model

import "time"

// Change is one replacement actually applied to a file.
type Change struct {
	Match   MatchSpan `msgpack:"-"`
	Line    int       `msgpack:"line"`
	Dialect Dialect   `msgpack:"dialect"`
	Old     string    `msgpack:"old"`
	New     string    `msgpack:"new"`
}

// ChangeLog is the ordered list of replacements applied to one file.
type ChangeLog struct {
	File    Path     `msgpack:"file"`
	Changes []Change `msgpack:"changes"`
}

// DiagnosticKind classifies a non-advisory problem found during migration.
type DiagnosticKind string

const (
	// DiagnosticUnhandled is a recognized but unsupported import; the text is kept.
	DiagnosticUnhandled DiagnosticKind = "unhandled"
	// DiagnosticStructural means the entry module could not be restructured.
	DiagnosticStructural DiagnosticKind = "structural"
	// DiagnosticIO is a read or write failure for one file.
	DiagnosticIO DiagnosticKind = "io"
)

// Diagnostic is reported once per occurrence.
type Diagnostic struct {
	File    Path           `msgpack:"file"`
	Kind    DiagnosticKind `msgpack:"kind"`
	Line    int            `msgpack:"line"`
	Message string         `msgpack:"message"`
	Text    string         `msgpack:"text"`
}

// FileResult holds the outcome of migrating a single source file.
type FileResult struct {
	Source      Path
	Entry       bool
	Restructure *EntryClassPlan
	Changes     []Change
	Diagnostics []Diagnostic
	Advisories  []string
	Output      []byte
	Changed     bool
}

// FileSummary is the persisted per-file part of a Report.
type FileSummary struct {
	Path         Path `msgpack:"path"`
	Entry        bool `msgpack:"entry"`
	Restructured bool `msgpack:"restructured"`
	Replacements int  `msgpack:"replacements"`
}

// Report aggregates a migration run for operator review.
type Report struct {
	Directory         Path          `msgpack:"directory"`
	TotalReplacements int           `msgpack:"total_replacements"`
	FilesChanged      int           `msgpack:"files_changed"`
	TotalFiles        int           `msgpack:"total_files"`
	Advisories        []string      `msgpack:"advisories"`
	Diagnostics       []Diagnostic  `msgpack:"diagnostics"`
	Files             []FileSummary `msgpack:"files"`
	ChangeLogs        []ChangeLog   `msgpack:"change_logs"`
	Written           bool          `msgpack:"written"`
	GeneratedAt       time.Time     `msgpack:"generated_at"`
}

// Estimate counts legacy declarations per dialect for one candidate file.
type Estimate struct {
	Path   Path
	Entry  bool
	Manual bool
	Counts map[Dialect]int
	Total  int
	// Blocks is the number of top-level functions the entry class would get.
	Blocks int
	Err    error
}
