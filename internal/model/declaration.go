package model

// Dialect is the closed set of shapes a legacy import declaration can take.
type Dialect int

const (
	// DialectUnhandled is import-shaped but outside every rewrite rule.
	DialectUnhandled Dialect = iota
	// DialectLocalSibling reaches a file of the same extension through Me.imports.
	DialectLocalSibling
	// DialectCurrentExtension is the extensionUtils.getCurrentExtension() accessor.
	DialectCurrentExtension
	// DialectGettextDomain is imports.gettext.domain(...).
	DialectGettextDomain
	// DialectVersionedLibrary is a native binding under imports.gi.
	DialectVersionedLibrary
	// DialectPlatformModule is any other shell module path (imports.ui.main, ...).
	DialectPlatformModule
)

// Dialects lists the dialects in display order.
var Dialects = []Dialect{
	DialectLocalSibling,
	DialectCurrentExtension,
	DialectGettextDomain,
	DialectVersionedLibrary,
	DialectPlatformModule,
	DialectUnhandled,
}

func (d Dialect) String() string {
	switch d {
	case DialectLocalSibling:
		return "local"
	case DialectCurrentExtension:
		return "current-extension"
	case DialectGettextDomain:
		return "gettext"
	case DialectVersionedLibrary:
		return "gi"
	case DialectPlatformModule:
		return "platform"
	case DialectUnhandled:
		return "unhandled"
	}

	return "unknown"
}

// Captures holds the fields the scanner extracted from one declaration.
type Captures struct {
	Keyword  string   // const, let or var
	Bindings string   // raw binding form as written, e.g. "{ Gio, GLib }"
	Names    []string // bound identifiers in order
	Path     string   // dotted path after "imports."
	Call     string   // call suffix starting at "(", empty when absent
	Local    bool     // path was reached through Me.imports
}

// MatchSpan is one declaration found by the scanner. Start and End are byte
// offsets into the buffer that was scanned.
type MatchSpan struct {
	Start    int
	End      int
	Line     int
	Captures Captures
}

// VersionDirective pins a native library to a version, e.g.
// imports.gi.versions.Gio = "2.0".
type VersionDirective struct {
	Library string
	Version string
	Start   int
	End     int
}

// RewriteResult is the replacement text for one MatchSpan. An empty Text
// deletes the declaration.
type RewriteResult struct {
	Text       string
	Advisories []string
}

// BlockSpan is a top-level function declaration found in the entry module.
type BlockSpan struct {
	Name  string
	Start int
	End   int
}

// EntryClassPlan describes how the entry module is wrapped into a class.
type EntryClassPlan struct {
	ClassName string
	Blocks    []BlockSpan
	Prologue  string
	Epilogue  string
	// Hoisted is the non-blank text found between blocks, moved above the class.
	Hoisted []string
}
