package domain

import (
	"bytes"
	"errors"

	"github.com/rs/zerolog"

	"github.com/mouse-blink/esmify/internal/domain/rewrite"
	m "github.com/mouse-blink/esmify/internal/model"
)

// Migrator runs the rewrite engine over one file held in memory.
type Migrator interface {
	// MigrateEntry restructures the entry module into the extension class and
	// then rewrites its imports. When restructuring fails the imports are
	// still rewritten, without a class context.
	MigrateEntry(src m.SourceFile, dirName string) m.FileResult
	// MigrateFile rewrites the imports of a non-entry module. extensionClass
	// is the entry class name, or empty when the entry was not restructured.
	MigrateFile(src m.SourceFile, extensionClass string) m.FileResult
}

type migrator struct {
	rules rewrite.Rules
	log   zerolog.Logger
}

// NewMigrator constructs a Migrator using the given rewrite rules.
func NewMigrator(rules rewrite.Rules, log zerolog.Logger) Migrator {
	return &migrator{rules: rules, log: log}
}

func (mg *migrator) MigrateEntry(src m.SourceFile, dirName string) m.FileResult {
	result := m.FileResult{Source: src.Path, Entry: true}
	buf := src.Original

	plan, restructured, err := rewrite.Restructure(src.Original, dirName, mg.rules)

	var serr *rewrite.StructuralError

	switch {
	case errors.As(err, &serr):
		mg.log.Error().Str("file", src.Name).Err(err).Msg("entry module left unstructured")

		result.Diagnostics = append(result.Diagnostics, m.Diagnostic{
			File:    src.Path,
			Kind:    m.DiagnosticStructural,
			Line:    lineAt(src.Original, serr.Offset),
			Message: serr.Reason,
		})
	case err != nil:
		// Apply only fails on an internal offset bug; keep the file as is.
		mg.log.Error().Str("file", src.Name).Err(err).Msg("restructure failed")

		result.Diagnostics = append(result.Diagnostics, m.Diagnostic{
			File:    src.Path,
			Kind:    m.DiagnosticStructural,
			Message: err.Error(),
		})
	default:
		result.Restructure = &plan
		buf = restructured

		if len(plan.Hoisted) > 0 {
			result.Advisories = append(result.Advisories, rewrite.HoistAdvisory(src.Name))
		}

		mg.log.Debug().Str("file", src.Name).Str("class", plan.ClassName).Int("methods", len(plan.Blocks)).Msg("entry module restructured")
	}

	ctx := rewrite.Context{Rules: mg.rules, EntryModule: true}
	if result.Restructure != nil {
		ctx.ExtensionClass = result.Restructure.ClassName
	}

	mg.importPass(&result, src, buf, ctx)

	return result
}

func (mg *migrator) MigrateFile(src m.SourceFile, extensionClass string) m.FileResult {
	result := m.FileResult{Source: src.Path, Entry: src.Entry}

	mg.importPass(&result, src, src.Original, rewrite.Context{Rules: mg.rules, ExtensionClass: extensionClass})

	return result
}

func (mg *migrator) importPass(result *m.FileResult, src m.SourceFile, buf []byte, ctx rewrite.Context) {
	out, err := rewrite.RewriteImports(buf, ctx)
	if err != nil {
		mg.log.Error().Str("file", src.Name).Err(err).Msg("import pass failed")

		result.Diagnostics = append(result.Diagnostics, m.Diagnostic{
			File:    src.Path,
			Kind:    m.DiagnosticUnhandled,
			Message: err.Error(),
		})
		result.Output = buf
		result.Changed = !bytes.Equal(buf, src.Original)

		return
	}

	for _, span := range out.Unhandled {
		text := string(buf[span.Start:span.End])

		mg.log.Warn().Str("file", src.Name).Int("line", span.Line).Str("text", text).Msg("unhandled import")

		result.Diagnostics = append(result.Diagnostics, m.Diagnostic{
			File:    src.Path,
			Kind:    m.DiagnosticUnhandled,
			Line:    span.Line,
			Message: "unhandled import",
			Text:    text,
		})
	}

	result.Changes = append(result.Changes, out.Changes...)
	result.Advisories = append(result.Advisories, out.Advisories...)
	result.Output = out.Output
	result.Changed = !bytes.Equal(out.Output, src.Original)

	mg.log.Debug().Str("file", src.Name).Int("changes", len(out.Changes)).Msg("imports rewritten")
}

// lineAt returns the 1-based line of offset in buf, or 0 for a negative offset.
func lineAt(buf []byte, offset int) int {
	if offset < 0 {
		return 0
	}

	offset = min(offset, len(buf))

	return bytes.Count(buf[:offset], []byte{'\n'}) + 1
}
