package rewrite

import (
	"errors"
	"fmt"

	m "github.com/mouse-blink/esmify/internal/model"
)

// Outcome is the result of one import pass over a buffer.
type Outcome struct {
	Output     []byte
	Changes    []m.Change
	Unhandled  []m.MatchSpan
	Advisories []string
}

// RewriteImports runs scanner, classifier and synthesizer over buf and
// materializes every replacement in one edit. Directives are read from buf
// itself; ctx.Directives is ignored. Unhandled declarations are returned
// and their text is left as is.
func RewriteImports(buf []byte, ctx Context) (Outcome, error) {
	directives := ScanDirectives(buf)
	ctx.Directives = NewDirectiveTable(directives)

	var (
		out   Outcome
		edits []Edit
	)

	if len(directives) > 0 {
		out.Advisories = append(out.Advisories, DirectiveAdvisory)
	}

	for span := range Matches(buf) {
		dialect := Classify(span.Captures, ctx.Rules)

		result, err := Synthesize(span.Captures, dialect, ctx)
		if errors.Is(err, ErrUnhandled) {
			out.Unhandled = append(out.Unhandled, span)

			continue
		}

		if err != nil {
			return Outcome{}, fmt.Errorf("line %d: %w", span.Line, err)
		}

		old := string(buf[span.Start:span.End])
		edits = append(edits, Edit{Start: span.Start, End: span.End, NewText: result.Text})
		out.Changes = append(out.Changes, m.Change{
			Match:   span,
			Line:    span.Line,
			Dialect: dialect,
			Old:     old,
			New:     result.Text,
		})
		out.Advisories = append(out.Advisories, result.Advisories...)
	}

	output, err := Apply(buf, edits)
	if err != nil {
		return Outcome{}, err
	}

	out.Output = output

	return out, nil
}
