package rewrite

import (
	"bytes"
	"iter"
	"regexp"
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

// declarationPattern matches `<kw> <binding> = [Me.]imports[.<path>][(...)][;]`.
// The trailing semicolon belongs to the span so a rewrite never leaves one behind.
var declarationPattern = regexp.MustCompile(
	`\b(?P<keyword>const|let|var)\s+` +
		`(?P<bindings>\{[\w\s,$]*\}|[\w$]+)\s*=\s*` +
		`(?P<local>Me\.)?imports\b(?P<path>(?:\.[\w$]+)*)` +
		`(?P<call>\([^\n;]*)?` +
		`[ \t]*;?`)

var (
	keywordGroup  = declarationPattern.SubexpIndex("keyword")
	bindingsGroup = declarationPattern.SubexpIndex("bindings")
	localGroup    = declarationPattern.SubexpIndex("local")
	pathGroup     = declarationPattern.SubexpIndex("path")
	callGroup     = declarationPattern.SubexpIndex("call")
)

// Matches lazily yields every legacy declaration in buf ordered by start
// offset. Ranging over it twice yields the same spans.
func Matches(buf []byte) iter.Seq[m.MatchSpan] {
	return func(yield func(m.MatchSpan) bool) {
		line, lineOffset := 1, 0

		for _, loc := range declarationPattern.FindAllSubmatchIndex(buf, -1) {
			line += bytes.Count(buf[lineOffset:loc[0]], []byte{'\n'})
			lineOffset = loc[0]

			span := m.MatchSpan{
				Start:    loc[0],
				End:      loc[1],
				Line:     line,
				Captures: capturesFor(buf, loc),
			}
			if !yield(span) {
				return
			}
		}
	}
}

// Scan collects Matches into a slice.
func Scan(buf []byte) []m.MatchSpan {
	var spans []m.MatchSpan
	for span := range Matches(buf) {
		spans = append(spans, span)
	}

	return spans
}

func capturesFor(buf []byte, loc []int) m.Captures {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}

		return string(buf[loc[2*i]:loc[2*i+1]])
	}

	bindings := group(bindingsGroup)

	return m.Captures{
		Keyword:  group(keywordGroup),
		Bindings: bindings,
		Names:    splitBindings(bindings),
		Path:     strings.TrimPrefix(group(pathGroup), "."),
		Call:     strings.TrimSpace(group(callGroup)),
		Local:    group(localGroup) != "",
	}
}

// splitBindings returns the identifiers of a bare or brace-delimited binding.
func splitBindings(bindings string) []string {
	trimmed := strings.TrimSpace(bindings)
	trimmed = strings.TrimPrefix(trimmed, "{")
	trimmed = strings.TrimSuffix(trimmed, "}")

	var names []string

	for _, part := range strings.Split(trimmed, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		names = append(names, name)
	}

	return names
}
