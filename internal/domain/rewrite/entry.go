package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	m "github.com/mouse-blink/esmify/internal/model"
)

// ErrStructural is wrapped by every StructuralError.
var ErrStructural = errors.New("entry module cannot be restructured")

const (
	extensionBaseClass = "Extension"
	fallbackClassName  = "MigratedExtension"
	functionKeyword    = "function"
	asyncKeyword       = "async"
)

// StructuralError reports an entry module without the expected shape.
type StructuralError struct {
	Offset int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", ErrStructural, e.Offset, e.Reason)
	}

	return fmt.Sprintf("%s: %s", ErrStructural, e.Reason)
}

func (e *StructuralError) Unwrap() error {
	return ErrStructural
}

// HoistAdvisory is emitted when statements found between function blocks are
// moved above the generated class.
func HoistAdvisory(file string) string {
	return fmt.Sprintf("Review statements moved out of the entry class in %s", file)
}

// Restructure wraps the top-level function declarations of an entry module in
// `export default class <Name> extends Extension`. The span from the first to
// the last block is replaced in one edit; text around it is kept.
func Restructure(buf []byte, dirName string, rules Rules) (m.EntryClassPlan, []byte, error) {
	blocks, err := FindFunctionBlocks(buf)
	if err != nil {
		return m.EntryClassPlan{}, nil, err
	}

	if len(blocks) == 0 {
		return m.EntryClassPlan{}, nil, &StructuralError{Offset: -1, Reason: "no top-level function declarations found"}
	}

	className := ClassName(dirName)
	plan := m.EntryClassPlan{
		ClassName: className,
		Blocks:    blocks,
		Prologue: fmt.Sprintf("import { %s, gettext as _ } from '%s';\n\nexport default class %s extends %s {\n",
			extensionBaseClass, rules.ExtensionImport, className, extensionBaseClass),
		Epilogue: "\n}",
	}

	methods := make([]string, 0, len(blocks))

	for i, b := range blocks {
		if i > 0 {
			if gap := strings.TrimSpace(string(buf[blocks[i-1].End:b.Start])); gap != "" {
				plan.Hoisted = append(plan.Hoisted, gap)
			}
		}

		methods = append(methods, methodFromDeclaration(string(buf[b.Start:b.End])))
	}

	var body strings.Builder
	for _, h := range plan.Hoisted {
		body.WriteString(h)
		body.WriteString("\n\n")
	}

	body.WriteString(plan.Prologue)
	body.WriteString(strings.Join(methods, "\n\n"))
	body.WriteString(plan.Epilogue)

	out, err := Apply(buf, []Edit{{
		Start:   blocks[0].Start,
		End:     blocks[len(blocks)-1].End,
		NewText: body.String(),
	}})
	if err != nil {
		return m.EntryClassPlan{}, nil, err
	}

	return plan, out, nil
}

// ClassName derives the entry class name from the extension directory name:
// the leading identifier before any "@uuid" suffix, capitalized.
func ClassName(dirName string) string {
	segment, _, _ := strings.Cut(dirName, "@")

	end := 0
	for end < len(segment) && isIdentByte(segment[end]) {
		end++
	}

	segment = segment[:end]
	if segment == "" || isDigit(segment[0]) {
		return fallbackClassName
	}

	return cases.Title(language.Und, cases.NoLower).String(segment)
}

// methodFromDeclaration drops the function keyword so the block reads as a
// class method. An async prefix is kept.
func methodFromDeclaration(decl string) string {
	prefix := ""
	if rest, ok := strings.CutPrefix(decl, asyncKeyword); ok {
		prefix = asyncKeyword + " "
		decl = strings.TrimLeft(rest, " \t")
	}

	rest := strings.TrimLeft(strings.TrimPrefix(decl, functionKeyword), " \t\r\n")
	if strings.HasPrefix(rest, "*") {
		rest = "*" + strings.TrimLeft(rest[1:], " \t\r\n")
	}

	return prefix + rest
}
