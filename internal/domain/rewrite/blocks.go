package rewrite

import (
	"errors"
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

var errUnbalanced = errors.New("unbalanced delimiters")

// FindFunctionBlocks returns every top-level `function name(...) {...}`
// declaration in buf, including `async function` ones. Parentheses and braces
// are matched by counting, with comments, string, template and regex literals
// skipped, so nesting depth is unbounded. An unterminated declaration is a
// StructuralError.
func FindFunctionBlocks(buf []byte) ([]m.BlockSpan, error) {
	w := walker{buf: buf}

	var blocks []m.BlockSpan

	depth := 0
	// last is the previous significant byte at any depth; 0 at file start.
	var last byte
	// newline is set when a line break follows last.
	newline := false

	for i := 0; i < len(buf); {
		if j, ok := w.skipLiteral(i, last); ok {
			if !w.isComment(i) {
				last = literalEnd
				newline = false
			}

			i = j

			continue
		}

		c := buf[i]

		switch {
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case isIdentByte(c) && !isDigit(c):
			j := w.identEnd(i)

			if depth == 0 && startsStatement(last, newline) {
				if kwEnd, ok := w.declarationKeyword(i, j); ok {
					block, found, err := w.functionAt(i, kwEnd)
					if err != nil {
						return nil, err
					}

					if found {
						blocks = append(blocks, block)
						last = '}'
						newline = false
						i = block.End

						continue
					}
				}
			}

			last = lastOfWord(buf[i:j])
			newline = false
			i = j

			continue
		}

		switch {
		case c == '\n':
			newline = true
		case !isSpace(c):
			last = c
			newline = false
		}

		i++
	}

	return blocks, nil
}

type walker struct {
	buf []byte
}

// declarationKeyword reports whether the word buf[start:end] opens a function
// declaration and returns the end of its function keyword. `async` counts
// only when `function` follows on the same line.
func (w walker) declarationKeyword(start, end int) (int, bool) {
	switch string(w.buf[start:end]) {
	case functionKeyword:
		return end, true
	case asyncKeyword:
		k := end
		for k < len(w.buf) && (w.buf[k] == ' ' || w.buf[k] == '\t') {
			k++
		}

		if k > end && w.identEnd(k) == k+len(functionKeyword) && string(w.buf[k:k+len(functionKeyword)]) == functionKeyword {
			return k + len(functionKeyword), true
		}
	}

	return 0, false
}

// functionAt parses a declaration whose keyword spans buf[start:kwEnd].
// ok is false when the keyword does not begin a named declaration.
func (w walker) functionAt(start, kwEnd int) (m.BlockSpan, bool, error) {
	k := w.skipSpace(kwEnd)
	if k < len(w.buf) && w.buf[k] == '*' {
		k = w.skipSpace(k + 1)
	}

	nameStart := k
	for k < len(w.buf) && isIdentByte(w.buf[k]) {
		k++
	}

	if k == nameStart || isDigit(w.buf[nameStart]) {
		return m.BlockSpan{}, false, nil
	}

	name := string(w.buf[nameStart:k])

	k = w.skipSpace(k)
	if k >= len(w.buf) || w.buf[k] != '(' {
		return m.BlockSpan{}, false, nil
	}

	k, err := w.matchClose(k+1, '(', ')')
	if err != nil {
		return m.BlockSpan{}, false, &StructuralError{Offset: start, Reason: "unbalanced parameter list of function " + name}
	}

	k = w.skipSpace(k)
	if k >= len(w.buf) || w.buf[k] != '{' {
		return m.BlockSpan{}, false, nil
	}

	end, err := w.matchClose(k+1, '{', '}')
	if err != nil {
		return m.BlockSpan{}, false, &StructuralError{Offset: start, Reason: "unbalanced body of function " + name}
	}

	return m.BlockSpan{Name: name, Start: start, End: end}, true, nil
}

// matchClose scans from i, just past an opening delimiter, and returns the
// index after its matching close.
func (w walker) matchClose(i int, openDelim, closeDelim byte) (int, error) {
	depth := 1
	last := openDelim

	for i < len(w.buf) {
		if j, ok := w.skipLiteral(i, last); ok {
			if !w.isComment(i) {
				last = literalEnd
			}

			i = j

			continue
		}

		c := w.buf[i]

		if isIdentByte(c) {
			j := w.identEnd(i)
			last = lastOfWord(w.buf[i:j])
			i = j

			continue
		}

		switch c {
		case openDelim:
			depth++
		case closeDelim:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}

		if !isSpace(c) {
			last = c
		}

		i++
	}

	return 0, errUnbalanced
}

// skipLiteral reports whether a comment, string, template or regex literal
// starts at i and returns the index just past it. last is the previous
// significant byte; it decides whether a slash starts a regex or divides.
func (w walker) skipLiteral(i int, last byte) (int, bool) {
	buf := w.buf

	switch buf[i] {
	case '/':
		if j, ok := w.skipComment(i); ok {
			return j, true
		}

		if regexAllowed(last) {
			return w.skipRegex(i)
		}

		return 0, false
	case '\'', '"':
		quote := buf[i]

		for j := i + 1; j < len(buf); j++ {
			switch buf[j] {
			case '\\':
				j++
			case quote, '\n':
				return j + 1, true
			}
		}

		return len(buf), true
	case '`':
		return w.skipTemplate(i + 1), true
	}

	return 0, false
}

func (w walker) isComment(i int) bool {
	_, ok := w.skipComment(i)

	return ok
}

func (w walker) skipComment(i int) (int, bool) {
	buf := w.buf
	if buf[i] != '/' || i+1 >= len(buf) {
		return 0, false
	}

	switch buf[i+1] {
	case '/':
		j := i + 2
		for j < len(buf) && buf[j] != '\n' {
			j++
		}

		return j, true
	case '*':
		for j := i + 2; j+1 < len(buf); j++ {
			if buf[j] == '*' && buf[j+1] == '/' {
				return j + 2, true
			}
		}

		return len(buf), true
	}

	return 0, false
}

// skipRegex scans a regex literal starting at the slash at i, flags included.
// A line break before the closing slash means it was not a regex.
func (w walker) skipRegex(i int) (int, bool) {
	buf := w.buf
	inClass := false

	for j := i + 1; j < len(buf); j++ {
		switch buf[j] {
		case '\\':
			j++
		case '\n':
			return 0, false
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return w.identEnd(j + 1), true
			}
		}
	}

	return 0, false
}

// skipTemplate scans a template literal body starting after the opening
// backtick, descending into ${...} substitutions.
func (w walker) skipTemplate(i int) int {
	buf := w.buf

	for i < len(buf) {
		switch buf[i] {
		case '\\':
			i += 2

			continue
		case '`':
			return i + 1
		case '$':
			if i+1 < len(buf) && buf[i+1] == '{' {
				end, err := w.matchClose(i+2, '{', '}')
				if err != nil {
					return len(buf)
				}

				i = end

				continue
			}
		}

		i++
	}

	return len(buf)
}

func (w walker) skipSpace(i int) int {
	for i < len(w.buf) {
		if isSpace(w.buf[i]) {
			i++

			continue
		}

		if j, ok := w.skipComment(i); ok {
			i = j

			continue
		}

		break
	}

	return i
}

// startsStatement reports whether a function keyword after last begins a
// declaration rather than an expression. A line break ends the previous
// statement unless last leaves an expression open.
func startsStatement(last byte, newline bool) bool {
	switch last {
	case 0, ';', '}':
		return true
	}

	return newline && !strings.ContainsRune("=(,:?&|+-*/%!<>[.", rune(last))
}

func (w walker) identEnd(i int) int {
	for i < len(w.buf) && isIdentByte(w.buf[i]) {
		i++
	}

	return i
}

// literalEnd stands in for the last byte of a string, template or regex
// literal: an operand, after which a slash divides.
const literalEnd = '"'

// regexAllowed reports whether a slash after last starts a regex literal.
func regexAllowed(last byte) bool {
	return last == 0 || strings.ContainsRune("(,=:[!&|?{};+-*%<>~^", rune(last))
}

// lastOfWord returns the byte that stands for word as the previous token.
// Keywords that precede an expression behave like an operator.
func lastOfWord(word []byte) byte {
	switch string(word) {
	case "return", "typeof", "case", "do", "else", "in", "of", "new", "delete", "void", "throw", "instanceof", "yield", "await":
		return '='
	}

	return word[len(word)-1]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
