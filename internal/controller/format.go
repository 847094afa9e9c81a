package controller

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

// prefixLines prefixes every line of text and terminates it with a newline.
func prefixLines(prefix, text string) string {
	if text == "" {
		return prefix + "\n"
	}

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

// changeLogLine summarizes one file's change log, e.g.
// "utils.js: 2 replacements (lines 1, 4)".
func changeLogLine(log m.ChangeLog) string {
	lines := make([]string, 0, len(log.Changes))
	for _, c := range log.Changes {
		lines = append(lines, strconv.Itoa(c.Line))
	}

	return fmt.Sprintf("%s: %d replacements (lines %s)",
		filepath.Base(string(log.File)), len(log.Changes), strings.Join(lines, ", "))
}
