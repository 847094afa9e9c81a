package rewrite

import (
	"regexp"
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

// directivePattern matches `imports.<path> = "<version>"`. It is scanned
// independently from declarationPattern over the same buffer.
var directivePattern = regexp.MustCompile(
	`imports\.(?P<path>[\w$]+(?:\.[\w$]+)*)\s*=\s*['"](?P<version>\d+(?:\.\d+)*)['"]`)

// DirectiveAdvisory is raised for files that still assign library versions on
// the imports object. The rewrite moves versions into the import specifiers
// but leaves the assignments in place.
const DirectiveAdvisory = "Remove the `imports.gi.versions` assignments: versions now live in the gi:// import specifiers"

var (
	directivePathGroup    = directivePattern.SubexpIndex("path")
	directiveVersionGroup = directivePattern.SubexpIndex("version")
)

// ScanDirectives returns every version directive in buf in order of appearance.
func ScanDirectives(buf []byte) []m.VersionDirective {
	var directives []m.VersionDirective

	for _, loc := range directivePattern.FindAllSubmatchIndex(buf, -1) {
		path := string(buf[loc[2*directivePathGroup]:loc[2*directivePathGroup+1]])
		segments := strings.Split(path, ".")

		directives = append(directives, m.VersionDirective{
			Library: segments[len(segments)-1],
			Version: string(buf[loc[2*directiveVersionGroup]:loc[2*directiveVersionGroup+1]]),
			Start:   loc[0],
			End:     loc[1],
		})
	}

	return directives
}

// DirectiveTable maps a library short name to its pinned version.
type DirectiveTable map[string]string

// NewDirectiveTable indexes directives by library. A later directive for the
// same library replaces an earlier one.
func NewDirectiveTable(directives []m.VersionDirective) DirectiveTable {
	table := make(DirectiveTable, len(directives))
	for _, d := range directives {
		table[d.Library] = d.Version
	}

	return table
}

// Lookup returns the version pinned for library, if any.
func (t DirectiveTable) Lookup(library string) (string, bool) {
	version, ok := t[library]

	return version, ok
}
