package rewrite

import (
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

const (
	currentExtensionAccessor = "getCurrentExtension"
	gettextDomainAccessor    = "gettext.domain"
)

// Classify assigns exactly one dialect to a declaration. The checks run in a
// fixed order and the first one that applies wins.
func Classify(c m.Captures, rules Rules) m.Dialect {
	if c.Local {
		return m.DialectLocalSibling
	}

	// The bare namespace object (`imports` itself) names no module.
	if c.Path == "" {
		return m.DialectUnhandled
	}

	if c.Call != "" {
		// Containment on the full path, not equality.
		switch {
		case strings.Contains(c.Path, currentExtensionAccessor):
			return m.DialectCurrentExtension
		case strings.Contains(c.Path, gettextDomainAccessor):
			return m.DialectGettextDomain
		default:
			return m.DialectUnhandled
		}
	}

	if rootSegment(c.Path) == rules.NativeNamespace {
		return m.DialectVersionedLibrary
	}

	return m.DialectPlatformModule
}

func rootSegment(path string) string {
	root, _, _ := strings.Cut(path, ".")

	return root
}
