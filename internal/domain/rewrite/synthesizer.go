package rewrite

import (
	"errors"
	"fmt"
	"strings"

	m "github.com/mouse-blink/esmify/internal/model"
)

// ErrUnhandled is returned for declarations no rewrite rule covers. The
// caller keeps the original text.
var ErrUnhandled = errors.New("unhandled import")

// GettextAdvisory asks the operator to move the gettext domain to metadata.
const GettextAdvisory = "Set the `gettext-domain` key in `metadata.json`"

// DroppedBindingsAdvisory names local bindings that still need an import
// because only the first name of a local destructuring is migrated.
func DroppedBindingsAdvisory(names []string) string {
	return fmt.Sprintf("Add imports for %s: only the first binding of a local destructuring is migrated",
		strings.Join(names, ", "))
}

// extensionAlias is the binding the entry module's exports are imported under
// before the extension class is projected out of it.
const extensionAlias = "MeModule"

// Context is the per-file information synthesis needs besides the captures.
type Context struct {
	Directives DirectiveTable
	// ExtensionClass is the name of the generated entry class. Empty when the
	// entry module has not been restructured. Synthesis only tests it for
	// emptiness: the class is the module's default export, so rebinding
	// projects MeModule.default rather than a named export that does not exist.
	ExtensionClass string
	// EntryModule is set for the restructured entry module, whose class
	// prologue already imports gettext.
	EntryModule bool
	Rules       Rules
}

// Synthesize produces the replacement text for one classified declaration.
func Synthesize(c m.Captures, dialect m.Dialect, ctx Context) (m.RewriteResult, error) {
	if len(c.Names) == 0 {
		return m.RewriteResult{}, fmt.Errorf("%w: declaration binds no names", ErrUnhandled)
	}

	var result m.RewriteResult

	switch dialect {
	case m.DialectLocalSibling:
		result.Text = fmt.Sprintf("import * as %s from './%s.js';", c.Names[0], c.Names[0])
		if len(c.Names) > 1 {
			result.Advisories = append(result.Advisories, DroppedBindingsAdvisory(c.Names[1:]))
		}
	case m.DialectCurrentExtension:
		result.Text = currentExtensionImport(c, ctx)
	case m.DialectGettextDomain:
		if !ctx.EntryModule || ctx.ExtensionClass == "" {
			result.Text = fmt.Sprintf("import { gettext as _ } from '%s';", ctx.Rules.ExtensionImport)
		}

		result.Advisories = append(result.Advisories, GettextAdvisory)
	case m.DialectVersionedLibrary:
		result.Text = versionedLibraryImports(c, ctx)
	case m.DialectPlatformModule:
		result.Text = platformModuleImport(c, ctx.Rules)
	default:
		return m.RewriteResult{}, fmt.Errorf("%w: imports.%s%s", ErrUnhandled, c.Path, c.Call)
	}

	result.Text = strings.TrimSpace(result.Text)

	return result, nil
}

func currentExtensionImport(c m.Captures, ctx Context) string {
	entry := "./" + ctx.Rules.EntryFile
	binding := normalizeBindings(c)

	if ctx.ExtensionClass != "" {
		return fmt.Sprintf("import * as %s from '%s';\n%s %s = %s.default;",
			extensionAlias, entry, c.Keyword, binding, extensionAlias)
	}

	if isBraced(c.Bindings) {
		return fmt.Sprintf("import %s from '%s';", binding, entry)
	}

	return fmt.Sprintf("import * as %s from '%s';", binding, entry)
}

func versionedLibraryImports(c m.Captures, ctx Context) string {
	segments := strings.Split(c.Path, ".")
	lines := make([]string, 0, len(c.Names))

	for _, name := range c.Names {
		library := name
		// imports.gi.Gio names the library in the path itself.
		if len(segments) == 2 && len(c.Names) == 1 {
			library = segments[1]
		}

		specifier := fmt.Sprintf("%s://%s", ctx.Rules.NativeScheme, library)
		if version, ok := ctx.Directives.Lookup(library); ok {
			specifier += "?version=" + version
		}

		lines = append(lines, fmt.Sprintf("import * as %s from '%s';", name, specifier))
	}

	return strings.Join(lines, "\n")
}

func platformModuleImport(c m.Captures, rules Rules) string {
	resource := strings.Join(strings.Split(c.Path, "."), "/") + ".js"

	binding := normalizeBindings(c)
	if !isBraced(c.Bindings) && rules.isNamespaceImport(binding) {
		binding = "* as " + binding
	}

	return fmt.Sprintf("import %s from '%s/%s';", binding, rules.ResourceRoot, resource)
}

// normalizeBindings renders the binding form on one line: `{ a, b }` or `a`.
func normalizeBindings(c m.Captures) string {
	if isBraced(c.Bindings) {
		return "{ " + strings.Join(c.Names, ", ") + " }"
	}

	return c.Names[0]
}

func isBraced(bindings string) bool {
	return strings.HasPrefix(strings.TrimSpace(bindings), "{")
}
