// Package rewrite turns legacy imports.* declarations into ES module imports.
//
// Every function in this package is pure: it takes a buffer and returns new
// values without touching the filesystem.
package rewrite

// Rules carries the platform constants the engine rewrites against.
type Rules struct {
	// NativeNamespace is the root path segment of native bindings (imports.gi).
	NativeNamespace string
	// NativeScheme is the URL scheme of native binding imports (gi://Gio).
	NativeScheme string
	// ResourceRoot prefixes platform module paths.
	ResourceRoot string
	// ExtensionImport is the module exporting the Extension base class and gettext.
	ExtensionImport string
	// EntryFile is the file name sibling modules import the extension from.
	EntryFile string
	// NamespaceImports are bindings whose target module only has named exports.
	NamespaceImports []string
}

// DefaultRules returns the GNOME Shell 45 rule set.
func DefaultRules() Rules {
	return Rules{
		NativeNamespace:  "gi",
		NativeScheme:     "gi",
		ResourceRoot:     "resource:///org/gnome/shell",
		ExtensionImport:  "resource:///org/gnome/shell/extensions/extension.js",
		EntryFile:        "extension.js",
		NamespaceImports: []string{"Main", "Util"},
	}
}

func (r Rules) isNamespaceImport(name string) bool {
	for _, n := range r.NamespaceImports {
		if n == name {
			return true
		}
	}

	return false
}
