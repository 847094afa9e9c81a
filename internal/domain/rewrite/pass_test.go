package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/esmify/internal/model"
)

func TestRewriteImports_ScenarioA(t *testing.T) {
	src := "const {Gio, GLib} = imports.gi;\nimports.gi.versions.Gio = \"2.0\";\n"

	out, err := RewriteImports([]byte(src), Context{Rules: DefaultRules()})
	require.NoError(t, err)

	assert.Equal(t, "import * as Gio from 'gi://Gio?version=2.0';\nimport * as GLib from 'gi://GLib';\nimports.gi.versions.Gio = \"2.0\";\n", string(out.Output))
	assert.Equal(t, []string{DirectiveAdvisory}, out.Advisories)
	require.Len(t, out.Changes, 1)
	assert.Equal(t, m.DialectVersionedLibrary, out.Changes[0].Dialect)
	assert.Equal(t, 1, out.Changes[0].Line)
}

func TestRewriteImports_UnhandledIsLeftAlone(t *testing.T) {
	src := "const Main = imports.ui.main;\nconst out = imports.misc.util.spawnCommandLine('ls');\n"

	out, err := RewriteImports([]byte(src), Context{Rules: DefaultRules()})
	require.NoError(t, err)

	require.Len(t, out.Unhandled, 1)
	assert.Equal(t, 2, out.Unhandled[0].Line)
	assert.True(t, strings.HasSuffix(string(out.Output), "\nconst out = imports.misc.util.spawnCommandLine('ls');\n"))
	assert.Len(t, out.Changes, 1)
}

func TestRewriteImports_NoSemicolonDuplication(t *testing.T) {
	out, err := RewriteImports([]byte("const Main = imports.ui.main;"), Context{Rules: DefaultRules()})
	require.NoError(t, err)

	assert.NotContains(t, string(out.Output), ";;")
}

func TestRewriteImports_Idempotent(t *testing.T) {
	src := strings.Join([]string{
		"const Main = imports.ui.main;",
		"const { St, Gio } = imports.gi;",
		"const Me = imports.misc.extensionUtils.getCurrentExtension();",
		"const utils = Me.imports.utils;",
		"const _ = imports.gettext.domain('x').gettext;",
		"",
	}, "\n")

	for _, class := range []string{"", "Worksets"} {
		first, err := RewriteImports([]byte(src), Context{Rules: DefaultRules(), ExtensionClass: class})
		require.NoError(t, err)
		assert.Len(t, first.Changes, 5)
		assert.Empty(t, Scan(first.Output), "rewritten output still has legacy imports")

		second, err := RewriteImports(first.Output, Context{Rules: DefaultRules(), ExtensionClass: class})
		require.NoError(t, err)
		assert.Empty(t, second.Changes)
		assert.Equal(t, first.Output, second.Output)
	}
}

func TestRewriteImports_FixtureEntryModule(t *testing.T) {
	buf, err := os.ReadFile(filepath.Join("..", "..", "..", "examples", "worksets@blipk.xyz", "extension.js"))
	require.NoError(t, err)

	rules := DefaultRules()

	plan, restructured, err := Restructure(buf, "worksets@blipk.xyz", rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"enable", "disable"}, []string{plan.Blocks[0].Name, plan.Blocks[1].Name})

	out, err := RewriteImports(restructured, Context{Rules: rules, ExtensionClass: plan.ClassName, EntryModule: true})
	require.NoError(t, err)

	text := string(out.Output)
	assert.Contains(t, text, "import * as Main from 'resource:///org/gnome/shell/ui/main.js';")
	assert.Contains(t, text, "import * as Gio from 'gi://Gio?version=2.0';")
	assert.Contains(t, text, "import * as MeModule from './extension.js';\nconst Me = MeModule.default;")
	assert.Contains(t, text, "import * as sessionManager from './sessionManager.js';")
	assert.Contains(t, text, "export default class Worksets extends Extension {\nenable() {")
	assert.Contains(t, text, "const scopeName = \"cw-shell-extension\";")
	assert.Equal(t, 1, strings.Count(text, "gettext as _"))
	assert.Empty(t, out.Unhandled)
	assert.ElementsMatch(t, []string{DirectiveAdvisory, GettextAdvisory}, out.Advisories)
}
