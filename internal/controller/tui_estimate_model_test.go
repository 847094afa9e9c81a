package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func TestMarquee(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		step  int
		want  string
	}{
		{"no width", "hello", 0, 0, ""},
		{"fits", "short", 10, 50, "short"},
		{"paused", "abcdefghij", 5, 0, "abcd…"},
		{"first frame", "abcdefghij", 5, marqueePause, "abcde"},
		{"scrolled", "abcdefghij", 5, marqueePause + 2, "cdefg"},
		{"wraps through the gap", "abcdefghij", 5, marqueePause + 11, "  abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marquee(tt.text, tt.width, tt.step); got != tt.want {
				t.Fatalf("marquee(%q, %d, %d) = %q, want %q", tt.text, tt.width, tt.step, got, tt.want)
			}
		})
	}
}

func TestEllipsize(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 0, ""},
		{"hello", 10, "hello"},
		{"hello", 1, "…"},
		{"hello", 3, "he…"},
	}

	for _, tt := range tests {
		if got := ellipsize(tt.text, tt.width); got != tt.want {
			t.Fatalf("ellipsize(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestEstimateModel_HandleEstimationMsgAndView(t *testing.T) {
	m := newEstimateModel()
	if got := m.View(); got != "Scanning extension files…\n" {
		t.Fatalf("View() before data = %q", got)
	}

	m = m.handleEstimationMsg(estimationMsg{
		total: 7,
		files: 2,
		items: []fileItem{
			{path: "extension.js", count: 5, note: "entry, 2 functions"},
			{path: "utils.js", count: 2},
		},
	})

	if !m.ready || m.total != 7 || m.totalFiles != 2 || m.selected != 0 {
		t.Fatalf("handleEstimationMsg state = %+v", m)
	}

	if got := m.files.Items()[0].(fileItem).path; got != "extension.js" {
		t.Fatalf("first item = %q, want directory order kept", got)
	}

	m.width = 100
	m.height = 25
	view := m.View()

	for _, want := range []string{"esmify import estimate", "Legacy imports", "7", "extension.js", "Count", "Note", "directory order"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q\n%s", want, view)
		}
	}

	// Narrow windows still render.
	m.height = 0
	m.width = 20
	_ = m.renderTable()
}

func TestEstimateModel_ShowsError(t *testing.T) {
	m := newEstimateModel().handleEstimationMsg(estimationMsg{err: errors.New("invalid extension directory")})
	m.width = 80
	m.height = 20

	if view := m.View(); !strings.Contains(view, "invalid extension directory") {
		t.Fatalf("View() missing error\n%s", view)
	}
}

func TestEstimateModel_Ticks(t *testing.T) {
	m := newEstimateModel()

	if cmd := m.Init(); cmd == nil {
		t.Fatalf("Init() returned nil cmd")
	}

	model, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil || model.(estimateModel).step != 0 {
		t.Fatalf("tick before data should only reschedule")
	}

	m = m.handleEstimationMsg(estimationMsg{items: []fileItem{{path: "a.js", count: 1}}})

	model, cmd = m.Update(tickMsg(time.Now()))
	if cmd == nil || model.(estimateModel).step != 1 {
		t.Fatalf("tick after data should advance the marquee")
	}
}

func TestEstimateModel_Keys(t *testing.T) {
	m := newEstimateModel().handleEstimationMsg(estimationMsg{
		items: []fileItem{{path: "a.js", count: 1}, {path: "b.js", count: 2}},
	})
	m = m.withStep(7)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = model.(estimateModel)

	if m.width != 100 || m.height != 40 {
		t.Fatalf("window size not applied")
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(estimateModel)

	if m.selected != 1 || m.step != 0 {
		t.Fatalf("selection change should reset the marquee: selected %d step %d", m.selected, m.step)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = model.(estimateModel)

	if !m.byCount || m.files.Items()[0].(fileItem).path != "b.js" {
		t.Fatalf("sort key should order by count")
	}

	if !strings.Contains(m.View(), "most imports first") {
		t.Fatalf("footer should name the sort order")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Fatalf("expected quit cmd")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("expected quit cmd on ctrl+c")
	}
}

func TestFileDelegate_Render(t *testing.T) {
	delegate := fileDelegate{}
	items := []list.Item{
		fileItem{path: "workspaceView.js", count: 7, note: "1 unhandled"},
		fileItem{path: "prefs.js", note: "manual"},
	}
	l := list.New(items, delegate, 60, 5)

	var buf bytes.Buffer

	delegate.Render(&buf, l, 0, items[0])

	if !strings.Contains(buf.String(), "workspaceView.js") || !strings.Contains(buf.String(), "1 unhandled") {
		t.Fatalf("selected row missing path or note: %q", buf.String())
	}

	buf.Reset()
	delegate.Render(&buf, l, 1, items[1])

	if !strings.Contains(buf.String(), "prefs.js") || !strings.Contains(buf.String(), "manual") {
		t.Fatalf("row missing path or note: %q", buf.String())
	}

	// Foreign items render nothing.
	buf.Reset()
	delegate.Render(&buf, l, 0, struct{ list.Item }{})

	if buf.Len() != 0 {
		t.Fatalf("foreign item rendered %q", buf.String())
	}

	if delegate.Height() != 1 || delegate.Spacing() != 0 || delegate.Update(nil, &l) != nil {
		t.Fatalf("unexpected delegate layout")
	}
}
