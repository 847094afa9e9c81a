package controller

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type tickMsg time.Time

// marqueePause is the number of ticks a selected row waits before scrolling.
const marqueePause = 5

const (
	countColumn = 6
	noteColumn  = 22
)

var (
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
	pathStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	rowCountStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(countColumn).Align(lipgloss.Right)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true).Border(lipgloss.NormalBorder(), false, false, true, false)
	tableStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Margin(0, 1).Padding(0, 1)
)

// fileDelegate draws one candidate per row: count, path and note.
type fileDelegate struct {
	step int
}

func (d fileDelegate) Height() int                             { return 1 }
func (d fileDelegate) Spacing() int                            { return 0 }
func (d fileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d fileDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	file, ok := item.(fileItem)
	if !ok {
		return
	}

	pathWidth := l.Width() - countColumn - 2 - noteColumn
	note := ellipsize(file.note, noteColumn)

	count := rowCountStyle.Render(fmt.Sprintf("%d", file.count))

	if index == l.Index() {
		path := marquee(file.path, pathWidth, d.step)
		row := fmt.Sprintf("%s  %s%s", count, padRight(path, pathWidth), note)
		_, _ = fmt.Fprint(w, selectedRowStyle.Render(row))

		return
	}

	path := padRight(ellipsize(file.path, pathWidth), pathWidth)
	_, _ = fmt.Fprintf(w, "%s  %s%s", count, pathStyle.Render(path), noteStyle(file.note).Render(note))
}

func noteStyle(note string) lipgloss.Style {
	switch {
	case note == "manual":
		return warnStyle
	case strings.HasPrefix(note, "error"):
		return errorStyle
	default:
		return mutedStyle
	}
}

// marquee fits text into width, scrolling it left once step passes the pause.
func marquee(text string, width, step int) string {
	if width <= 0 {
		return ""
	}

	if runewidth.StringWidth(text) <= width {
		return text
	}

	if step < marqueePause {
		return ellipsize(text, width)
	}

	loop := []rune(text + "   ")
	start := (step - marqueePause) % len(loop)
	rotated := append(slices.Clone(loop[start:]), loop[:start]...)

	return runewidth.Truncate(string(rotated), width, "")
}

func ellipsize(text string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(text, width, "…")
}

func padRight(text string, width int) string {
	if width <= 0 {
		return text
	}

	return runewidth.FillRight(text, width)
}

// estimateModel browses the per-file import counts of an estimate run.
type estimateModel struct {
	width  int
	height int

	files    list.Model
	rows     []fileItem
	byCount  bool
	step     int
	selected int

	ready      bool
	total      int
	totalFiles int
	errText    string
}

func newEstimateModel() estimateModel {
	files := list.New(nil, fileDelegate{}, 80, 20)
	files.SetShowTitle(false)
	files.SetShowStatusBar(false)
	files.SetShowPagination(false)
	files.SetShowHelp(false)
	files.SetShowFilter(true)
	files.FilterInput.Placeholder = "Filter by file…"

	return estimateModel{files: files, selected: -1}
}

func (m estimateModel) Init() tea.Cmd {
	return tick(time.Second / 2)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m estimateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.files.SetWidth(m.width)

		return m, nil
	case tickMsg:
		// Poll slowly until data arrives and while the filter is open.
		if !m.ready || m.files.FilterState() == list.Filtering {
			return m, tick(time.Second / 2)
		}

		m = m.withStep(m.step + 1)

		return m, tick(150 * time.Millisecond)
	case estimationMsg:
		return m.handleEstimationMsg(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m estimateModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.files.FilterState() == list.Filtering

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !filtering {
			return m, tea.Quit
		}
	case "s":
		if !filtering {
			m.byCount = !m.byCount
			m.files.SetItems(m.items())

			return m.withStep(0), nil
		}
	}

	var cmd tea.Cmd

	m.files, cmd = m.files.Update(msg)

	if m.files.Index() != m.selected {
		m.selected = m.files.Index()
		m = m.withStep(0)
	}

	return m, cmd
}

// withStep moves the marquee of the selected row.
func (m estimateModel) withStep(step int) estimateModel {
	m.step = step
	m.files.SetDelegate(fileDelegate{step: step})

	return m
}

func (m estimateModel) handleEstimationMsg(msg estimationMsg) estimateModel {
	m.total = msg.total
	m.totalFiles = msg.files
	m.rows = msg.items
	m.ready = true

	if msg.err != nil {
		m.errText = msg.err.Error()
	}

	m.files.SetItems(m.items())

	if len(m.rows) > 0 && m.selected < 0 {
		m.selected = 0
	}

	return m
}

// items returns the rows in directory order, or by descending count.
func (m estimateModel) items() []list.Item {
	rows := slices.Clone(m.rows)
	if m.byCount {
		slices.SortStableFunc(rows, func(a, b fileItem) int { return b.count - a.count })
	}

	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = r
	}

	return items
}

func (m estimateModel) View() string {
	if !m.ready {
		return "Scanning extension files…\n"
	}

	summary := fmt.Sprintf("Legacy imports: %s   Files: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.total)),
		accentStyle.Render(fmt.Sprintf("%d", m.totalFiles)))

	sections := []string{
		titleStyle.Padding(1, 0, 0, 2).Render("esmify import estimate"),
		lipgloss.NewStyle().Padding(0, 0, 1, 2).Render(summary),
	}

	if m.errText != "" {
		sections = append(sections, errorStyle.Padding(0, 0, 1, 2).Render(m.errText))
	}

	order := "directory order"
	if m.byCount {
		order = "most imports first"
	}

	footer := mutedStyle.Width(m.width).Align(lipgloss.Center).
		Render("↑/k ↓/j move • / filter • s sort (" + order + ") • q quit")

	sections = append(sections, m.renderTable(), footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m estimateModel) renderTable() string {
	// Title, summary, footer and the table frame take nine rows.
	m.files.SetHeight(max(m.height-9, 5))

	// Margin, border and padding take two columns each.
	width := m.width - 6
	m.files.SetWidth(width)

	header := fmt.Sprintf("%*s  %s%s", countColumn, "Count",
		padRight("File", width-countColumn-2-noteColumn), "Note")

	return tableStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Width(width).Render(header),
		m.files.View(),
	))
}
