package controller

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/esmify/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Width(4).Align(lipgloss.Right)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
)

func renderRunInfo(info RunInfo) string {
	mode := warnStyle.Render("dry run")
	if info.Write {
		mode = addedStyle.Render("writing changes")
	}

	lines := []string{
		titleStyle.Render("esmify migrate") + "  " + mutedStyle.Render(string(info.Directory)),
		fmt.Sprintf("Files: %s   Workers: %s   Mode: %s",
			accentStyle.Render(fmt.Sprintf("%d", info.Files)),
			accentStyle.Render(fmt.Sprintf("%d", info.Threads)),
			mode),
	}

	for _, name := range info.Manual {
		lines = append(lines, warnStyle.Render("! skipping "+name))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderFileResult(r m.FileResult, showDiff bool) string {
	name := baseName(r.Source)
	if r.Restructure != nil {
		name += mutedStyle.Render(" → class " + r.Restructure.ClassName)
	}

	lines := []string{countStyle.Render(fmt.Sprintf("%d", len(r.Changes))) + "  " + name}

	if showDiff {
		for _, c := range r.Changes {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("      line %d (%s)", c.Line, c.Dialect)))
			lines = append(lines, removedStyle.Render(strings.TrimSuffix(prefixLines("      - ", c.Old), "\n")))
			lines = append(lines, addedStyle.Render(strings.TrimSuffix(prefixLines("      + ", c.New), "\n")))
		}
	}

	for _, d := range r.Diagnostics {
		style := warnStyle
		if d.Kind != m.DiagnosticUnhandled {
			style = errorStyle
		}

		lines = append(lines, style.Render(fmt.Sprintf("      %s: %s", d.Kind, diagnosticText(d))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderReport(r m.Report) string {
	verb := "would be updated"
	if r.Written {
		verb = "updated"
	}

	sections := []string{
		titleStyle.Render("Migration report"),
		fmt.Sprintf("%s imports %s in %s of %s files",
			accentStyle.Render(fmt.Sprintf("%d", r.TotalReplacements)),
			verb,
			accentStyle.Render(fmt.Sprintf("%d", r.FilesChanged)),
			accentStyle.Render(fmt.Sprintf("%d", r.TotalFiles))),
	}

	if !r.GeneratedAt.IsZero() {
		sections = append(sections, mutedStyle.Render(r.GeneratedAt.Local().Format("2006-01-02 15:04:05")))
	}

	if len(r.ChangeLogs) > 0 {
		lines := []string{"", accentStyle.Bold(true).Render("Changed files")}
		for _, log := range r.ChangeLogs {
			lines = append(lines, changeLogLine(log))
		}

		sections = append(sections, lines...)
	}

	if len(r.Advisories) > 0 {
		lines := []string{"", warnStyle.Bold(true).Render("Advisories")}
		for _, a := range r.Advisories {
			lines = append(lines, warnStyle.Render("! ")+a)
		}

		sections = append(sections, lines...)
	}

	if len(r.Diagnostics) > 0 {
		lines := []string{"", errorStyle.Bold(true).Render("Diagnostics")}
		for _, d := range r.Diagnostics {
			where := baseName(d.File)
			if d.Line > 0 {
				where = fmt.Sprintf("%s:%d", where, d.Line)
			}

			lines = append(lines, fmt.Sprintf("%s %s %s", mutedStyle.Render(where), errorStyle.Render(string(d.Kind)), diagnosticText(d)))
		}

		sections = append(sections, lines...)
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
