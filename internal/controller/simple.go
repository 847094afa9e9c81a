package controller

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/esmify/internal/model"
)

// SimpleUI implements UI with plain text tables written to the command output.
type SimpleUI struct {
	cmd *cobra.Command
	cfg StartConfig

	added   *color.Color
	removed *color.Color
	warn    *color.Color
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{
		cmd:     cmd,
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
	}
}

// Start initializes the UI.
func (s *SimpleUI) Start(options ...StartOption) error {
	s.cfg = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// Wait returns immediately; plain output needs no user interaction.
func (s *SimpleUI) Wait() {}

// DisplayEstimation prints one row per candidate with its declaration counts.
func (s *SimpleUI) DisplayEstimation(estimates []m.Estimate, err error) error {
	if err != nil {
		s.printf("estimation error: %v\n", err)

		return err
	}

	header := []string{"Path"}
	for _, d := range m.Dialects {
		header = append(header, d.String())
	}

	header = append(header, "Total")

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	total := 0

	for _, est := range estimates {
		row := []string{estimateLabel(est)}

		for _, d := range m.Dialects {
			row = append(row, countCell(est.Counts[d]))
		}

		switch {
		case est.Manual:
			row = append(row, "manual")
		case est.Err != nil:
			row = append(row, "error")
		default:
			row = append(row, strconv.Itoa(est.Total))
		}

		total += est.Total

		table.Append(row)
	}

	footer := make([]string, len(header))
	footer[0] = fmt.Sprintf("Total Files %d", len(estimates))
	footer[len(footer)-1] = strconv.Itoa(total)
	table.SetFooter(footer)

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	for _, est := range estimates {
		if est.Err != nil {
			s.printf("%s %s: %v\n", s.warn.Sprint("!"), filepath.Base(string(est.Path)), est.Err)
		}
	}

	return nil
}

// DisplayRunInfo prints what the run is about to do.
func (s *SimpleUI) DisplayRunInfo(info RunInfo) {
	mode := "dry run"
	if info.Write {
		mode = "writing changes"
	}

	s.printf("Migrating %d files in %s with %d worker(s) (%s)\n", info.Files, info.Directory, info.Threads, mode)

	for _, name := range info.Manual {
		s.printf("%s skipping %s\n", s.warn.Sprint("!"), name)
	}
}

// DisplayFileResult prints the per-file outcome and, with WithDiff, every replacement.
func (s *SimpleUI) DisplayFileResult(r m.FileResult) {
	name := filepath.Base(string(r.Source))

	status := fmt.Sprintf("%d replacements", len(r.Changes))
	if r.Restructure != nil {
		status += fmt.Sprintf(", class %s", r.Restructure.ClassName)
	}

	s.printf("  %s: %s\n", name, status)

	if s.cfg.showDiff {
		for _, c := range r.Changes {
			s.printf("    line %d (%s)\n", c.Line, c.Dialect)
			s.printf("%s", s.removed.Sprint(prefixLines("    - ", c.Old)))
			s.printf("%s", s.added.Sprint(prefixLines("    + ", c.New)))
		}
	}

	for _, d := range r.Diagnostics {
		s.printf("    %s %s\n", s.warn.Sprintf("%s:", d.Kind), diagnosticText(d))
	}
}

// DisplayReport prints the run summary, the advisories and the diagnostics.
func (s *SimpleUI) DisplayReport(r m.Report) error {
	verb := "would be updated"
	if r.Written {
		verb = "updated"
	}

	s.printf("\n%d imports %s in %d of %d files\n", r.TotalReplacements, verb, r.FilesChanged, r.TotalFiles)

	if len(r.ChangeLogs) > 0 {
		s.printf("\nChanged files:\n")

		for _, log := range r.ChangeLogs {
			s.printf("  %s\n", changeLogLine(log))
		}
	}

	if len(r.Advisories) > 0 {
		s.printf("\nAdvisories:\n")

		for _, a := range r.Advisories {
			s.printf("  %s %s\n", s.warn.Sprint("!"), a)
		}
	}

	if len(r.Diagnostics) == 0 {
		return nil
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Line", "Kind", "Detail"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, d := range r.Diagnostics {
		table.Append([]string{filepath.Base(string(d.File)), countCell(d.Line), string(d.Kind), diagnosticText(d)})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func estimateLabel(est m.Estimate) string {
	label := string(est.Path)
	if est.Entry {
		label += fmt.Sprintf(" (entry, %d functions)", est.Blocks)
	}

	return label
}

func countCell(n int) string {
	if n == 0 {
		return "-"
	}

	return strconv.Itoa(n)
}

func diagnosticText(d m.Diagnostic) string {
	if d.Text != "" {
		return d.Text
	}

	return d.Message
}
