package controller

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/esmify/internal/model"
)

// TUI implements UI using Bubble Tea for the interactive estimate browser and
// lipgloss-styled output for migration results.
type TUI struct {
	output io.Writer
	cfg    StartConfig

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI. Only estimate mode runs an interactive program.
func (t *TUI) Start(options ...StartOption) error {
	t.cfg = newStartConfig(options)

	if t.cfg.mode != ModeEstimate {
		return nil
	}

	return t.startWithModel(newEstimateModel())
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	t.done = make(chan struct{})
	t.started = true

	go func(p *tea.Program, done chan struct{}) {
		defer close(done)

		_, _ = p.Run()
	}(t.program, t.done)

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

// Wait blocks until the user closes the interactive program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close stops the interactive program, if any. It is safe to call twice.
func (t *TUI) Close() {
	t.mu.Lock()
	p, done := t.program, t.done
	t.program = nil
	t.mu.Unlock()

	if p == nil {
		return
	}

	p.Quit()
	<-done
}

// DisplayEstimation hands the estimates to the browser, or prints a summary
// when no program is running.
func (t *TUI) DisplayEstimation(estimates []m.Estimate, err error) error {
	if err != nil {
		t.printf("estimation error: %v\n", err)

		return err
	}

	msg := newEstimationMsg(estimates)

	t.mu.Lock()
	running := t.program != nil
	t.mu.Unlock()

	if running {
		t.send(msg)

		return nil
	}

	t.printf("Found %d legacy imports across %d files\n", msg.total, msg.files)

	return nil
}

func newEstimationMsg(estimates []m.Estimate) estimationMsg {
	msg := estimationMsg{files: len(estimates)}

	for _, est := range estimates {
		item := fileItem{path: string(est.Path), count: est.Total}

		switch {
		case est.Manual:
			item.note = "manual"
		case est.Err != nil:
			item.note = "error: " + est.Err.Error()
		case est.Entry:
			item.note = fmt.Sprintf("entry, %d functions", est.Blocks)
		case est.Counts[m.DialectUnhandled] > 0:
			item.note = fmt.Sprintf("%d unhandled", est.Counts[m.DialectUnhandled])
		}

		msg.total += est.Total
		msg.items = append(msg.items, item)
	}

	return msg
}

// DisplayRunInfo prints the run header.
func (t *TUI) DisplayRunInfo(info RunInfo) {
	t.printf("%s\n", renderRunInfo(info))
}

// DisplayFileResult prints one styled line per file, plus the replacements
// when the diff option is set.
func (t *TUI) DisplayFileResult(r m.FileResult) {
	t.printf("%s\n", renderFileResult(r, t.cfg.showDiff))
}

// DisplayReport prints the boxed run summary.
func (t *TUI) DisplayReport(r m.Report) error {
	t.printf("%s\n", renderReport(r))

	return nil
}

func (t *TUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.output, format, args...)
}

func baseName(p m.Path) string {
	return filepath.Base(string(p))
}
