package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	m "github.com/mouse-blink/esmify/internal/model"
)

// ReportFileName is the file a ReportStore keeps the last report in.
const ReportFileName = "report.msgpack"

// ErrNoReport is returned by LoadReport when nothing has been saved yet.
var ErrNoReport = errors.New("no saved report")

// ReportStore persists and retrieves migration reports.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) error
	LoadReport(dir m.Path) (m.Report, error)
}

type reportStore struct{}

// NewReportStore constructs a msgpack-backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

// SaveReport writes report to <dir>/report.msgpack. The file is replaced
// atomically so a reader never sees a partial report.
func (rs *reportStore) SaveReport(dir m.Path, report m.Report) error {
	if dir == "" {
		return fmt.Errorf("reports directory is empty")
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	f, err := os.CreateTemp(string(dir), "report-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}

	tmp := f.Name()
	renamed := false

	defer func() {
		if !renamed {
			_ = os.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(&report); err != nil {
		_ = f.Close()

		return fmt.Errorf("encode report: %w", err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp, filepath.Join(string(dir), ReportFileName)); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}

	renamed = true

	return nil
}

// LoadReport reads the report saved in dir.
func (rs *reportStore) LoadReport(dir m.Path) (m.Report, error) {
	path := filepath.Join(string(dir), ReportFileName)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Report{}, fmt.Errorf("%w in %s", ErrNoReport, dir)
		}

		return m.Report{}, err
	}

	defer func() { _ = f.Close() }()

	var report m.Report
	if err := msgpack.NewDecoder(f).Decode(&report); err != nil {
		return m.Report{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return report, nil
}
