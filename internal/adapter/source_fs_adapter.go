// Package adapter contains the filesystem and persistence adapters for the esmify CLI.
package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	m "github.com/mouse-blink/esmify/internal/model"
)

const defaultFileMode os.FileMode = 0o644

// SourceFSAdapter is the filesystem seam of the workflow, so migration runs
// can be tested against temp directories or mocks.
type SourceFSAdapter interface {
	// ListCandidates returns the regular files directly inside dir whose name
	// ends in ext, minus those matched by the gitignore-style exclude patterns.
	ListCandidates(dir m.Path, ext string, exclude []string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the file contents, keeping the existing permissions.
	WriteFile(path m.Path, content []byte) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter backs SourceFSAdapter with the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter returns the disk-backed adapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ListCandidates lists the top-level script files of dir in lexical order.
// Subdirectories and symlinks are never candidates.
func (a *LocalSourceFSAdapter) ListCandidates(dir m.Path, ext string, exclude []string) ([]m.Path, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var matcher *ignore.GitIgnore
	if len(exclude) > 0 {
		matcher = ignore.CompileIgnoreLines(exclude...)
	}

	var candidates []m.Path

	for _, entry := range entries {
		name := entry.Name()

		if !entry.Type().IsRegular() || !strings.HasSuffix(name, ext) {
			continue
		}

		if matcher != nil && matcher.MatchesPath(name) {
			continue
		}

		candidates = append(candidates, a.JoinPath(string(dir), name))
	}

	return candidates, nil
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content over path. A new file gets mode 0644.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte) error {
	mode := defaultFileMode

	info, err := os.Stat(string(path))

	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if err := os.WriteFile(string(path), content, mode); err != nil {
		return err
	}

	// os.WriteFile only applies mode to files it creates.
	return os.Chmod(string(path), mode)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
