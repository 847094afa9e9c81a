// Package controller provides the console front ends for migration results.
package controller

import (
	m "github.com/mouse-blink/esmify/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeMigrate
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode     StartMode
	showDiff bool
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithMigrateMode sets the UI to migration mode.
func WithMigrateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMigrate
	}
}

// WithViewMode sets the UI to render a saved report.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithDiff makes DisplayFileResult print every replacement.
func WithDiff(show bool) StartOption {
	return func(c *StartConfig) {
		c.showDiff = show
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// RunInfo describes a migration run before any file is processed.
type RunInfo struct {
	Directory m.Path
	Files     int
	Manual    []string
	Threads   int
	Write     bool
}

// UI defines the interface for displaying migration progress and reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayEstimation(estimates []m.Estimate, err error) error
	DisplayRunInfo(info RunInfo)
	DisplayFileResult(result m.FileResult)
	DisplayReport(report m.Report) error
}
