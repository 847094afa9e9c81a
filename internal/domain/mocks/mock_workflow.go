// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/esmify/internal/domain"
	m "github.com/mouse-blink/esmify/internal/model"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted when
// the test ends.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	w := &MockWorkflow{}
	w.Test(t)

	t.Cleanup(func() { w.AssertExpectations(t) })

	return w
}

// Estimate provides a mock function.
func (w *MockWorkflow) Estimate(args domain.EstimateArgs) error {
	return w.Called(args).Error(0)
}

// Migrate provides a mock function.
func (w *MockWorkflow) Migrate(ctx context.Context, args domain.MigrateArgs) error {
	return w.Called(ctx, args).Error(0)
}

// View provides a mock function.
func (w *MockWorkflow) View(args domain.ViewArgs) error {
	return w.Called(args).Error(0)
}

// MockMigrator is a mock of domain.Migrator.
type MockMigrator struct {
	mock.Mock
}

// NewMockMigrator creates a MockMigrator whose expectations are asserted when
// the test ends.
func NewMockMigrator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMigrator {
	mg := &MockMigrator{}
	mg.Test(t)

	t.Cleanup(func() { mg.AssertExpectations(t) })

	return mg
}

// MigrateEntry provides a mock function.
func (mg *MockMigrator) MigrateEntry(src m.SourceFile, dirName string) m.FileResult {
	ret := mg.Called(src, dirName)
	if fn, ok := ret.Get(0).(func(m.SourceFile, string) m.FileResult); ok {
		return fn(src, dirName)
	}

	return ret.Get(0).(m.FileResult)
}

// MigrateFile provides a mock function.
func (mg *MockMigrator) MigrateFile(src m.SourceFile, extensionClass string) m.FileResult {
	ret := mg.Called(src, extensionClass)
	if fn, ok := ret.Get(0).(func(m.SourceFile, string) m.FileResult); ok {
		return fn(src, extensionClass)
	}

	return ret.Get(0).(m.FileResult)
}
