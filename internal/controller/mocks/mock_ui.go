// Package mocks holds testify mocks of the controller interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/mouse-blink/esmify/internal/controller"
	m "github.com/mouse-blink/esmify/internal/model"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI whose expectations are asserted when the test ends.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	u := &MockUI{}
	u.Test(t)

	t.Cleanup(func() { u.AssertExpectations(t) })

	return u
}

// Start provides a mock function.
func (u *MockUI) Start(options ...controller.StartOption) error {
	args := make([]interface{}, 0, len(options))
	for _, o := range options {
		args = append(args, o)
	}

	return u.Called(args...).Error(0)
}

// Close provides a mock function.
func (u *MockUI) Close() {
	u.Called()
}

// Wait provides a mock function.
func (u *MockUI) Wait() {
	u.Called()
}

// DisplayEstimation provides a mock function.
func (u *MockUI) DisplayEstimation(estimates []m.Estimate, err error) error {
	return u.Called(estimates, err).Error(0)
}

// DisplayRunInfo provides a mock function.
func (u *MockUI) DisplayRunInfo(info controller.RunInfo) {
	u.Called(info)
}

// DisplayFileResult provides a mock function.
func (u *MockUI) DisplayFileResult(result m.FileResult) {
	u.Called(result)
}

// DisplayReport provides a mock function.
func (u *MockUI) DisplayReport(report m.Report) error {
	return u.Called(report).Error(0)
}
