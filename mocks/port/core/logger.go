package core

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock for the Logger port
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Info(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Warn(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Error(message string, fields map[string]any) {
	m.Called(message, fields)
}

func (m *MockLogger) Flush() error {
	args := m.Called()
	return args.Error(0)
}

// RelaxedLogger returns a mock that accepts any log call. Most tests only
// care about behavior, not log output.
func RelaxedLogger() *MockLogger {
	logger := &MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	logger.On("Flush").Return(nil).Maybe()
	return logger
}
