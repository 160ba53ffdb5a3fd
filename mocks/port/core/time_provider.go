package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTimeProvider is a testify mock for the TimeProvider port
type MockTimeProvider struct {
	mock.Mock
}

func (m *MockTimeProvider) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockTimeProvider) Since(t time.Time) time.Duration {
	args := m.Called(t)
	return args.Get(0).(time.Duration)
}

func (m *MockTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	args := m.Called(ctx, timeout)
	return args.Get(0).(context.Context), args.Get(1).(context.CancelFunc)
}

// FixedTimeProvider returns a mock whose Now always yields the given time
func FixedTimeProvider(now time.Time) *MockTimeProvider {
	tp := &MockTimeProvider{}
	tp.On("Now").Return(now).Maybe()
	tp.On("Since", mock.Anything).Return(time.Duration(0)).Maybe()
	return tp
}
