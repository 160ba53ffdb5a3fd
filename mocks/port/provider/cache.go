package provider

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a testify mock for the Cache port
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}

// PassthroughCache returns a mock that behaves like an always-empty cache
func PassthroughCache() *MockCache {
	cache := &MockCache{}
	cache.On("Get", mock.Anything, mock.Anything).Return("", false, nil).Maybe()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("IncrementWithTTL", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()
	return cache
}
