package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAIProvider is a testify mock for the AIProvider port
type MockAIProvider struct {
	mock.Mock
}

func (m *MockAIProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
