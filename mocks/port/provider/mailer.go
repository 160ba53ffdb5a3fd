package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a testify mock for the Mailer port
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendSubscriptionStarted(ctx context.Context, to, name, planName string) error {
	args := m.Called(ctx, to, name, planName)
	return args.Error(0)
}

func (m *MockMailer) SendRenewalReceipt(ctx context.Context, to, name string, coinsAdded float64, planName string) error {
	args := m.Called(ctx, to, name, coinsAdded, planName)
	return args.Error(0)
}

func (m *MockMailer) SendSubscriptionCancelled(ctx context.Context, to, name, planName string) error {
	args := m.Called(ctx, to, name, planName)
	return args.Error(0)
}
