package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
)

// MockUserStore is a testify mock for the UserStore port
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, email, password, name string, signupCoins float64) (*entity.User, error) {
	args := m.Called(ctx, email, password, name, signupCoins)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) AuthWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if session, ok := args.Get(0).(*entity.AuthSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) AuthWithToken(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*entity.User, error) {
	args := m.Called(ctx, customerID)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	args := m.Called(ctx, id, fields)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) AddCoins(ctx context.Context, userID string, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserStore) DeductCoins(ctx context.Context, userID string, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserStore) RequestVerification(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserStore) ConfirmVerification(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserStore) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserStore) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	args := m.Called(ctx, token, password, passwordConfirm)
	return args.Error(0)
}

func (m *MockUserStore) ListOAuthProviders(ctx context.Context) ([]entity.OAuthProvider, error) {
	args := m.Called(ctx)
	if providers, ok := args.Get(0).([]entity.OAuthProvider); ok {
		return providers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) AuthWithOAuth2(ctx context.Context, providerName, code, codeVerifier, redirectURL string) (*entity.AuthSession, error) {
	args := m.Called(ctx, providerName, code, codeVerifier, redirectURL)
	if session, ok := args.Get(0).(*entity.AuthSession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTransactionStore is a testify mock for the TransactionStore port
type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) AppendTransaction(ctx context.Context, txn *entity.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionStore) ListTransactions(ctx context.Context, userID string) ([]entity.Transaction, error) {
	args := m.Called(ctx, userID)
	if transactions, ok := args.Get(0).([]entity.Transaction); ok {
		return transactions, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventStore is a testify mock for the EventStore port
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) EventProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventStore) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	args := m.Called(ctx, eventID, eventType)
	return args.Error(0)
}
