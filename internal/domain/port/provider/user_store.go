package provider

import (
	"context"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
)

// UserStore is the contract for the external auth and record storage backend.
// Authentication, account lifecycle and the atomic coin increment/decrement
// primitives are all delegated to it; this application holds no user state.
type UserStore interface {
	// CreateUser registers a new account with the given starting coin balance
	// and triggers the verification email
	CreateUser(ctx context.Context, email, password, name string, signupCoins float64) (*entity.User, error)

	// AuthWithPassword exchanges credentials for a token and the user record
	AuthWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error)

	// AuthWithToken validates a bearer token and returns the fresh user record
	AuthWithToken(ctx context.Context, token string) (*entity.User, error)

	// GetUserByID fetches a user record by its id
	GetUserByID(ctx context.Context, id string) (*entity.User, error)

	// GetUserByStripeCustomerID resolves a user from a linked Stripe customer
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*entity.User, error)

	// UpdateUser applies the given field values to a user record
	UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error)

	// AddCoins applies an atomic positive increment to the coin balance
	AddCoins(ctx context.Context, userID string, amount float64) error

	// DeductCoins applies an atomic decrement to the coin balance. The store
	// primitive carries no conditional guard; callers must pre-check the
	// balance themselves.
	DeductCoins(ctx context.Context, userID string, amount float64) error

	// RequestVerification asks the store to (re)send a verification email
	RequestVerification(ctx context.Context, email string) error

	// ConfirmVerification redeems an email verification token
	ConfirmVerification(ctx context.Context, token string) error

	// RequestPasswordReset asks the store to send a password reset email
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset sets a new password using a reset token
	ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error

	// ListOAuthProviders returns the configured OAuth2 providers
	ListOAuthProviders(ctx context.Context) ([]entity.OAuthProvider, error)

	// AuthWithOAuth2 completes an OAuth2 code exchange and returns a session
	AuthWithOAuth2(ctx context.Context, providerName, code, codeVerifier, redirectURL string) (*entity.AuthSession, error)
}

// TransactionStore persists append-only audit ledger entries
type TransactionStore interface {
	// AppendTransaction creates one audit row; rows are never updated
	AppendTransaction(ctx context.Context, txn *entity.Transaction) error

	// ListTransactions returns a user's audit history, newest first
	ListTransactions(ctx context.Context, userID string) ([]entity.Transaction, error)
}

// EventStore persists processed webhook event markers for deduplication
type EventStore interface {
	// EventProcessed reports whether the event id has been recorded before
	EventProcessed(ctx context.Context, eventID string) (bool, error)

	// MarkEventProcessed records the event id after successful handling
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}
