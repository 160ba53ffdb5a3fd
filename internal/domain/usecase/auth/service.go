package auth

import (
	"context"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
	"github.com/bugswriter/bizniz-api/internal/domain/usecase/ledger"
)

// Service delegates account lifecycle and authentication to the user store.
// Its own responsibilities are the signup bonus bookkeeping and mapping store
// failures to domain errors.
type Service struct {
	users       provider.UserStore
	ledger      *ledger.Service
	logger      coreport.Logger
	signupCoins float64
}

// NewService creates a new auth service
func NewService(
	users provider.UserStore,
	ledgerSvc *ledger.Service,
	logger coreport.Logger,
	signupCoins float64,
) *Service {
	return &Service{
		users:       users,
		ledger:      ledgerSvc,
		logger:      logger,
		signupCoins: signupCoins,
	}
}

// Register creates a new account with the signup bonus as its starting
// balance and records the bonus in the audit ledger. The store sends the
// verification email as part of creation.
func (s *Service) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	user, err := s.users.CreateUser(ctx, email, password, name, s.signupCoins)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RecordBonus(ctx, user.ID, s.signupCoins, "Free signup coins"); err != nil {
		// Balance is already set on the created record; only the audit row
		// is missing.
		s.logger.Error("Failed to record signup bonus transaction", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	s.logger.Info("User registered", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

// Login authenticates with email and password. Unverified accounts are
// rejected even with correct credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	session, err := s.users.AuthWithPassword(ctx, email, password)
	if err != nil {
		s.logger.Warn("Failed login attempt", map[string]any{"email": email})
		return nil, errs.ErrInvalidCredentials
	}
	if !session.User.Verified {
		return nil, errs.ErrAccountNotVerified
	}
	return session, nil
}

// Authenticate validates a bearer token and returns the fresh user record.
// Used by the auth middleware on every protected request.
func (s *Service) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	user, err := s.users.AuthWithToken(ctx, token)
	if err != nil {
		s.logger.Warn("Invalid or expired token presented", nil)
		return nil, errs.ErrInvalidToken
	}
	return user, nil
}

// ResendVerification asks the store to send a new verification email. Always
// succeeds from the caller's perspective to avoid email enumeration.
func (s *Service) ResendVerification(ctx context.Context, email string) {
	if err := s.users.RequestVerification(ctx, email); err != nil {
		s.logger.Warn("Verification resend failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
	}
}

// ConfirmVerification redeems an email verification token
func (s *Service) ConfirmVerification(ctx context.Context, token string) error {
	return s.users.ConfirmVerification(ctx, token)
}

// RequestPasswordReset asks the store to send a reset email. Enumeration-safe
// like ResendVerification.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) {
	if err := s.users.RequestPasswordReset(ctx, email); err != nil {
		s.logger.Warn("Password reset request failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
	}
}

// ConfirmPasswordReset sets a new password using a reset token
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	if password != passwordConfirm {
		return errs.ErrInvalidRequest
	}
	return s.users.ConfirmPasswordReset(ctx, token, password, passwordConfirm)
}

// OAuthProviders returns the configured OAuth2 providers
func (s *Service) OAuthProviders(ctx context.Context) ([]entity.OAuthProvider, error) {
	return s.users.ListOAuthProviders(ctx)
}

// OAuthCallback completes the OAuth2 code exchange. The store creates the
// account on first login, so a fresh OAuth user is recognized by an empty
// audit ledger; a zero balance alone is not enough, since spending an account
// down to exactly zero must not re-arm the signup bonus.
func (s *Service) OAuthCallback(ctx context.Context, providerName, code, codeVerifier, redirectURL string) (*entity.AuthSession, error) {
	session, err := s.users.AuthWithOAuth2(ctx, providerName, code, codeVerifier, redirectURL)
	if err != nil {
		s.logger.Error("OAuth2 authentication failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		return nil, errs.ErrInvalidCredentials
	}

	if session.User.Coins == 0 && s.firstLogin(ctx, session.User.ID) {
		if err := s.ledger.Credit(ctx, session.User.ID, s.signupCoins, entity.TypeBonus, "Free signup coins via OAuth", ""); err != nil {
			s.logger.Error("Failed to grant OAuth signup bonus", map[string]any{
				"user_id": session.User.ID,
				"error":   err.Error(),
			})
		} else {
			s.logger.Info("New OAuth user received signup bonus", map[string]any{
				"user_id": session.User.ID,
			})
			session.User.Coins = s.signupCoins
		}
	}

	return session, nil
}

// firstLogin reports whether the account has no audit history yet. When the
// history cannot be read the account is treated as returning, so a store
// outage never hands out extra bonuses.
func (s *Service) firstLogin(ctx context.Context, userID string) bool {
	history, err := s.ledger.History(ctx, userID)
	if err != nil {
		s.logger.Warn("Skipping signup bonus, ledger history unavailable", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return false
	}
	return len(history) == 0
}
