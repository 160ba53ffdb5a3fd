package pocketbase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	errs "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

const usersCollection = "users"

// UserStore implements the user store contract against the PocketBase
// users collection
type UserStore struct {
	client *Client
}

// NewUserStore creates a PocketBase-backed user store
func NewUserStore(client *Client) provider.UserStore {
	return &UserStore{client: client}
}

// userRecord mirrors a record of the users collection on the wire
type userRecord struct {
	ID                   string  `json:"id"`
	Email                string  `json:"email"`
	Name                 string  `json:"name"`
	Verified             bool    `json:"verified"`
	Avatar               string  `json:"avatar"`
	Coins                float64 `json:"coins"`
	SubscriptionStatus   string  `json:"subscription_status"`
	StripeCustomerID     string  `json:"stripe_customer_id"`
	StripeSubscriptionID string  `json:"stripe_subscription_id"`
	ActivePlanName       string  `json:"active_plan_name"`
	Created              string  `json:"created"`
	Updated              string  `json:"updated"`
}

func (r *userRecord) toEntity() *entity.User {
	status := entity.SubscriptionStatus(r.SubscriptionStatus)
	if status == "" {
		status = entity.SubscriptionInactive
	}

	return &entity.User{
		ID:                   r.ID,
		Email:                r.Email,
		Name:                 r.Name,
		Verified:             r.Verified,
		Avatar:               r.Avatar,
		Coins:                r.Coins,
		SubscriptionStatus:   status,
		StripeCustomerID:     r.StripeCustomerID,
		StripeSubscriptionID: r.StripeSubscriptionID,
		ActivePlanName:       r.ActivePlanName,
		Created:              parseTime(r.Created),
		Updated:              parseTime(r.Updated),
	}
}

// authResponse is the payload of the user auth endpoints
type authResponse struct {
	Token  string     `json:"token"`
	Record userRecord `json:"record"`
}

// listResponse is the payload of the record list endpoint
type listResponse struct {
	Items []userRecord `json:"items"`
}

// CreateUser registers a new account with the given starting coin balance
// and triggers the verification email
func (s *UserStore) CreateUser(ctx context.Context, email, password, name string, signupCoins float64) (*entity.User, error) {
	var record userRecord

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(map[string]any{
				"email":           email,
				"password":        password,
				"passwordConfirm": password,
				"name":            name,
				"coins":           signupCoins,
				"emailVisibility": true,
			}).
			SetResult(&record).
			Post(fmt.Sprintf("/api/collections/%s/records", usersCollection))
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if resp.IsError() {
		apiErr := parseAPIError(resp)
		if apiErr.hasFieldError("email", "validation_not_unique") {
			return nil, errs.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: status %d: %s: %w", apiErr.Code, apiErr.Message, errs.ErrExternalService)
	}

	// Best effort; the user can request it again from the login screen.
	if err := s.RequestVerification(ctx, email); err != nil {
		s.client.logger.Warn("failed to send verification email", map[string]any{
			"email": email,
			"error": err.Error(),
		})
	}

	return record.toEntity(), nil
}

// AuthWithPassword exchanges credentials for a token and the user record
func (s *UserStore) AuthWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	var result authResponse

	resp, err := s.client.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"identity": email,
			"password": password,
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/collections/%s/auth-with-password", usersCollection))
	if err != nil {
		return nil, fmt.Errorf("auth with password: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth with password: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	return &entity.AuthSession{Token: result.Token, User: result.Record.toEntity()}, nil
}

// AuthWithToken validates a bearer token and returns the fresh user record
func (s *UserStore) AuthWithToken(ctx context.Context, token string) (*entity.User, error) {
	var result authResponse

	resp, err := s.client.http.R().
		SetContext(ctx).
		SetHeader("Authorization", token).
		SetResult(&result).
		Post(fmt.Sprintf("/api/collections/%s/auth-refresh", usersCollection))
	if err != nil {
		return nil, fmt.Errorf("auth refresh: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
			return nil, errs.ErrInvalidToken
		}
		return nil, fmt.Errorf("auth refresh: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	return result.Record.toEntity(), nil
}

// GetUserByID fetches a user record by its id
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, errs.ErrInvalidUserID
	}

	var record userRecord

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetResult(&record).
			Get(fmt.Sprintf("/api/collections/%s/records/%s", usersCollection, id))
	})
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: status %d: %w", id, resp.StatusCode(), errs.ErrExternalService)
	}

	return record.toEntity(), nil
}

// GetUserByStripeCustomerID resolves a user from a linked Stripe customer
func (s *UserStore) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*entity.User, error) {
	if customerID == "" {
		return nil, errs.ErrUserNotFound
	}

	var result listResponse

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetQueryParam("filter", fmt.Sprintf("stripe_customer_id='%s'", customerID)).
			SetQueryParam("perPage", "1").
			SetResult(&result).
			Get(fmt.Sprintf("/api/collections/%s/records", usersCollection))
	})
	if err != nil {
		return nil, fmt.Errorf("find user by customer %s: %w", customerID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("find user by customer %s: status %d: %w", customerID, resp.StatusCode(), errs.ErrExternalService)
	}
	if len(result.Items) == 0 {
		return nil, errs.ErrUserNotFound
	}

	return result.Items[0].toEntity(), nil
}

// UpdateUser applies the given field values to a user record
func (s *UserStore) UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	if id == "" {
		return nil, errs.ErrInvalidUserID
	}

	var record userRecord

	resp, err := s.client.execAdmin(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(fields).
			SetResult(&record).
			Patch(fmt.Sprintf("/api/collections/%s/records/%s", usersCollection, id))
	})
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, errs.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user %s: status %d: %w", id, resp.StatusCode(), errs.ErrExternalService)
	}

	return record.toEntity(), nil
}

// AddCoins applies an atomic positive increment to the coin balance using
// the store's field modifier syntax
func (s *UserStore) AddCoins(ctx context.Context, userID string, amount float64) error {
	_, err := s.UpdateUser(ctx, userID, map[string]any{"coins+": amount})
	return err
}

// DeductCoins applies an atomic decrement to the coin balance
func (s *UserStore) DeductCoins(ctx context.Context, userID string, amount float64) error {
	_, err := s.UpdateUser(ctx, userID, map[string]any{"coins-": amount})
	return err
}

// RequestVerification asks the store to (re)send a verification email
func (s *UserStore) RequestVerification(ctx context.Context, email string) error {
	return s.postEmailAction(ctx, "request-verification", map[string]string{"email": email})
}

// ConfirmVerification redeems an email verification token
func (s *UserStore) ConfirmVerification(ctx context.Context, token string) error {
	return s.postEmailAction(ctx, "confirm-verification", map[string]string{"token": token})
}

// RequestPasswordReset asks the store to send a password reset email
func (s *UserStore) RequestPasswordReset(ctx context.Context, email string) error {
	return s.postEmailAction(ctx, "request-password-reset", map[string]string{"email": email})
}

// ConfirmPasswordReset sets a new password using a reset token
func (s *UserStore) ConfirmPasswordReset(ctx context.Context, token, password, passwordConfirm string) error {
	return s.postEmailAction(ctx, "confirm-password-reset", map[string]string{
		"token":           token,
		"password":        password,
		"passwordConfirm": passwordConfirm,
	})
}

func (s *UserStore) postEmailAction(ctx context.Context, action string, body map[string]string) error {
	resp, err := s.client.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/api/collections/%s/%s", usersCollection, action))
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest {
			return errs.ErrInvalidRequest
		}
		return fmt.Errorf("%s: status %d: %w", action, resp.StatusCode(), errs.ErrExternalService)
	}
	return nil
}

// authMethodsResponse is the payload of the auth-methods endpoint
type authMethodsResponse struct {
	AuthProviders []entity.OAuthProvider `json:"authProviders"`
}

// ListOAuthProviders returns the configured OAuth2 providers
func (s *UserStore) ListOAuthProviders(ctx context.Context) ([]entity.OAuthProvider, error) {
	var result authMethodsResponse

	resp, err := s.client.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/api/collections/%s/auth-methods", usersCollection))
	if err != nil {
		return nil, fmt.Errorf("list oauth providers: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list oauth providers: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	return result.AuthProviders, nil
}

// AuthWithOAuth2 completes an OAuth2 code exchange and returns a session
func (s *UserStore) AuthWithOAuth2(ctx context.Context, providerName, code, codeVerifier, redirectURL string) (*entity.AuthSession, error) {
	var result authResponse

	resp, err := s.client.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"provider":     providerName,
			"code":         code,
			"codeVerifier": codeVerifier,
			"redirectUrl":  redirectURL,
			"createData":   map[string]any{"emailVisibility": true},
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/api/collections/%s/auth-with-oauth2", usersCollection))
	if err != nil {
		return nil, fmt.Errorf("auth with oauth2: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth with oauth2: status %d: %w", resp.StatusCode(), errs.ErrExternalService)
	}

	return &entity.AuthSession{Token: result.Token, User: result.Record.toEntity()}, nil
}
