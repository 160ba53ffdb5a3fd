package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest       = 4000
	CodeInsufficientCoins    = 4001
	CodeInvalidAmount        = 4002
	CodeInvalidCredentials   = 4010
	CodeAccountNotVerified   = 4030
	CodePurchaseNotAllowed   = 4031
	CodeUserNotFound         = 4040
	CodeNoBillingAccount     = 4041
	CodeNoSubscription       = 4042
	CodeDuplicateEmail       = 4090
	CodeSubscriptionConflict = 4091
	CodeDuplicateEvent       = 4092
	CodeRateLimited          = 4290
	CodeInvalidSignature     = 4300

	// 5xxx - Server errors
	CodeInternalServer  = 5000
	CodeExternalService = 5030
)

// Base error types
var (
	// ErrInsufficientCoins is returned when a user cannot cover a debit
	ErrInsufficientCoins = errors.New("insufficient coins")

	// ErrInvalidAmount is returned when a ledger amount is zero, negative or not finite
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidUserID is returned when a user id is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when authentication fails
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken is returned when a bearer token is invalid or expired
	ErrInvalidToken = errors.New("invalid authentication credentials")

	// ErrAccountNotVerified is returned when an unverified account tries to log in
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrDuplicateEmail is returned when registering an email that already exists
	ErrDuplicateEmail = errors.New("a user with this email address already exists")

	// ErrSubscriptionConflict is returned when the subscription state forbids the operation
	ErrSubscriptionConflict = errors.New("subscription state conflicts with the requested operation")

	// ErrPurchaseNotAllowed is returned when a one-time pack is bought without an active subscription
	ErrPurchaseNotAllowed = errors.New("one-time purchases require an active subscription")

	// ErrNoBillingAccount is returned when the user has no linked billing customer
	ErrNoBillingAccount = errors.New("no billing information found for this user")

	// ErrNoSubscription is returned when the user has no subscription to operate on
	ErrNoSubscription = errors.New("no subscription found")

	// ErrInvalidSignature is returned when a webhook payload fails signature verification
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrDuplicateEvent is returned when a webhook event id has already been processed
	ErrDuplicateEvent = errors.New("event already processed")

	// ErrExternalService is returned when an upstream provider call fails
	ErrExternalService = errors.New("external service failure")

	// ErrRateLimited is returned when a client exceeds the request allowance
	ErrRateLimited = errors.New("too many requests")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientCoins):
		return CodeInsufficientCoins
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		return CodeInvalidCredentials
	case errors.Is(err, ErrAccountNotVerified):
		return CodeAccountNotVerified
	case errors.Is(err, ErrPurchaseNotAllowed):
		return CodePurchaseNotAllowed
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrNoBillingAccount):
		return CodeNoBillingAccount
	case errors.Is(err, ErrNoSubscription):
		return CodeNoSubscription
	case errors.Is(err, ErrDuplicateEmail):
		return CodeDuplicateEmail
	case errors.Is(err, ErrSubscriptionConflict):
		return CodeSubscriptionConflict
	case errors.Is(err, ErrDuplicateEvent):
		return CodeDuplicateEvent
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrExternalService):
		return CodeExternalService
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidUserID):
		return CodeInvalidRequest
	default:
		return CodeInternalServer
	}
}

// InsufficientCoinsError provides detailed error information for a failed debit
type InsufficientCoinsError struct {
	UserID   string
	Required float64
	Balance  float64
}

// Error implements the error interface
func (e *InsufficientCoinsError) Error() string {
	return fmt.Sprintf("insufficient coins for user %s: required %.2f, available %.2f",
		e.UserID, e.Required, e.Balance)
}

// Is checks if the target error is an ErrInsufficientCoins
func (e *InsufficientCoinsError) Is(target error) bool {
	return target == ErrInsufficientCoins
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientCoinsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_coins",
		"user_id":    e.UserID,
		"required":   e.Required,
		"balance":    e.Balance,
		"error_code": CodeInsufficientCoins,
	}
}

// NewInsufficientCoinsError creates a new detailed insufficient coins error
func NewInsufficientCoinsError(userID string, required, balance float64) error {
	return &InsufficientCoinsError{
		UserID:   userID,
		Required: required,
		Balance:  balance,
	}
}

// LedgerError represents an error produced while applying a balance mutation
type LedgerError struct {
	UserID string
	Amount float64
	Reason string
	Err    error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger operation failed for user %s (amount: %.2f): %s - %v",
		e.UserID, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "ledger_error",
		"user_id":    e.UserID,
		"amount":     e.Amount,
		"reason":     e.Reason,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewLedgerError creates a detailed ledger error
func NewLedgerError(userID string, amount float64, reason string, err error) error {
	return &LedgerError{
		UserID: userID,
		Amount: amount,
		Reason: reason,
		Err:    err,
	}
}

// WebhookError represents an error raised while processing a webhook event
type WebhookError struct {
	EventID   string
	EventType string
	Err       error
}

// Error implements the error interface for WebhookError
func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook event %s (%s) failed: %v", e.EventID, e.EventType, e.Err)
}

// Unwrap returns the underlying error
func (e *WebhookError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *WebhookError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "webhook_error",
		"event_id":   e.EventID,
		"event_type": e.EventType,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewWebhookError creates a detailed webhook processing error
func NewWebhookError(eventID, eventType string, err error) error {
	return &WebhookError{
		EventID:   eventID,
		EventType: eventType,
		Err:       err,
	}
}

// IsInsufficientCoinsError checks if the error is related to insufficient coins
func IsInsufficientCoinsError(err error) bool {
	return errors.Is(err, ErrInsufficientCoins)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsDuplicateEventError checks if the error marks an already processed event
func IsDuplicateEventError(err error) bool {
	return errors.Is(err, ErrDuplicateEvent)
}

// IsExternalServiceError checks if the error came from an upstream provider
func IsExternalServiceError(err error) bool {
	return errors.Is(err, ErrExternalService)
}

// IsAuthError checks if the error is any authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken)
}
