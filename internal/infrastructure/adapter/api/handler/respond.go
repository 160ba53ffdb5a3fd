package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
)

// statusForError maps domain errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrInvalidRequest),
		errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidUserID),
		errors.Is(err, domainerr.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrInvalidCredentials),
		errors.Is(err, domainerr.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domainerr.ErrInsufficientCoins):
		return http.StatusPaymentRequired
	case errors.Is(err, domainerr.ErrAccountNotVerified),
		errors.Is(err, domainerr.ErrPurchaseNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, domainerr.ErrUserNotFound),
		errors.Is(err, domainerr.ErrNoBillingAccount),
		errors.Is(err, domainerr.ErrNoSubscription):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrDuplicateEmail),
		errors.Is(err, domainerr.ErrSubscriptionConflict),
		errors.Is(err, domainerr.ErrDuplicateEvent):
		return http.StatusConflict
	case errors.Is(err, domainerr.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domainerr.ErrExternalService):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a standardized error body for a domain error
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Never leak internals in 500 bodies.
		message = "Internal server error"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: message,
	})
}

// respondBindError writes a 400 for a failed request body binding
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Message: "Invalid request format: " + err.Error(),
	})
}
