package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bugswriter/bizniz-api/internal/domain/entity"
	domainerr "github.com/bugswriter/bizniz-api/internal/domain/error"
	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	authUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/auth"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
)

// currentUserKey is the gin context key the authenticated user is stored under
const currentUserKey = "currentUser"

// RequireAuth validates the bearer token on every request and stores the
// fresh user record in the request context. The token is re-validated against
// the user store each time, so revoked accounts are cut off immediately.
func RequireAuth(authService *authUseCase.Service, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidToken),
				Message: "Missing or malformed Authorization header",
			})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidToken),
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entity.User)
	return user, ok
}

// extractBearerToken pulls the token out of an Authorization header,
// accepting both "Bearer <token>" and a bare token
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return strings.TrimSpace(header)
}
