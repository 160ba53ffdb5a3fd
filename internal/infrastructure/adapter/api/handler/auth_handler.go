package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/bugswriter/bizniz-api/internal/domain/port/core"
	authUseCase "github.com/bugswriter/bizniz-api/internal/domain/usecase/auth"
	"github.com/bugswriter/bizniz-api/internal/infrastructure/adapter/api/dto"
)

// AuthHandler handles account lifecycle and authentication HTTP requests
type AuthHandler struct {
	authService *authUseCase.Service
	logger      coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(authService *authUseCase.Service, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles the POST /auth/register endpoint
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles the POST /auth/login endpoint
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: session.Token,
		User:  dto.NewUserResponse(session.User),
	})
}

// ResendVerification handles the POST /auth/resend-verification endpoint.
// The response never reveals whether the email exists.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.authService.ResendVerification(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "If the account exists, a verification email has been sent",
	})
}

// ConfirmVerification handles the POST /auth/confirm-verification endpoint
func (h *AuthHandler) ConfirmVerification(c *gin.Context) {
	var req dto.ConfirmVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.ConfirmVerification(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified"})
}

// RequestPasswordReset handles the POST /auth/request-password-reset endpoint.
// Enumeration-safe like ResendVerification.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.authService.RequestPasswordReset(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "If the account exists, a password reset email has been sent",
	})
}

// ConfirmPasswordReset handles the POST /auth/confirm-password-reset endpoint
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.ConfirmPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password, req.PasswordConfirm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}

// OAuthProviders handles the GET /auth/oauth-providers endpoint
func (h *AuthHandler) OAuthProviders(c *gin.Context) {
	providers, err := h.authService.OAuthProviders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OAuthProvidersResponse{Providers: providers})
}

// OAuthCallback handles the POST /auth/oauth-callback endpoint
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	var req dto.OAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := h.authService.OAuthCallback(
		c.Request.Context(), req.Provider, req.Code, req.CodeVerifier, req.RedirectURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: session.Token,
		User:  dto.NewUserResponse(session.User),
	})
}
