package dto

import "github.com/bugswriter/bizniz-api/internal/domain/entity"

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest carries a bare email address for verification and reset flows
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmVerificationRequest is the body of POST /auth/confirm-verification
type ConfirmVerificationRequest struct {
	Token string `json:"token" binding:"required"`
}

// ConfirmPasswordResetRequest is the body of POST /auth/confirm-password-reset
type ConfirmPasswordResetRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// OAuthCallbackRequest is the body of POST /auth/oauth-callback
type OAuthCallbackRequest struct {
	Provider     string `json:"provider" binding:"required"`
	Code         string `json:"code" binding:"required"`
	CodeVerifier string `json:"code_verifier" binding:"required"`
	RedirectURL  string `json:"redirect_url" binding:"required,url"`
}

// AuthResponse is the result of a successful login or OAuth exchange
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// OAuthProvidersResponse lists the configured OAuth2 providers
type OAuthProvidersResponse struct {
	Providers []entity.OAuthProvider `json:"providers"`
}

// MessageResponse is a plain acknowledgment body
type MessageResponse struct {
	Message string `json:"message"`
}
