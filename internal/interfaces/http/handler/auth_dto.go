package handler

import (
	"time"

	identityapp "github.com/rmcsharry/hq-api/internal/application/identity"
)

// SignInRequest represents sign-in credentials
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries the refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignOutRequest optionally revokes the refresh token alongside the
// access token, or every session the user holds
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AllSessions  bool   `json:"all_sessions"`
}

// TokenResponse represents the issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// SignInResponse represents a successful sign-in
type SignInResponse struct {
	Token TokenResponse            `json:"token"`
	User  identityapp.UserResponse `json:"user"`
}

// RefreshTokenResponse represents a successful token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// SignOutResponse confirms a sign-out
type SignOutResponse struct {
	Message string `json:"message"`
}
