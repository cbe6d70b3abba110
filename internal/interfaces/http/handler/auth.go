package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/rmcsharry/hq-api/internal/application/identity"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/infrastructure/auth"
	"github.com/rmcsharry/hq-api/internal/infrastructure/logger"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	users       identity.UserRepository
	userService *identityapp.UserService
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users identity.UserRepository, userService *identityapp.UserService, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{
		users:       users,
		userService: userService,
		jwtService:  jwtService,
		blacklist:   blacklist,
	}
}

// SignIn authenticates a user with email and password and issues a token
// pair. Failed lookups and wrong passwords return the same error so the
// endpoint cannot be used to probe for registered addresses.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil || !user.VerifyPassword(req.Password) {
		h.Unauthorized(c, "Invalid email or password")
		return
	}
	if !user.IsConfirmed() {
		h.Unauthorized(c, "Account is not confirmed")
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:  user.ID,
		Email:   user.Email,
		Channel: string(authz.ChannelWeb),
	})
	if err != nil {
		h.InternalError(c, "Failed to issue tokens")
		return
	}

	if err := h.userService.RecordSignIn(c.Request.Context(), user.ID, time.Now()); err != nil {
		// The sign-in counter is informational; a stale value must not
		// block the session.
		logger.L(c.Request.Context()).Warn("Failed to record sign-in",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	h.Success(c, SignInResponse{
		Token: toTokenResponse(pair),
		User:  identityapp.ToUserResponse(user),
	})
}

// RefreshToken issues a new token pair from a valid refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	if h.blacklist != nil {
		if claims.ID != "" {
			if blacklisted, err := h.blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && blacklisted {
				h.Unauthorized(c, "Refresh token has been revoked")
				return
			}
		}
		if invalidated, err := h.blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.GetIssuedAtTime()); err == nil && invalidated {
			h.Unauthorized(c, "Session has been invalidated")
			return
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	// Re-read the user so a changed email lands in the new claims and
	// deleted users cannot refresh.
	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	pair, err := h.jwtService.RefreshTokenPair(req.RefreshToken, user.Email)
	if err != nil {
		h.Unauthorized(c, "Invalid refresh token")
		return
	}

	h.Success(c, RefreshTokenResponse{Token: toTokenResponse(pair)})
}

// SignOut revokes the current access token, optionally the presented
// refresh token, or every session the user holds
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SignOutRequest
	// The body is optional; sign-out without one revokes the access token.
	_ = c.ShouldBindJSON(&req)

	if h.blacklist != nil {
		ctx := c.Request.Context()

		if claims.ID != "" {
			if err := h.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				h.InternalError(c, "Failed to revoke token")
				return
			}
		}

		if req.RefreshToken != "" {
			if refreshClaims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err == nil && refreshClaims.ID != "" {
				if err := h.blacklist.AddToBlacklist(ctx, refreshClaims.ID, refreshClaims.GetRemainingTTL()); err != nil {
					h.InternalError(c, "Failed to revoke refresh token")
					return
				}
			}
		}

		if req.AllSessions {
			if err := h.blacklist.AddUserTokensToBlacklist(ctx, claims.UserID, h.jwtService.GetRefreshTokenExpiration()); err != nil {
				h.InternalError(c, "Failed to revoke sessions")
				return
			}
		}
	}

	h.Success(c, SignOutResponse{Message: "Signed out successfully"})
}

// GetCurrentUser returns the authenticated user's record
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, identityapp.ToUserResponse(user))
}

// toTokenResponse converts an issued token pair to its response form
func toTokenResponse(pair *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}
