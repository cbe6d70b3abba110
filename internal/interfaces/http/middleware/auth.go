package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/infrastructure/auth"
	"github.com/rmcsharry/hq-api/internal/infrastructure/logger"
)

// Auth context keys
const (
	ActorKey      = "auth_actor"
	ClaimsKey     = "auth_claims"
	UserIDKey     = "auth_user_id"
	ChannelKey    = "auth_channel"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "

	// EWSKeyHeader carries the shared API key for the Exchange sync
	// channel; EWSUserHeader names the user the add-in acts for.
	EWSKeyHeader  = "X-EWS-Auth-Key"
	EWSUserHeader = "X-EWS-User-Email"
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	// JWTService is required for token and EWS key validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// Authorizer resolves the authenticated user into an actor with
	// role grants; required
	Authorizer *authorization.Authorizer
	// Users resolves EWS channel emails to user records
	Users identity.UserRepository
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// Auth creates the authentication middleware. Requests authenticate either
// with a Bearer access token or, for the Exchange sync surface, with the
// shared EWS key plus the acting user's email. Both paths end with a
// resolved authz.Actor in the request context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if key := c.GetHeader(EWSKeyHeader); key != "" {
			authenticateEWS(c, cfg, key)
			return
		}

		authenticateBearer(c, cfg)
	}
}

// authenticateBearer validates a JWT access token and resolves the actor
func authenticateBearer(c *gin.Context, cfg AuthConfig) {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
		return
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
		return
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
		return
	}

	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		abortUnauthorized(c, cfg, err, "Token validation failed")
		return
	}

	if cfg.TokenBlacklist != nil {
		ctx := c.Request.Context()

		// Individual sign-out revokes the token's JTI.
		if claims.ID != "" {
			blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				// Fail open for availability when the store is down.
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token blacklist",
						zap.String("jti", claims.ID),
						zap.Error(err))
				}
			} else if blacklisted {
				abortUnauthorized(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
				return
			}
		}

		// Password resets invalidate every token issued before them.
		tokenIssuedAt := claims.GetIssuedAtTime()
		invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, tokenIssuedAt)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check user token invalidation",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			}
		} else if invalidated {
			abortUnauthorized(c, cfg, auth.ErrTokenBlacklisted, "User session has been invalidated")
			return
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "Invalid user ID in token")
		return
	}

	channel := authz.ChannelWeb
	if claims.Channel == string(authz.ChannelEWS) {
		channel = authz.ChannelEWS
	}

	actor, err := cfg.Authorizer.ActorFor(c.Request.Context(), userID, channel)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("Failed to resolve actor",
				zap.String("user_id", claims.UserID),
				zap.Error(err))
		}
		abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "Failed to resolve user roles")
		return
	}

	storeIdentity(c, actor, claims)
	c.Next()
}

// authenticateEWS validates the shared Exchange sync key and resolves the
// acting user by email
func authenticateEWS(c *gin.Context, cfg AuthConfig, key string) {
	if !cfg.JWTService.ValidateEWSKey(key) {
		abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid EWS key")
		return
	}

	email := c.GetHeader(EWSUserHeader)
	if email == "" {
		abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "Missing EWS user email")
		return
	}

	user, err := cfg.Users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "Unknown EWS user")
		return
	}

	actor, err := cfg.Authorizer.ActorFor(c.Request.Context(), user.ID, authz.ChannelEWS)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("Failed to resolve EWS actor",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
		abortUnauthorized(c, cfg, auth.ErrInvalidClaims, "Failed to resolve user roles")
		return
	}

	storeIdentity(c, actor, nil)
	c.Next()
}

// storeIdentity records the authenticated identity in both the gin context
// and the request context used by the logger
func storeIdentity(c *gin.Context, actor authz.Actor, claims *auth.Claims) {
	c.Set(ActorKey, actor)
	c.Set(UserIDKey, actor.UserID.String())
	c.Set(ChannelKey, string(actor.Channel))
	if claims != nil {
		c.Set(ClaimsKey, claims)
	}

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithUserID(ctx, log, actor.UserID.String())
	c.Request = c.Request.WithContext(ctx)
}

// abortUnauthorized handles authentication errors
func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "ERR_UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		errorCode = "ERR_TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Invalid token"
	case auth.ErrInvalidTokenType:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Invalid token type"
	case auth.ErrTokenNotYetValid:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		errorCode = "ERR_TOKEN_INVALID"
		errorMessage = "Token has been revoked"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetActor retrieves the resolved actor from gin.Context
func GetActor(c *gin.Context) (authz.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(authz.Actor); ok {
			return actor, true
		}
	}
	return authz.Actor{}, false
}

// GetClaims retrieves JWT claims from gin.Context. EWS requests carry no
// claims.
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user ID from gin.Context
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// GetChannel retrieves the authentication channel from gin.Context
func GetChannel(c *gin.Context) string {
	if v, exists := c.Get(ChannelKey); exists {
		if ch, ok := v.(string); ok {
			return ch
		}
	}
	return ""
}
