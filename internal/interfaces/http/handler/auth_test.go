package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	identityapp "github.com/rmcsharry/hq-api/internal/application/identity"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/auth"
	"github.com/rmcsharry/hq-api/internal/infrastructure/config"
)

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByConfirmationToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByInvitationToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-handler-tests-32ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "hq-api-test",
	})
}

func setupAuthRouter(t *testing.T, actor *authz.Actor) (*gin.Engine, *MockUserRepository, *auth.JWTService) {
	t.Helper()

	userRepo := new(MockUserRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	userService := identityapp.NewUserService(userRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})
	jwtService := testJWTService()
	h := NewAuthHandler(userRepo, userService, jwtService, auth.NewInMemoryTokenBlacklist())

	engine := gin.New()
	if actor != nil {
		engine.Use(withActor(*actor))
	}
	engine.POST("/auth/sign-in", h.SignIn)
	engine.POST("/auth/refresh", h.RefreshToken)
	engine.POST("/auth/sign-out", h.SignOut)
	engine.GET("/auth/me", h.GetCurrentUser)

	return engine, userRepo, jwtService
}

func confirmedUser(t *testing.T, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, password)
	require.NoError(t, err)
	now := time.Now()
	user.ConfirmedAt = &now
	return user
}

func postJSON(engine *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("issues token pair for valid credentials", func(t *testing.T) {
		engine, userRepo, _ := setupAuthRouter(t, nil)

		user := confirmedUser(t, "advisor@hqfinanz.de", "s3cret-passw0rd")
		userRepo.On("FindByEmail", mock.Anything, "advisor@hqfinanz.de").Return(user, nil)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil).Maybe()
		userRepo.On("Save", mock.Anything, user).Return(nil).Maybe()

		w := postJSON(engine, "/auth/sign-in", map[string]string{
			"email":    "advisor@hqfinanz.de",
			"password": "s3cret-passw0rd",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		token := data["token"].(map[string]any)
		assert.NotEmpty(t, token["access_token"])
		assert.NotEmpty(t, token["refresh_token"])
		assert.Equal(t, "Bearer", token["token_type"])
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		engine, userRepo, _ := setupAuthRouter(t, nil)

		user := confirmedUser(t, "advisor@hqfinanz.de", "s3cret-passw0rd")
		userRepo.On("FindByEmail", mock.Anything, "advisor@hqfinanz.de").Return(user, nil)

		w := postJSON(engine, "/auth/sign-in", map[string]string{
			"email":    "advisor@hqfinanz.de",
			"password": "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("uses the same error for unknown accounts", func(t *testing.T) {
		engine, userRepo, _ := setupAuthRouter(t, nil)

		userRepo.On("FindByEmail", mock.Anything, "nobody@hqfinanz.de").Return(nil, shared.ErrNotFound)

		w := postJSON(engine, "/auth/sign-in", map[string]string{
			"email":    "nobody@hqfinanz.de",
			"password": "whatever-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "Invalid email or password", resp.Error.Message)
	})

	t.Run("rejects unconfirmed accounts", func(t *testing.T) {
		engine, userRepo, _ := setupAuthRouter(t, nil)

		user, err := identity.NewUser("pending@hqfinanz.de", "s3cret-passw0rd")
		require.NoError(t, err)
		userRepo.On("FindByEmail", mock.Anything, "pending@hqfinanz.de").Return(user, nil)

		w := postJSON(engine, "/auth/sign-in", map[string]string{
			"email":    "pending@hqfinanz.de",
			"password": "s3cret-passw0rd",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		engine, _, _ := setupAuthRouter(t, nil)

		w := postJSON(engine, "/auth/sign-in", map[string]string{"email": "not-an-email"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("issues a new pair from a valid refresh token", func(t *testing.T) {
		engine, userRepo, jwtService := setupAuthRouter(t, nil)

		user := confirmedUser(t, "advisor@hqfinanz.de", "s3cret-passw0rd")
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:  user.ID,
			Email:   user.Email,
			Channel: string(authz.ChannelWeb),
		})
		require.NoError(t, err)
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		w := postJSON(engine, "/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		token := data["token"].(map[string]any)
		assert.NotEmpty(t, token["access_token"])
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		engine, _, _ := setupAuthRouter(t, nil)

		w := postJSON(engine, "/auth/refresh", map[string]string{
			"refresh_token": "not-a-jwt",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects refresh for deleted users", func(t *testing.T) {
		engine, userRepo, jwtService := setupAuthRouter(t, nil)

		userID := uuid.New()
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			UserID:  userID,
			Email:   "gone@hqfinanz.de",
			Channel: string(authz.ChannelWeb),
		})
		require.NoError(t, err)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		w := postJSON(engine, "/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_SignOut(t *testing.T) {
	t.Run("requires claims", func(t *testing.T) {
		engine, _, _ := setupAuthRouter(t, nil)

		w := postJSON(engine, "/auth/sign-out", map[string]string{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		actor := adminActor(t)
		engine, userRepo, _ := setupAuthRouter(t, &actor)

		user := confirmedUser(t, "advisor@hqfinanz.de", "s3cret-passw0rd")
		user.ID = actor.UserID
		userRepo.On("FindByID", mock.Anything, actor.UserID).Return(user, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "advisor@hqfinanz.de", data["email"])
	})

	t.Run("requires authentication", func(t *testing.T) {
		engine, _, _ := setupAuthRouter(t, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
