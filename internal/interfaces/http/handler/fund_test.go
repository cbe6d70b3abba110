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
	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// MockFundRepository implements fund.Repository for testing
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

func (m *MockFundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fund.Fund, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*fund.Fund), args.Get(1).(int64), args.Error(2)
}

func (m *MockFundRepository) Save(ctx context.Context, f *fund.Fund) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVersionRepository implements audit.Repository for testing
type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Append(ctx context.Context, v *audit.Version) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVersionRepository) FindForItem(ctx context.Context, itemType string, itemID uuid.UUID, filter shared.Filter) ([]*audit.Version, int64, error) {
	args := m.Called(ctx, itemType, itemID, filter)
	return args.Get(0).([]*audit.Version), args.Get(1).(int64), args.Error(2)
}

func (m *MockVersionRepository) FindForParent(ctx context.Context, parentType string, parentID uuid.UUID, filter shared.Filter) ([]*audit.Version, int64, error) {
	args := m.Called(ctx, parentType, parentID, filter)
	return args.Get(0).([]*audit.Version), args.Get(1).(int64), args.Error(2)
}

func setupFundRouter(t *testing.T, actor *authz.Actor) (*gin.Engine, *MockFundRepository, *MockVersionRepository) {
	t.Helper()

	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := fundapp.NewFundService(fundRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})
	h := NewFundHandler(service)

	engine := gin.New()
	if actor != nil {
		engine.Use(withActor(*actor))
	}
	engine.POST("/funds", h.Create)
	engine.GET("/funds", h.List)
	engine.GET("/funds/:id", h.GetByID)
	engine.PUT("/funds/:id", h.Update)
	engine.POST("/funds/:id/close", h.Close)
	engine.POST("/funds/:id/reopen", h.Reopen)
	versionHandler := NewVersionHandler(appaudit.NewHistoryService(versionRepo))
	engine.GET("/funds/:id/versions", versionHandler.History("Fund"))
	engine.GET("/funds/:id/versions/combined", versionHandler.CombinedHistory("Fund"))

	return engine, fundRepo, versionRepo
}

func testFund(t *testing.T) *fund.Fund {
	t.Helper()
	f, err := fund.NewFund("Growth Fund I", "private_equity", "EUR", 2020)
	require.NoError(t, err)
	return f
}

func TestFundHandler_Create(t *testing.T) {
	t.Run("creates fund", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, versionRepo := setupFundRouter(t, &actor)

		fundRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		versionRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]any{
			"name":         "Growth Fund I",
			"fund_type":    "private_equity",
			"currency":     "EUR",
			"issuing_year": 2020,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Growth Fund I", data["name"])
		assert.Equal(t, "open", data["state"])
		fundRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		body, _ := json.Marshal(map[string]any{"name": "No currency"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		fundRepo.AssertNotCalled(t, "Save")
	})

	t.Run("requires authentication", func(t *testing.T) {
		engine, _, _ := setupFundRouter(t, nil)

		body, _ := json.Marshal(map[string]any{
			"name":         "Growth Fund I",
			"fund_type":    "private_equity",
			"currency":     "EUR",
			"issuing_year": 2020,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forbids actors without fund roles", func(t *testing.T) {
		actor := authz.Actor{UserID: uuid.New(), Channel: authz.ChannelWeb}
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		body, _ := json.Marshal(map[string]any{
			"name":         "Growth Fund I",
			"fund_type":    "private_equity",
			"currency":     "EUR",
			"issuing_year": 2020,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		fundRepo.AssertNotCalled(t, "Save")
	})
}

func TestFundHandler_GetByID(t *testing.T) {
	t.Run("returns fund", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		f := testFund(t)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/funds/"+f.ID.String(), nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, f.ID.String(), data["id"])
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		actor := adminActor(t)
		engine, _, _ := setupFundRouter(t, &actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/funds/not-a-uuid", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		fundID := uuid.New()
		fundRepo.On("FindByID", mock.Anything, fundID).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/funds/"+fundID.String(), nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestFundHandler_List(t *testing.T) {
	t.Run("lists funds with pagination meta", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		funds := []*fund.Fund{testFund(t), testFund(t)}
		fundRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 2 && f.PageSize == 10 && f.Filters["state"] == "open"
		})).Return(funds, int64(12), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/funds?page=2&page_size=10&state=open", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(12), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
	})

	t.Run("rejects invalid state filter", func(t *testing.T) {
		actor := adminActor(t)
		engine, _, _ := setupFundRouter(t, &actor)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/funds?state=bogus", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFundHandler_Close(t *testing.T) {
	t.Run("closes open fund", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, versionRepo := setupFundRouter(t, &actor)

		f := testFund(t)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		fundRepo.On("Save", mock.Anything, f).Return(nil)
		versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
			change, ok := v.ObjectChanges["state"]
			return ok && change[1] == "closed"
		})).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds/"+f.ID.String()+"/close", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "closed", data["state"])
		versionRepo.AssertExpectations(t)
	})

	t.Run("rejects closing an already closed fund", func(t *testing.T) {
		actor := adminActor(t)
		engine, fundRepo, _ := setupFundRouter(t, &actor)

		f := testFund(t)
		require.NoError(t, f.Close())
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/funds/"+f.ID.String()+"/close", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fundRepo.AssertNotCalled(t, "Save")
	})
}

func TestFundHandler_CombinedVersions(t *testing.T) {
	actor := adminActor(t)
	engine, _, versionRepo := setupFundRouter(t, &actor)

	f := testFund(t)
	v, err := audit.NewVersion("InvestorCashflow", uuid.New(), audit.EventCreate, nil,
		audit.Snapshot{"state": "open"}, nil, &audit.ParentRef{ItemType: "Fund", ItemID: f.ID}, time.Now())
	require.NoError(t, err)
	versionRepo.On("FindForParent", mock.Anything, "Fund", f.ID, mock.Anything).
		Return([]*audit.Version{v}, int64(1), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/funds/"+f.ID.String()+"/versions/combined", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "InvestorCashflow", data[0].(map[string]any)["item_type"])
	versionRepo.AssertExpectations(t)
}
