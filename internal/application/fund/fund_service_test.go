package fund

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

type MockInvestorRepository struct {
	mock.Mock
}

func (m *MockInvestorRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Investor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Investor), args.Error(1)
}

func (m *MockInvestorRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*fund.Investor, int64, error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).([]*fund.Investor), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvestorRepository) Save(ctx context.Context, investor *fund.Investor) error {
	args := m.Called(ctx, investor)
	return args.Error(0)
}

func (m *MockInvestorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCashflowRepository struct {
	mock.Mock
}

func (m *MockCashflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.FundCashflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.FundCashflow), args.Error(1)
}

func (m *MockCashflowRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*fund.FundCashflow, int64, error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).([]*fund.FundCashflow), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashflowRepository) FindLineByID(ctx context.Context, id uuid.UUID) (*fund.InvestorCashflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.InvestorCashflow), args.Error(1)
}

func (m *MockCashflowRepository) Save(ctx context.Context, cashflow *fund.FundCashflow) error {
	args := m.Called(ctx, cashflow)
	return args.Error(0)
}

func (m *MockCashflowRepository) SaveLine(ctx context.Context, line *fund.InvestorCashflow) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCashflowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

// =============================================================================
// Helpers
// =============================================================================

func adminActor(t *testing.T) authz.Actor {
	t.Helper()
	group, err := identity.NewUserGroup("Admins", []identity.Role{identity.RoleAdmin})
	require.NoError(t, err)
	return authz.Actor{
		UserID:  uuid.New(),
		Roles:   identity.Resolve([]*identity.UserGroup{group}),
		Channel: authz.ChannelWeb,
	}
}

func openFund(t *testing.T) *fund.Fund {
	t.Helper()
	f, err := fund.NewFund("Growth Fund I", "private_equity", "EUR", 2020)
	require.NoError(t, err)
	return f
}

func signedInvestor(t *testing.T, fundID uuid.UUID) *fund.Investor {
	t.Helper()
	investor, err := fund.NewInvestor(fundID, uuid.New(), uuid.New(), decimal.NewFromInt(100000))
	require.NoError(t, err)
	require.NoError(t, investor.AttachSubscriptionAgreement(uuid.New()))
	require.NoError(t, investor.Sign(time.Now()))
	return investor
}

// =============================================================================
// InvestorService Tests
// =============================================================================

func TestInvestorService_CreateRejectedForClosedFund(t *testing.T) {
	investorRepo := new(MockInvestorRepository)
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewInvestorService(investorRepo, fundRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})

	f := openFund(t)
	require.NoError(t, f.Close())
	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

	_, err := service.Create(context.Background(), adminActor(t), f.ID, CreateInvestorRequest{
		MandateID:   uuid.New(),
		ContactID:   uuid.New(),
		AmountTotal: decimal.NewFromInt(50000),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FUND_CLOSED", domainErr.Code)
	investorRepo.AssertNotCalled(t, "Save")
}

func TestInvestorService_SignSetsInvestmentDate(t *testing.T) {
	investorRepo := new(MockInvestorRepository)
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewInvestorService(investorRepo, fundRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})

	investor, err := fund.NewInvestor(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(100000))
	require.NoError(t, err)
	investorRepo.On("FindByID", mock.Anything, investor.ID).Return(investor, nil)
	investorRepo.On("Save", mock.Anything, investor).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		change, ok := v.ObjectChanges["state"]
		return ok && change[0] == "created" && change[1] == "signed"
	})).Return(nil)

	resp, err := service.Sign(context.Background(), adminActor(t), investor.ID, SignInvestorRequest{
		FundSubscriptionAgreementID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "signed", resp.State)
	assert.NotNil(t, resp.InvestmentDate)
	versionRepo.AssertExpectations(t)
}

// =============================================================================
// CashflowService Tests
// =============================================================================

func TestCashflowService_CreateRejectsUnsignedInvestorLine(t *testing.T) {
	cashflowRepo := new(MockCashflowRepository)
	investorRepo := new(MockInvestorRepository)
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewCashflowService(cashflowRepo, investorRepo, fundRepo, authorizer, recorder, shared.NopUnitOfWork{})

	f := openFund(t)
	signed := signedInvestor(t, f.ID)
	unsigned, err := fund.NewInvestor(f.ID, uuid.New(), uuid.New(), decimal.NewFromInt(50000))
	require.NoError(t, err)

	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	investorRepo.On("FindByID", mock.Anything, signed.ID).Return(signed, nil)
	investorRepo.On("FindByID", mock.Anything, unsigned.ID).Return(unsigned, nil)

	_, err = service.Create(context.Background(), adminActor(t), f.ID, CreateCashflowRequest{
		Number:     1,
		ValutaDate: time.Now(),
		Lines: []CashflowLineRequest{
			{InvestorID: signed.ID, CapitalCall: decimal.NewFromInt(10000)},
			{InvestorID: unsigned.ID, CapitalCall: decimal.NewFromInt(5000)},
		},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	// one bad line rejects the whole batch
	cashflowRepo.AssertNotCalled(t, "Save")
	versionRepo.AssertNotCalled(t, "Append")
}

func TestCashflowService_CreateRecordsBatchAndLines(t *testing.T) {
	cashflowRepo := new(MockCashflowRepository)
	investorRepo := new(MockInvestorRepository)
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewCashflowService(cashflowRepo, investorRepo, fundRepo, authorizer, recorder, shared.NopUnitOfWork{})

	f := openFund(t)
	first := signedInvestor(t, f.ID)
	second := signedInvestor(t, f.ID)

	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	investorRepo.On("FindByID", mock.Anything, first.ID).Return(first, nil)
	investorRepo.On("FindByID", mock.Anything, second.ID).Return(second, nil)
	cashflowRepo.On("Save", mock.Anything, mock.AnythingOfType("*fund.FundCashflow")).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "FundCashflow" && v.ParentItemType != nil && *v.ParentItemType == "Fund" && *v.ParentItemID == f.ID
	})).Return(nil).Once()
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "InvestorCashflow" && v.ParentItemType != nil && *v.ParentItemType == "Fund" && *v.ParentItemID == f.ID
	})).Return(nil).Times(2)

	resp, err := service.Create(context.Background(), adminActor(t), f.ID, CreateCashflowRequest{
		Number:     1,
		ValutaDate: time.Now(),
		Lines: []CashflowLineRequest{
			{InvestorID: first.ID, CapitalCall: decimal.NewFromInt(10000)},
			{InvestorID: second.ID, Distribution: decimal.NewFromInt(4000)},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.NetAmount.Equal(decimal.NewFromInt(-6000)))
	cashflowRepo.AssertExpectations(t)
	versionRepo.AssertExpectations(t)
}

func TestCashflowService_FinishLineRecordsFundParentedVersion(t *testing.T) {
	cashflowRepo := new(MockCashflowRepository)
	investorRepo := new(MockInvestorRepository)
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewCashflowService(cashflowRepo, investorRepo, fundRepo, authorizer, recorder, shared.NopUnitOfWork{})

	f := openFund(t)
	batch, err := fund.NewFundCashflow(f.ID, 1, time.Now())
	require.NoError(t, err)
	line, err := batch.AddLine(signedInvestor(t, f.ID), fund.LineAmounts{CapitalCall: decimal.NewFromInt(100)})
	require.NoError(t, err)

	cashflowRepo.On("FindLineByID", mock.Anything, line.ID).Return(line, nil)
	cashflowRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
	cashflowRepo.On("SaveLine", mock.Anything, line).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		if v.ItemType != "InvestorCashflow" || v.Event != audit.EventUpdate {
			return false
		}
		return v.ParentItemType != nil && *v.ParentItemType == "Fund" && *v.ParentItemID == f.ID
	})).Return(nil)

	resp, err := service.FinishLine(context.Background(), adminActor(t), line.ID)
	require.NoError(t, err)
	assert.Equal(t, "finished", resp.State)
	versionRepo.AssertExpectations(t)
}

// =============================================================================
// FundService Tests
// =============================================================================

func TestFundService_CloseAndReopen(t *testing.T) {
	fundRepo := new(MockFundRepository)
	versionRepo := new(MockVersionRepository)
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	service := NewFundService(fundRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})

	f := openFund(t)
	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	fundRepo.On("Save", mock.Anything, f).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.AnythingOfType("*audit.Version")).Return(nil)

	resp, err := service.Close(context.Background(), adminActor(t), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed", resp.State)

	_, err = service.Close(context.Background(), adminActor(t), f.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	resp, err = service.Reopen(context.Background(), adminActor(t), f.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", resp.State)
}
