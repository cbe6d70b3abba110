package mandate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockMandateRepository struct {
	mock.Mock
}

func (m *MockMandateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mandate.Mandate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mandate.Mandate), args.Error(1)
}

func (m *MockMandateRepository) FindVisible(ctx context.Context, mandateGroupIDs []uuid.UUID, filter shared.Filter) ([]*mandate.Mandate, int64, error) {
	args := m.Called(ctx, mandateGroupIDs, filter)
	return args.Get(0).([]*mandate.Mandate), args.Get(1).(int64), args.Error(2)
}

func (m *MockMandateRepository) Save(ctx context.Context, mnd *mandate.Mandate) error {
	args := m.Called(ctx, mnd)
	return args.Error(0)
}

func (m *MockMandateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMandateGroupRepository struct {
	mock.Mock
}

func (m *MockMandateGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.MandateGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.MandateGroup), args.Error(1)
}

func (m *MockMandateGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.MandateGroup, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*identity.MandateGroup), args.Error(1)
}

func (m *MockMandateGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.MandateGroup, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.MandateGroup), args.Get(1).(int64), args.Error(2)
}

func (m *MockMandateGroupRepository) Save(ctx context.Context, group *identity.MandateGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockMandateGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

// scopedActor can read mandates, but only within the given mandate groups.
func scopedActor(t *testing.T, mandateGroupIDs ...uuid.UUID) authz.Actor {
	t.Helper()
	group, err := identity.NewUserGroup("Consultants", []identity.Role{identity.RoleMandatesRead, identity.RoleMandatesWrite})
	require.NoError(t, err)
	for _, id := range mandateGroupIDs {
		require.NoError(t, group.AssignMandateGroup(id))
	}
	return authz.Actor{
		UserID:  uuid.New(),
		Roles:   identity.Resolve([]*identity.UserGroup{group}),
		Channel: authz.ChannelWeb,
	}
}

func newMandateService(mandateRepo *MockMandateRepository, groupRepo *MockMandateGroupRepository, versionRepo *MockVersionRepository) *MandateService {
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	return NewMandateService(mandateRepo, groupRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})
}

func orgGroup(t *testing.T) *identity.MandateGroup {
	t.Helper()
	g, err := identity.NewMandateGroup("HQ Trust", identity.MandateGroupOrganization)
	require.NoError(t, err)
	return g
}

func familyGroup(t *testing.T) *identity.MandateGroup {
	t.Helper()
	g, err := identity.NewMandateGroup("Family Miller", identity.MandateGroupFamily)
	require.NoError(t, err)
	return g
}

func prospectMandate(t *testing.T, groupIDs ...uuid.UUID) *mandate.Mandate {
	t.Helper()
	m, err := mandate.NewMandate("wealth_management")
	require.NoError(t, err)
	m.SetMandateGroups(groupIDs)
	return m
}

// =============================================================================
// MandateService Tests
// =============================================================================

func TestMandateService_CreateRequiresOrganizationGroup(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	family := familyGroup(t)
	groupRepo.On("FindByIDs", mock.Anything, []uuid.UUID{family.ID}).Return([]*identity.MandateGroup{family}, nil)

	_, err := service.Create(context.Background(), adminActor(t), CreateMandateRequest{
		Category:        "wealth_management",
		MandateGroupIDs: []uuid.UUID{family.ID},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	mandateRepo.AssertNotCalled(t, "Save")
}

func TestMandateService_Create(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	groupRepo.On("FindByIDs", mock.Anything, []uuid.UUID{org.ID}).Return([]*identity.MandateGroup{org}, nil)
	mandateRepo.On("Save", mock.Anything, mock.AnythingOfType("*mandate.Mandate")).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "Mandate" && v.Event == audit.EventCreate
	})).Return(nil)

	resp, err := service.Create(context.Background(), adminActor(t), CreateMandateRequest{
		Category:        "wealth_management",
		MandateGroupIDs: []uuid.UUID{org.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "prospect", resp.State)
	mandateRepo.AssertExpectations(t)
	versionRepo.AssertExpectations(t)
}

func TestMandateService_BecomeClientRequiresConsultants(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	m := prospectMandate(t, org.ID)
	mandateRepo.On("FindByID", mock.Anything, m.ID).Return(m, nil)

	_, err := service.BecomeClient(context.Background(), adminActor(t), m.ID)
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))
	verrs := err.(*shared.ValidationErrors)
	assert.True(t, verrs.On("primary_consultant"))
	assert.True(t, verrs.On("secondary_consultant"))
	assert.Equal(t, mandate.StateProspect, m.State)
	mandateRepo.AssertNotCalled(t, "Save")
}

func TestMandateService_BecomeClient(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	m := prospectMandate(t, org.ID)
	primary := uuid.New()
	secondary := uuid.New()
	require.NoError(t, m.AssignConsultants(&primary, &secondary, nil, nil))

	mandateRepo.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	mandateRepo.On("Save", mock.Anything, m).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		change, ok := v.ObjectChanges["state"]
		return ok && change[0] == "prospect" && change[1] == "client"
	})).Return(nil)

	resp, err := service.BecomeClient(context.Background(), adminActor(t), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "client", resp.State)
	versionRepo.AssertExpectations(t)
}

func TestMandateService_GetByIDDeniedOutsideGroupScope(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	m := prospectMandate(t, org.ID)
	mandateRepo.On("FindByID", mock.Anything, m.ID).Return(m, nil)

	actor := scopedActor(t, uuid.New()) // scoped to some other group
	_, err := service.GetByID(context.Background(), actor, m.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestMandateService_ListScopesToVisibleGroups(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	m := prospectMandate(t, org.ID)
	actor := scopedActor(t, org.ID)

	mandateRepo.On("FindVisible", mock.Anything, []uuid.UUID{org.ID}, mock.AnythingOfType("shared.Filter")).
		Return([]*mandate.Mandate{m}, int64(1), nil)

	responses, total, err := service.List(context.Background(), actor, MandateListFilter{})
	require.NoError(t, err)
	assert.Len(t, responses, 1)
	assert.Equal(t, int64(1), total)
	mandateRepo.AssertExpectations(t)
}

func TestMandateService_ListWithoutMandateRolesIsEmpty(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	group, err := identity.NewUserGroup("Readers", []identity.Role{identity.RoleContactsRead})
	require.NoError(t, err)
	actor := authz.Actor{
		UserID:  uuid.New(),
		Roles:   identity.Resolve([]*identity.UserGroup{group}),
		Channel: authz.ChannelWeb,
	}

	responses, total, err := service.List(context.Background(), actor, MandateListFilter{})
	require.NoError(t, err)
	assert.Empty(t, responses)
	assert.Zero(t, total)
	mandateRepo.AssertNotCalled(t, "FindVisible")
}

func TestMandateService_AddMemberRecordsNestedVersion(t *testing.T) {
	mandateRepo := new(MockMandateRepository)
	groupRepo := new(MockMandateGroupRepository)
	versionRepo := new(MockVersionRepository)
	service := newMandateService(mandateRepo, groupRepo, versionRepo)

	org := orgGroup(t)
	m := prospectMandate(t, org.ID)
	contactID := uuid.New()

	mandateRepo.On("FindByID", mock.Anything, m.ID).Return(m, nil)
	mandateRepo.On("Save", mock.Anything, m).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "MandateMember" &&
			v.ParentItemType != nil && *v.ParentItemType == "Mandate" &&
			v.ParentItemID != nil && *v.ParentItemID == m.ID
	})).Return(nil)

	resp, err := service.AddMember(context.Background(), adminActor(t), m.ID, AddMemberRequest{
		ContactID:  contactID,
		MemberType: "owner",
	})
	require.NoError(t, err)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, contactID, resp.Members[0].ContactID)
	versionRepo.AssertExpectations(t)
}
