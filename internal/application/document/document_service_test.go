package document

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/document"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOwner(ctx context.Context, owner shared.OwnerRef, filter shared.Filter) ([]*document.Document, int64, error) {
	args := m.Called(ctx, owner, filter)
	return args.Get(0).([]*document.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
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

func newService(docRepo *MockDocumentRepository, storage *MockStorage, versionRepo *MockVersionRepository) *Service {
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	return NewService(docRepo, nil, nil, storage, authorizer, recorder, shared.NopUnitOfWork{})
}

func contactDocument(t *testing.T) *document.Document {
	t.Helper()
	owner, err := shared.NewOwnerRef(shared.OwnerContact, uuid.New())
	require.NoError(t, err)
	doc, err := document.NewDocument(owner, "passport.pdf", document.CategoryKYC, "documents/contact/key", uuid.New())
	require.NoError(t, err)
	return doc
}

func TestService_InitiateUpload(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	storage := new(MockStorage)
	versionRepo := new(MockVersionRepository)
	service := newService(docRepo, storage, versionRepo)

	expiresAt := time.Now().Add(15 * time.Minute)
	storage.On("GenerateUploadURL", mock.Anything, mock.AnythingOfType("string"), "application/pdf", 15*time.Minute).
		Return("https://storage.example.com/upload", expiresAt, nil)
	docRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "Document" && v.Event == audit.EventCreate
	})).Return(nil)

	resp, err := service.InitiateUpload(context.Background(), adminActor(t), InitiateUploadRequest{
		OwnerType:   "Contact",
		OwnerID:     uuid.New(),
		Name:        "passport.pdf",
		Category:    "kyc",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/upload", resp.UploadURL)
	assert.False(t, resp.Document.ReadOnly)
	docRepo.AssertExpectations(t)
}

func TestService_InitiateUploadRejectsContentType(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	storage := new(MockStorage)
	versionRepo := new(MockVersionRepository)
	service := newService(docRepo, storage, versionRepo)

	_, err := service.InitiateUpload(context.Background(), adminActor(t), InitiateUploadRequest{
		OwnerType:   "Contact",
		OwnerID:     uuid.New(),
		Name:        "logo.svg",
		Category:    "kyc",
		ContentType: "image/svg+xml",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNSUPPORTED_CONTENT_TYPE", domainErr.Code)
	docRepo.AssertNotCalled(t, "Save")
}

func TestService_UpdateRejectedPastGracePeriod(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	storage := new(MockStorage)
	versionRepo := new(MockVersionRepository)
	service := newService(docRepo, storage, versionRepo)

	doc := contactDocument(t)
	docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	service.now = func() time.Time { return doc.CreatedAt.Add(25 * time.Hour) }

	name := "renamed.pdf"
	_, err := service.Update(context.Background(), adminActor(t), doc.ID, UpdateDocumentRequest{Name: &name})
	assert.ErrorIs(t, err, shared.ErrReadOnlyRecord)
	docRepo.AssertNotCalled(t, "Save")
}

func TestService_DeleteRemovesStoredObject(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	storage := new(MockStorage)
	versionRepo := new(MockVersionRepository)
	service := newService(docRepo, storage, versionRepo)

	doc := contactDocument(t)
	docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	docRepo.On("Delete", mock.Anything, doc.ID).Return(nil)
	storage.On("DeleteObject", mock.Anything, doc.FileKey).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "Document" && v.Event == audit.EventDestroy
	})).Return(nil)

	err := service.Delete(context.Background(), adminActor(t), doc.ID)
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestService_DeleteRejectedPastGracePeriod(t *testing.T) {
	docRepo := new(MockDocumentRepository)
	storage := new(MockStorage)
	versionRepo := new(MockVersionRepository)
	service := newService(docRepo, storage, versionRepo)

	doc := contactDocument(t)
	docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	service.now = func() time.Time { return doc.CreatedAt.Add(48 * time.Hour) }

	err := service.Delete(context.Background(), adminActor(t), doc.ID)
	assert.ErrorIs(t, err, shared.ErrReadOnlyRecord)
	storage.AssertNotCalled(t, "DeleteObject")
}
