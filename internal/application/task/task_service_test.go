package task

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
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/domain/task"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindVisible(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*task.Comment, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]*task.Comment), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *task.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

func webActor(userID uuid.UUID) authz.Actor {
	group, _ := identity.NewUserGroup("Staff", []identity.Role{identity.RoleContactsRead})
	return authz.Actor{
		UserID:  userID,
		Roles:   identity.Resolve([]*identity.UserGroup{group}),
		Channel: authz.ChannelWeb,
	}
}

func newTaskService(taskRepo *MockTaskRepository, commentRepo *MockCommentRepository, versionRepo *MockVersionRepository) *TaskService {
	authorizer := authorization.NewAuthorizer(authz.NewEvaluator(), nil)
	recorder := appaudit.NewRecorder(versionRepo)
	return NewTaskService(taskRepo, commentRepo, authorizer, recorder, nil, shared.NopUnitOfWork{})
}

func TestTaskService_Create(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	versionRepo := new(MockVersionRepository)
	service := newTaskService(taskRepo, commentRepo, versionRepo)

	taskRepo.On("Save", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "Task" && v.Event == audit.EventCreate
	})).Return(nil)

	actor := webActor(uuid.New())
	resp, err := service.Create(context.Background(), actor, CreateTaskRequest{Title: "Prepare annual review"})
	require.NoError(t, err)
	assert.Equal(t, "created", resp.State)
	assert.Equal(t, actor.UserID, resp.CreatorID)
}

func TestTaskService_ForeignTaskInvisible(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	versionRepo := new(MockVersionRepository)
	service := newTaskService(taskRepo, commentRepo, versionRepo)

	creator := uuid.New()
	foreign, err := task.NewTask("Call the client", creator)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, foreign.ID).Return(foreign, nil)

	// neither creator nor assignee
	_, err = service.GetByID(context.Background(), webActor(uuid.New()), foreign.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// assignees gain visibility
	assignee := uuid.New()
	require.NoError(t, foreign.Assign(assignee))
	resp, err := service.GetByID(context.Background(), webActor(assignee), foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, foreign.ID, resp.ID)
}

func TestTaskService_FinishRecordsFinisher(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	versionRepo := new(MockVersionRepository)
	service := newTaskService(taskRepo, commentRepo, versionRepo)

	creator := uuid.New()
	open, err := task.NewTask("File the report", creator)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, open.ID).Return(open, nil)
	taskRepo.On("Save", mock.Anything, open).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		change, ok := v.ObjectChanges["state"]
		return ok && change[1] == "finished"
	})).Return(nil)

	resp, err := service.Finish(context.Background(), webActor(creator), open.ID)
	require.NoError(t, err)
	assert.Equal(t, "finished", resp.State)
	require.NotNil(t, resp.FinisherID)
	assert.Equal(t, creator, *resp.FinisherID)
	assert.NotNil(t, resp.FinishedAt)
}

func TestTaskService_AddCommentNestsUnderTask(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	versionRepo := new(MockVersionRepository)
	service := newTaskService(taskRepo, commentRepo, versionRepo)

	creator := uuid.New()
	parent, err := task.NewTask("Review KYC files", creator)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, parent.ID).Return(parent, nil)
	commentRepo.On("Save", mock.Anything, mock.AnythingOfType("*task.Comment")).Return(nil)
	versionRepo.On("Append", mock.Anything, mock.MatchedBy(func(v *audit.Version) bool {
		return v.ItemType == "TaskComment" &&
			v.ParentItemType != nil && *v.ParentItemType == "Task" &&
			v.ParentItemID != nil && *v.ParentItemID == parent.ID
	})).Return(nil)

	resp, err := service.AddComment(context.Background(), webActor(creator), parent.ID, CreateCommentRequest{Body: "Done for Q3"})
	require.NoError(t, err)
	assert.Equal(t, "Done for Q3", resp.Body)
	versionRepo.AssertExpectations(t)
}

func TestTaskService_EWSChannelMayReadAndWrite(t *testing.T) {
	taskRepo := new(MockTaskRepository)
	commentRepo := new(MockCommentRepository)
	versionRepo := new(MockVersionRepository)
	service := newTaskService(taskRepo, commentRepo, versionRepo)

	creator := uuid.New()
	owned, err := task.NewTask("Sync the calendar", creator)
	require.NoError(t, err)
	taskRepo.On("FindByID", mock.Anything, owned.ID).Return(owned, nil)
	taskRepo.On("Delete", mock.Anything, owned.ID).Return(nil)

	actor := webActor(creator)
	actor.Channel = authz.ChannelEWS

	_, err = service.GetByID(context.Background(), actor, owned.ID)
	require.NoError(t, err)

	// destroy stays off the EWS surface
	err = service.Delete(context.Background(), actor, owned.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
