package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	appcascade "github.com/rmcsharry/hq-api/internal/application/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/domain/task"
)

// TaskService handles tasks and their comments. Visibility is by
// ownership: only the creator and assignees see or touch a task,
// regardless of roles.
type TaskService struct {
	taskRepo    task.Repository
	commentRepo task.CommentRepository
	authorizer  *authorization.Authorizer
	recorder    *appaudit.Recorder
	deleter     *appcascade.Service
	uow         shared.UnitOfWork
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo task.Repository, commentRepo task.CommentRepository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, deleter *appcascade.Service, uow shared.UnitOfWork) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		authorizer:  authorizer,
		recorder:    recorder,
		deleter:     deleter,
		uow:         uow,
	}
}

// Create creates a task with the actor as creator
func (s *TaskService) Create(ctx context.Context, actor authz.Actor, req CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(req.Title, actor.UserID)
	if err != nil {
		return nil, err
	}
	t.Description = req.Description
	t.DueAt = req.DueAt
	for _, id := range req.AssigneeIDs {
		if err := t.Assign(id); err != nil {
			return nil, err
		}
	}
	if req.SubjectID != nil {
		subject, err := shared.NewOwnerRef(shared.OwnerKind(req.SubjectType), *req.SubjectID)
		if err != nil {
			return nil, err
		}
		t.Subject = &subject
	}
	if err := t.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	if err := s.authorizer.Ensure(actor, authz.ActionWrite, taskResource(t)); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.Save(ctx, t); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Task", t.ID, actorID(actor), taskSnapshot(t), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// GetByID retrieves a task visible to the actor
func (s *TaskService) GetByID(ctx context.Context, actor authz.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, taskResource(t)); err != nil {
		return nil, err
	}
	response := ToTaskResponse(t)
	return &response, nil
}

// List retrieves the tasks the actor created or is assigned to
func (s *TaskService) List(ctx context.Context, actor authz.Actor, filter TaskListFilter) ([]TaskResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}

	tasks, total, err := s.taskRepo.FindVisible(ctx, actor.UserID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTaskResponses(tasks), total, nil
}

// Update modifies a task
func (s *TaskService) Update(ctx context.Context, actor authz.Actor, taskID uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, taskResource(t)); err != nil {
		return nil, err
	}
	before := taskSnapshot(t)

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueAt != nil {
		t.DueAt = req.DueAt
	}
	if err := t.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.Save(ctx, t); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Task", t.ID, actorID(actor), before, taskSnapshot(t), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// Finish marks the task finished with the actor as finisher
func (s *TaskService) Finish(ctx context.Context, actor authz.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, taskID, func(t *task.Task) error {
		return t.Finish(actor.UserID, time.Now())
	})
}

// Unfinish reopens a task
func (s *TaskService) Unfinish(ctx context.Context, actor authz.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, taskID, func(t *task.Task) error {
		t.Unfinish(time.Now())
		return nil
	})
}

// Assign adds an assignee to the task
func (s *TaskService) Assign(ctx context.Context, actor authz.Actor, taskID, userID uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, taskID, func(t *task.Task) error {
		return t.Assign(userID)
	})
}

// Unassign removes an assignee from the task
func (s *TaskService) Unassign(ctx context.Context, actor authz.Actor, taskID, userID uuid.UUID) (*TaskResponse, error) {
	return s.mutate(ctx, actor, taskID, func(t *task.Task) error {
		t.Unassign(userID)
		return nil
	})
}

func (s *TaskService) mutate(ctx context.Context, actor authz.Actor, taskID uuid.UUID, change func(*task.Task) error) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, taskResource(t)); err != nil {
		return nil, err
	}
	before := taskSnapshot(t)

	if err := change(t); err != nil {
		return nil, err
	}
	if err := t.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.taskRepo.Save(ctx, t); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Task", t.ID, actorID(actor), before, taskSnapshot(t), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// Delete removes a task with its comments
func (s *TaskService) Delete(ctx context.Context, actor authz.Actor, taskID uuid.UUID) error {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, taskResource(t)); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.deleter.Delete(ctx, cascade.Ref{Entity: "Task", ID: taskID}); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Task", t.ID, actorID(actor), taskSnapshot(t), nil)
	})
}

// AddComment comments on a task visible to the actor
func (s *TaskService) AddComment(ctx context.Context, actor authz.Actor, taskID uuid.UUID, req CreateCommentRequest) (*CommentResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, taskResource(t)); err != nil {
		return nil, err
	}

	comment, err := task.NewComment(t.ID, actor.UserID, req.Body)
	if err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Save(ctx, comment); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "TaskComment", comment.ID, actorID(actor), commentSnapshot(comment), taskParent(t.ID))
	})
	if err != nil {
		return nil, err
	}

	response := ToCommentResponse(comment)
	return &response, nil
}

// ListComments returns a task's comments
func (s *TaskService) ListComments(ctx context.Context, actor authz.Actor, taskID uuid.UUID) ([]CommentResponse, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, taskResource(t)); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return ToCommentResponses(comments), nil
}

// DeleteComment removes one comment. The comment author and the task
// participants may delete it.
func (s *TaskService) DeleteComment(ctx context.Context, actor authz.Actor, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	t, err := s.taskRepo.FindByID(ctx, comment.TaskID)
	if err != nil {
		return err
	}
	res := taskResource(t)
	res.Kind = authz.KindTaskComment
	res.ID = comment.ID
	res.AuthorID = comment.AuthorID
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, res); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Delete(ctx, commentID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "TaskComment", comment.ID, actorID(actor), commentSnapshot(comment), taskParent(t.ID))
	})
}

func taskResource(t *task.Task) authz.Resource {
	return authz.Resource{
		Kind:        authz.KindTask,
		ID:          t.ID,
		CreatorID:   t.CreatorID,
		AssigneeIDs: t.AssigneeIDs,
	}
}

func taskSnapshot(t *task.Task) audit.Snapshot {
	return audit.Snapshot{
		"title":       t.Title,
		"description": t.Description,
		"state":       t.State.String(),
		"due_at":      timeOrNil(t.DueAt),
		"finisher_id": uuidOrNil(t.FinisherID),
		"finished_at": timeOrNil(t.FinishedAt),
	}
}

func commentSnapshot(c *task.Comment) audit.Snapshot {
	return audit.Snapshot{
		"task_id":   c.TaskID.String(),
		"author_id": c.AuthorID.String(),
		"body":      c.Body,
	}
}

func taskParent(taskID uuid.UUID) *audit.ParentRef {
	return &audit.ParentRef{ItemType: "Task", ItemID: taskID}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
