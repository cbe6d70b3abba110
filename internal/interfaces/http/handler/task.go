package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	taskapp "github.com/rmcsharry/hq-api/internal/application/task"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
)

// TaskHandler handles task and task comment endpoints
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// Create creates a task
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, task)
}

// GetByID retrieves a task with its assignees
func (h *TaskHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), actor, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// List lists the tasks visible to the caller
func (h *TaskHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter taskapp.TaskListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// Update updates a task's mutable fields
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req taskapp.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), actor, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// Finish marks a task as done
func (h *TaskHandler) Finish(c *gin.Context) {
	h.transition(c, h.taskService.Finish)
}

// Unfinish reopens a finished task
func (h *TaskHandler) Unfinish(c *gin.Context) {
	h.transition(c, h.taskService.Unfinish)
}

// Delete removes a task and its comments
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), actor, taskID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Assign adds a user to the task's assignees
func (h *TaskHandler) Assign(c *gin.Context) {
	h.assignment(c, h.taskService.Assign)
}

// Unassign removes a user from the task's assignees
func (h *TaskHandler) Unassign(c *gin.Context) {
	h.assignment(c, h.taskService.Unassign)
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	var req taskapp.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), actor, taskID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, comment)
}

// ListComments lists a task's comments in chronological order
func (h *TaskHandler) ListComments(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	comments, err := h.taskService.ListComments(c.Request.Context(), actor, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comments)
}

// DeleteComment removes a task comment
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid comment ID format")
		return
	}

	if err := h.taskService.DeleteComment(c.Request.Context(), actor, commentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs a task state change keyed by the task ID alone
func (h *TaskHandler) transition(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID) (*taskapp.TaskResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	task, err := fn(c.Request.Context(), actor, taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// assignment runs an assignee add or remove keyed by task and user IDs
func (h *TaskHandler) assignment(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID, uuid.UUID) (*taskapp.TaskResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID format")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	task, err := fn(c.Request.Context(), actor, taskID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}
