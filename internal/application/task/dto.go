package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/task"
)

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string      `json:"title" binding:"required,max=200"`
	Description string      `json:"description"`
	DueAt       *time.Time  `json:"due_at"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	SubjectType string      `json:"subject_type" binding:"omitempty,oneof=Contact Mandate"`
	SubjectID   *uuid.UUID  `json:"subject_id"`
}

// UpdateTaskRequest represents a request to update a task
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

// TaskListFilter represents task list query parameters
type TaskListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	State    string `form:"state" binding:"omitempty,oneof=created finished"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	State       string      `json:"state"`
	DueAt       *time.Time  `json:"due_at"`
	CreatorID   uuid.UUID   `json:"creator_id"`
	FinisherID  *uuid.UUID  `json:"finisher_id"`
	FinishedAt  *time.Time  `json:"finished_at"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	SubjectType string      `json:"subject_type,omitempty"`
	SubjectID   *uuid.UUID  `json:"subject_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateCommentRequest represents a request to comment on a task
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// CommentResponse represents a task comment in API responses
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ToTaskResponse converts a domain task to its response form
func ToTaskResponse(t *task.Task) TaskResponse {
	response := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       t.State.String(),
		DueAt:       t.DueAt,
		CreatorID:   t.CreatorID,
		FinisherID:  t.FinisherID,
		FinishedAt:  t.FinishedAt,
		AssigneeIDs: t.AssigneeIDs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Subject != nil {
		response.SubjectType = t.Subject.Kind.String()
		id := t.Subject.ID
		response.SubjectID = &id
	}
	return response
}

// ToTaskResponses converts a slice of domain tasks
func ToTaskResponses(tasks []*task.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = ToTaskResponse(t)
	}
	return responses
}

// ToCommentResponse converts a domain comment to its response form
func ToCommentResponse(c *task.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ToCommentResponses converts a slice of domain comments
func ToCommentResponses(comments []*task.Comment) []CommentResponse {
	responses := make([]CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = ToCommentResponse(c)
	}
	return responses
}
