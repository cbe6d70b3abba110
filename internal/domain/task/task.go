package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// State of a task
type State string

const (
	StateCreated  State = "created"
	StateFinished State = "finished"
)

// IsValid checks if the state is a known State
func (s State) IsValid() bool {
	return s == StateCreated || s == StateFinished
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// Task is a work item visible only to its creator and assignees,
// independent of the role system. Finishing is idempotent: re-finishing a
// finished task refreshes finisher and timestamp rather than failing.
type Task struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	State       State
	DueAt       *time.Time
	CreatorID   uuid.UUID
	FinisherID  *uuid.UUID
	FinishedAt  *time.Time
	AssigneeIDs []uuid.UUID

	// Subject optionally links the task to a contact or mandate.
	Subject *shared.OwnerRef
}

// NewTask creates a new open task
func NewTask(title string, creatorID uuid.UUID) (*Task, error) {
	title = strings.TrimSpace(title)
	errs := shared.NewValidationErrors()
	if title == "" {
		errs.AddRequired("title")
	}
	if creatorID == uuid.Nil {
		errs.AddRequired("creator")
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return &Task{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		State:             StateCreated,
		CreatorID:         creatorID,
		AssigneeIDs:       make([]uuid.UUID, 0),
	}, nil
}

// Finish marks the task finished by the given user. Permitted from both
// states; the finished state keeps the cross-field invariant that finisher
// and finished_at are present.
func (t *Task) Finish(finisherID uuid.UUID, now time.Time) error {
	if finisherID == uuid.Nil {
		return shared.NewDomainError("INVALID_FINISHER", "Finisher ID cannot be empty")
	}
	t.State = StateFinished
	t.FinisherID = &finisherID
	t.FinishedAt = &now
	t.UpdatedAt = now
	return nil
}

// Unfinish reopens the task, clearing finisher and finished_at. Permitted
// from both states.
func (t *Task) Unfinish(now time.Time) {
	t.State = StateCreated
	t.FinisherID = nil
	t.FinishedAt = nil
	t.UpdatedAt = now
}

// Assign adds a user to the assignees
func (t *Task) Assign(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return nil
		}
	}
	t.AssigneeIDs = append(t.AssigneeIDs, userID)
	t.UpdatedAt = time.Now()
	return nil
}

// Unassign removes a user from the assignees
func (t *Task) Unassign(userID uuid.UUID) {
	for i, id := range t.AssigneeIDs {
		if id == userID {
			t.AssigneeIDs = append(t.AssigneeIDs[:i], t.AssigneeIDs[i+1:]...)
			t.UpdatedAt = time.Now()
			return
		}
	}
}

// IsVisibleTo implements the ownership rule: creator and assignees only
func (t *Task) IsVisibleTo(userID uuid.UUID) bool {
	if t.CreatorID == userID {
		return true
	}
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Validate enforces the finished-state cross-field invariant
func (t *Task) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if t.Title == "" {
		errs.AddRequired("title")
	}
	if !t.State.IsValid() {
		errs.Add("state", "INVALID", "unknown task state")
	}
	if t.State == StateFinished {
		if t.FinisherID == nil {
			errs.Add("finisher", "REQUIRED_FOR_FINISHED", "finisher is required for finished tasks")
		}
		if t.FinishedAt == nil {
			errs.Add("finished_at", "REQUIRED_FOR_FINISHED", "finished_at is required for finished tasks")
		}
	}
	if t.Subject != nil && t.Subject.Kind != shared.OwnerContact && t.Subject.Kind != shared.OwnerMandate {
		errs.Add("subject", "INVALID", "task subject must be a contact or mandate")
	}
	return errs
}

// Comment is a note on a task, visible to the task's participants
type Comment struct {
	shared.BaseEntity
	TaskID   uuid.UUID
	AuthorID uuid.UUID
	Body     string
}

// NewComment creates a task comment
func NewComment(taskID, authorID uuid.UUID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment body cannot be empty")
	}
	if taskID == uuid.Nil || authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Task and author are required")
	}
	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		TaskID:     taskID,
		AuthorID:   authorID,
		Body:       body,
	}, nil
}

// Repository provides access to tasks
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindVisible returns only tasks the user created or is assigned to.
	FindVisible(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Task, int64, error)
	Save(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository provides access to task comments
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]*Comment, error)
	Save(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
