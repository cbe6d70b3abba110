package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/domain/task"
)

// TaskModel is the persistence model for the Task aggregate root.
// Assignees are join rows loaded with the aggregate. subject_type and
// subject_id optionally link the task to a contact or mandate.
type TaskModel struct {
	AggregateModel
	Title       string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	State       task.State `gorm:"type:varchar(20);not null;index"`
	DueAt       *time.Time `gorm:"index"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	FinisherID  *uuid.UUID `gorm:"type:uuid"`
	FinishedAt  *time.Time

	SubjectType *shared.OwnerKind `gorm:"type:varchar(20);index:idx_task_subject,priority:1"`
	SubjectID   *uuid.UUID        `gorm:"type:uuid;index:idx_task_subject,priority:2"`

	Assignees []TaskAssignmentModel `gorm:"foreignKey:TaskID;references:ID"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	t := &task.Task{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		State:             m.State,
		DueAt:             m.DueAt,
		CreatorID:         m.CreatorID,
		FinisherID:        m.FinisherID,
		FinishedAt:        m.FinishedAt,
		AssigneeIDs:       make([]uuid.UUID, len(m.Assignees)),
	}
	if m.SubjectType != nil && m.SubjectID != nil {
		t.Subject = &shared.OwnerRef{Kind: *m.SubjectType, ID: *m.SubjectID}
	}
	for i, a := range m.Assignees {
		t.AssigneeIDs[i] = a.UserID
	}
	return t
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.State = t.State
	m.DueAt = t.DueAt
	m.CreatorID = t.CreatorID
	m.FinisherID = t.FinisherID
	m.FinishedAt = t.FinishedAt
	if t.Subject != nil {
		kind := t.Subject.Kind
		id := t.Subject.ID
		m.SubjectType = &kind
		m.SubjectID = &id
	} else {
		m.SubjectType = nil
		m.SubjectID = nil
	}
	m.Assignees = make([]TaskAssignmentModel, len(t.AssigneeIDs))
	for i, userID := range t.AssigneeIDs {
		m.Assignees[i] = TaskAssignmentModel{TaskID: t.ID, UserID: userID}
	}
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}

// TaskAssignmentModel is the join row assigning a task to a user.
type TaskAssignmentModel struct {
	TaskID uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (TaskAssignmentModel) TableName() string {
	return "task_assignments"
}

// TaskCommentModel is the persistence model for a comment on a task.
type TaskCommentModel struct {
	BaseModel
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"`
	Body     string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (TaskCommentModel) TableName() string {
	return "task_comments"
}

// ToDomain converts the persistence model to a domain Comment entity.
func (m *TaskCommentModel) ToDomain() *task.Comment {
	return &task.Comment{
		BaseEntity: m.BaseModel.ToDomain(),
		TaskID:     m.TaskID,
		AuthorID:   m.AuthorID,
		Body:       m.Body,
	}
}

// TaskCommentModelFromDomain creates a new persistence model from a domain Comment entity.
func TaskCommentModelFromDomain(c *task.Comment) *TaskCommentModel {
	m := &TaskCommentModel{}
	m.FromDomainBaseEntity(c.BaseEntity)
	m.TaskID = c.TaskID
	m.AuthorID = c.AuthorID
	m.Body = c.Body
	return m
}
