package mandate

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
)

// =============================================================================
// Mandate DTOs
// =============================================================================

// CreateMandateRequest represents a request to create a mandate
type CreateMandateRequest struct {
	Category        string      `json:"category" binding:"required,max=100"`
	Comment         string      `json:"comment"`
	ValidFrom       *time.Time  `json:"valid_from"`
	ValidTo         *time.Time  `json:"valid_to"`
	MandateGroupIDs []uuid.UUID `json:"mandate_group_ids" binding:"required,min=1"`

	PrimaryConsultantID   *uuid.UUID `json:"primary_consultant_id"`
	SecondaryConsultantID *uuid.UUID `json:"secondary_consultant_id"`
	AssistantID           *uuid.UUID `json:"assistant_id"`
	BookkeeperID          *uuid.UUID `json:"bookkeeper_id"`

	Owners []uuid.UUID `json:"owner_contact_ids"`
}

// UpdateMandateRequest represents a request to update a mandate
type UpdateMandateRequest struct {
	Category        *string      `json:"category" binding:"omitempty,min=1,max=100"`
	Comment         *string      `json:"comment"`
	ValidFrom       *time.Time   `json:"valid_from"`
	ValidTo         *time.Time   `json:"valid_to"`
	MandateGroupIDs *[]uuid.UUID `json:"mandate_group_ids" binding:"omitempty,min=1"`

	PrimaryConsultantID   *uuid.UUID `json:"primary_consultant_id"`
	SecondaryConsultantID *uuid.UUID `json:"secondary_consultant_id"`
	AssistantID           *uuid.UUID `json:"assistant_id"`
	BookkeeperID          *uuid.UUID `json:"bookkeeper_id"`
}

// MemberResponse is one mandate membership row
type MemberResponse struct {
	ID         uuid.UUID `json:"id"`
	ContactID  uuid.UUID `json:"contact_id"`
	MemberType string    `json:"member_type"`
}

// MandateResponse represents a mandate in API responses
type MandateResponse struct {
	ID        uuid.UUID  `json:"id"`
	Category  string     `json:"category"`
	Comment   string     `json:"comment"`
	State     string     `json:"state"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`

	PrimaryConsultantID   *uuid.UUID `json:"primary_consultant_id"`
	SecondaryConsultantID *uuid.UUID `json:"secondary_consultant_id"`
	AssistantID           *uuid.UUID `json:"assistant_id"`
	BookkeeperID          *uuid.UUID `json:"bookkeeper_id"`

	MandateGroupIDs []uuid.UUID      `json:"mandate_group_ids"`
	Members         []MemberResponse `json:"members"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToMandateResponse converts a domain mandate to its response form
func ToMandateResponse(m *mandate.Mandate) MandateResponse {
	members := make([]MemberResponse, len(m.Members))
	for i, member := range m.Members {
		members[i] = MemberResponse{
			ID:         member.ID,
			ContactID:  member.ContactID,
			MemberType: string(member.MemberType),
		}
	}
	return MandateResponse{
		ID:                    m.ID,
		Category:              m.Category,
		Comment:               m.Comment,
		State:                 m.State.String(),
		ValidFrom:             m.Validity.ValidFrom,
		ValidTo:               m.Validity.ValidTo,
		PrimaryConsultantID:   m.PrimaryConsultantID,
		SecondaryConsultantID: m.SecondaryConsultantID,
		AssistantID:           m.AssistantID,
		BookkeeperID:          m.BookkeeperID,
		MandateGroupIDs:       m.MandateGroupIDs,
		Members:               members,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// ToMandateResponses converts a slice of domain mandates
func ToMandateResponses(mandates []*mandate.Mandate) []MandateResponse {
	responses := make([]MandateResponse, len(mandates))
	for i, m := range mandates {
		responses[i] = ToMandateResponse(m)
	}
	return responses
}

// MandateListFilter represents filter options for the mandate list
type MandateListFilter struct {
	Search   string `form:"search"`
	State    string `form:"state" binding:"omitempty,oneof=prospect client cancelled"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AddMemberRequest links a contact to a mandate in a typed role
type AddMemberRequest struct {
	ContactID  uuid.UUID `json:"contact_id" binding:"required"`
	MemberType string    `json:"member_type" binding:"required,oneof=owner beneficiary"`
}

// =============================================================================
// Activity DTOs
// =============================================================================

// CreateActivityRequest represents a request to log an activity
type CreateActivityRequest struct {
	ActivityType string      `json:"activity_type" binding:"required,oneof=meeting call email note"`
	Title        string      `json:"title" binding:"required,max=200"`
	Description  string      `json:"description"`
	StartedAt    time.Time   `json:"started_at" binding:"required"`
	EndedAt      *time.Time  `json:"ended_at"`
	MandateIDs   []uuid.UUID `json:"mandate_ids"`
	ContactIDs   []uuid.UUID `json:"contact_ids"`
}

// UpdateActivityRequest represents a request to update an activity
type UpdateActivityRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	ID           uuid.UUID   `json:"id"`
	ActivityType string      `json:"activity_type"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	StartedAt    time.Time   `json:"started_at"`
	EndedAt      *time.Time  `json:"ended_at"`
	CreatorID    uuid.UUID   `json:"creator_id"`
	MandateIDs   []uuid.UUID `json:"mandate_ids"`
	ContactIDs   []uuid.UUID `json:"contact_ids"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ToActivityResponse converts a domain activity to its response form
func ToActivityResponse(a *mandate.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		ActivityType: string(a.ActivityType),
		Title:        a.Title,
		Description:  a.Description,
		StartedAt:    a.StartedAt,
		EndedAt:      a.EndedAt,
		CreatorID:    a.CreatorID,
		MandateIDs:   a.MandateIDs,
		ContactIDs:   a.ContactIDs,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ToActivityResponses converts a slice of domain activities
func ToActivityResponses(activities []*mandate.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		responses[i] = ToActivityResponse(a)
	}
	return responses
}
