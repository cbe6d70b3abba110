package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
)

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents a request to register a new user
type CreateUserRequest struct {
	Email     string     `json:"email" binding:"required,email,max=200"`
	Password  string     `json:"password" binding:"required,min=10,max=128"`
	ContactID *uuid.UUID `json:"contact_id"`
}

// InviteUserRequest represents a request to invite a user by email
type InviteUserRequest struct {
	Email     string     `json:"email" binding:"required,email,max=200"`
	ContactID *uuid.UUID `json:"contact_id"`
}

// AcceptInvitationRequest carries the mailed token and the chosen password
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=10,max=128"`
}

// ResetPasswordRequest carries the mailed token and the new password
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=10,max=128"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	ContactID    *uuid.UUID `json:"contact_id"`
	Confirmed    bool       `json:"confirmed"`
	SignInCount  int        `json:"sign_in_count"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to its response form
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		ContactID:    u.ContactID,
		Confirmed:    u.IsConfirmed(),
		SignInCount:  u.SignInCount,
		LastSignInAt: u.LastSignInAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses
}

// =============================================================================
// UserGroup DTOs
// =============================================================================

// CreateUserGroupRequest represents a request to create a user group
type CreateUserGroupRequest struct {
	Name            string      `json:"name" binding:"required,min=1,max=200"`
	Comment         string      `json:"comment"`
	Roles           []string    `json:"roles" binding:"required,min=1"`
	MandateGroupIDs []uuid.UUID `json:"mandate_group_ids"`
	UserIDs         []uuid.UUID `json:"user_ids"`
}

// UpdateUserGroupRequest represents a request to update a user group
type UpdateUserGroupRequest struct {
	Name            *string      `json:"name" binding:"omitempty,min=1,max=200"`
	Comment         *string      `json:"comment"`
	Roles           *[]string    `json:"roles" binding:"omitempty,min=1"`
	MandateGroupIDs *[]uuid.UUID `json:"mandate_group_ids"`
	UserIDs         *[]uuid.UUID `json:"user_ids"`
}

// UserGroupResponse represents a user group in API responses
type UserGroupResponse struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Comment         string      `json:"comment"`
	Roles           []string    `json:"roles"`
	MandateGroupIDs []uuid.UUID `json:"mandate_group_ids"`
	UserIDs         []uuid.UUID `json:"user_ids"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ToUserGroupResponse converts a domain user group to its response form
func ToUserGroupResponse(g *identity.UserGroup) UserGroupResponse {
	roles := make([]string, 0, len(g.Roles))
	for _, r := range g.Roles {
		roles = append(roles, r.String())
	}
	return UserGroupResponse{
		ID:              g.ID,
		Name:            g.Name,
		Comment:         g.Comment,
		Roles:           roles,
		MandateGroupIDs: g.MandateGroupIDs,
		UserIDs:         g.UserIDs,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

// ToUserGroupResponses converts a slice of domain user groups
func ToUserGroupResponses(groups []*identity.UserGroup) []UserGroupResponse {
	responses := make([]UserGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = ToUserGroupResponse(g)
	}
	return responses
}

// =============================================================================
// MandateGroup DTOs
// =============================================================================

// CreateMandateGroupRequest represents a request to create a mandate group
type CreateMandateGroupRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Type    string `json:"type" binding:"required,oneof=family organization"`
	Comment string `json:"comment"`
}

// UpdateMandateGroupRequest represents a request to update a mandate group
type UpdateMandateGroupRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Comment *string `json:"comment"`
}

// MandateGroupResponse represents a mandate group in API responses
type MandateGroupResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToMandateGroupResponse converts a domain mandate group to its response form
func ToMandateGroupResponse(g *identity.MandateGroup) MandateGroupResponse {
	return MandateGroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Type:      g.GroupType.String(),
		Comment:   g.Comment,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// ToMandateGroupResponses converts a slice of domain mandate groups
func ToMandateGroupResponses(groups []*identity.MandateGroup) []MandateGroupResponse {
	responses := make([]MandateGroupResponse, len(groups))
	for i, g := range groups {
		responses[i] = ToMandateGroupResponse(g)
	}
	return responses
}

// ListFilter represents common list options for the identity resources
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
