package list

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/list"
)

// CreateListRequest represents a request to create a list
type CreateListRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Comment string `json:"comment"`
}

// UpdateListRequest represents a request to update a list
type UpdateListRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Comment *string `json:"comment"`
}

// ItemRequest identifies one list membership
type ItemRequest struct {
	ItemType string    `json:"item_type" binding:"required,oneof=Contact Mandate"`
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
}

// ListFilter represents list index query parameters
type ListFilter struct {
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
	OrderBy         string `form:"order_by"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	IncludeArchived bool   `form:"include_archived"`
}

// ItemResponse is one list membership in API responses
type ItemResponse struct {
	ItemType string    `json:"item_type"`
	ItemID   uuid.UUID `json:"item_id"`
	AddedAt  time.Time `json:"added_at"`
}

// ListResponse represents a list in API responses
type ListResponse struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Comment   string         `json:"comment"`
	State     string         `json:"state"`
	CreatorID uuid.UUID      `json:"creator_id"`
	Items     []ItemResponse `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ToListResponse converts a domain list to its response form
func ToListResponse(l *list.List) ListResponse {
	items := make([]ItemResponse, len(l.Items))
	for i, item := range l.Items {
		items[i] = ItemResponse{
			ItemType: string(item.Type),
			ItemID:   item.ItemID,
			AddedAt:  item.AddedAt,
		}
	}
	return ListResponse{
		ID:        l.ID,
		Name:      l.Name,
		Comment:   l.Comment,
		State:     l.State.String(),
		CreatorID: l.CreatorID,
		Items:     items,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToListResponses converts a slice of domain lists
func ToListResponses(lists []*list.List) []ListResponse {
	responses := make([]ListResponse, len(lists))
	for i, l := range lists {
		responses[i] = ToListResponse(l)
	}
	return responses
}
