package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
)

// VersionResponse is one audit record in API responses. Field names and
// the `{attr: [old, new]}` diff shape are a stable contract consumed by
// the history UI.
type VersionResponse struct {
	ID             uuid.UUID      `json:"id"`
	ItemType       string         `json:"item_type"`
	ItemID         uuid.UUID      `json:"item_id"`
	Event          string         `json:"event"`
	Whodunnit      *uuid.UUID     `json:"whodunnit"`
	Object         audit.Snapshot `json:"object"`
	ObjectChanges  audit.Changes  `json:"object_changes"`
	ParentItemType *string        `json:"parent_item_type"`
	ParentItemID   *uuid.UUID     `json:"parent_item_id"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ToVersionResponse converts a domain version to its response form
func ToVersionResponse(v *audit.Version) VersionResponse {
	return VersionResponse{
		ID:             v.ID,
		ItemType:       v.ItemType,
		ItemID:         v.ItemID,
		Event:          string(v.Event),
		Whodunnit:      v.Whodunnit,
		Object:         v.Object,
		ObjectChanges:  v.ObjectChanges,
		ParentItemType: v.ParentItemType,
		ParentItemID:   v.ParentItemID,
		CreatedAt:      v.CreatedAt,
	}
}

// ToVersionResponses converts a slice of domain versions
func ToVersionResponses(versions []*audit.Version) []VersionResponse {
	responses := make([]VersionResponse, len(versions))
	for i, v := range versions {
		responses[i] = ToVersionResponse(v)
	}
	return responses
}
