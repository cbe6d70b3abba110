package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// HistoryService answers version-history queries for the API
type HistoryService struct {
	versions audit.Repository
}

// NewHistoryService creates a HistoryService
func NewHistoryService(versions audit.Repository) *HistoryService {
	return &HistoryService{versions: versions}
}

// HistoryFor returns the entity's own versions, time-sorted and paginated
func (s *HistoryService) HistoryFor(ctx context.Context, itemType string, itemID uuid.UUID, filter shared.Filter) ([]VersionResponse, int64, error) {
	versions, total, err := s.versions.FindForItem(ctx, itemType, itemID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToVersionResponses(versions), total, nil
}

// CombinedHistoryFor returns the merged timeline of the aggregate and all
// child entities that declare it as their parent.
func (s *HistoryService) CombinedHistoryFor(ctx context.Context, itemType string, itemID uuid.UUID, filter shared.Filter) ([]VersionResponse, int64, error) {
	versions, total, err := s.versions.FindForParent(ctx, itemType, itemID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToVersionResponses(versions), total, nil
}
