package mandate

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Repository provides access to mandates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Mandate, error)
	// FindVisible returns only mandates belonging to one of the given
	// mandate groups; total reflects the filtered set.
	FindVisible(ctx context.Context, mandateGroupIDs []uuid.UUID, filter shared.Filter) ([]*Mandate, int64, error)
	Save(ctx context.Context, mandate *Mandate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository provides access to activities
type ActivityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	FindByMandate(ctx context.Context, mandateID uuid.UUID, filter shared.Filter) ([]*Activity, int64, error)
	FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]*Activity, int64, error)
	Save(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
}
