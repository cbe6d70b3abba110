package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// UserRepository provides access to users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByConfirmationToken(ctx context.Context, token string) (*User, error)
	FindByInvitationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*User, int64, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserGroupRepository provides access to user groups
type UserGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserGroup, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*UserGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*UserGroup, int64, error)
	Save(ctx context.Context, group *UserGroup) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MandateGroupRepository provides access to mandate groups
type MandateGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MandateGroup, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*MandateGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*MandateGroup, int64, error)
	Save(ctx context.Context, group *MandateGroup) error
	Delete(ctx context.Context, id uuid.UUID) error
}
