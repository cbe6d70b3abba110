package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Repository provides access to contacts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Contact, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Contact, int64, error)
	Save(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository provides access to addresses of any owner
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByOwner(ctx context.Context, owner shared.OwnerRef) ([]*Address, error)
	Save(ctx context.Context, address *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DetailRepository provides access to contact details
type DetailRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ContactDetail, error)
	FindByContact(ctx context.Context, contactID uuid.UUID) ([]*ContactDetail, error)
	Save(ctx context.Context, detail *ContactDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaxDetailRepository provides access to the 1:1 tax profiles
type TaxDetailRepository interface {
	FindByContact(ctx context.Context, contactID uuid.UUID) (*TaxDetail, error)
	Save(ctx context.Context, detail *TaxDetail) error
}

// ComplianceDetailRepository provides access to the 1:1 regulatory profiles
type ComplianceDetailRepository interface {
	FindByContact(ctx context.Context, contactID uuid.UUID) (*ComplianceDetail, error)
	Save(ctx context.Context, detail *ComplianceDetail) error
}

// RelationshipRepository provides access to contact relationships
type RelationshipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Relationship, error)
	FindByContact(ctx context.Context, contactID uuid.UUID) ([]*Relationship, error)
	Save(ctx context.Context, rel *Relationship) error
	Delete(ctx context.Context, id uuid.UUID) error
}
