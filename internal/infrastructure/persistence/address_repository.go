package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormAddressRepository implements contact.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Address, error) {
	var model models.AddressModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds all addresses belonging to the given owner
func (r *GormAddressRepository) FindByOwner(ctx context.Context, owner shared.OwnerRef) ([]*contact.Address, error) {
	var addressModels []models.AddressModel
	if err := conn(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", owner.Kind, owner.ID).
		Order("created_at ASC").
		Find(&addressModels).Error; err != nil {
		return nil, err
	}

	addresses := make([]*contact.Address, len(addressModels))
	for i, model := range addressModels {
		addresses[i] = model.ToDomain()
	}
	return addresses, nil
}

// Save creates or updates an address
func (r *GormAddressRepository) Save(ctx context.Context, address *contact.Address) error {
	model := models.AddressModelFromDomain(address)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.AddressModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAddressRepository implements contact.AddressRepository
var _ contact.AddressRepository = (*GormAddressRepository)(nil)
