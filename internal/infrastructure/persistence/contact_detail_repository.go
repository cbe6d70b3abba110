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

// GormContactDetailRepository implements contact.DetailRepository using GORM
type GormContactDetailRepository struct {
	db *gorm.DB
}

// NewGormContactDetailRepository creates a new GormContactDetailRepository
func NewGormContactDetailRepository(db *gorm.DB) *GormContactDetailRepository {
	return &GormContactDetailRepository{db: db}
}

// FindByID finds a contact detail by its ID
func (r *GormContactDetailRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.ContactDetail, error) {
	var model models.ContactDetailModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContact finds all details of a contact
func (r *GormContactDetailRepository) FindByContact(ctx context.Context, contactID uuid.UUID) ([]*contact.ContactDetail, error) {
	var detailModels []models.ContactDetailModel
	if err := conn(ctx, r.db).
		Where("contact_id = ?", contactID).
		Order("created_at ASC").
		Find(&detailModels).Error; err != nil {
		return nil, err
	}

	details := make([]*contact.ContactDetail, len(detailModels))
	for i, model := range detailModels {
		details[i] = model.ToDomain()
	}
	return details, nil
}

// Save creates or updates a contact detail
func (r *GormContactDetailRepository) Save(ctx context.Context, detail *contact.ContactDetail) error {
	model := models.ContactDetailModelFromDomain(detail)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a contact detail
func (r *GormContactDetailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.ContactDetailModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormContactDetailRepository implements contact.DetailRepository
var _ contact.DetailRepository = (*GormContactDetailRepository)(nil)
