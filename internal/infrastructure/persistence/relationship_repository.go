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

// GormRelationshipRepository implements contact.RelationshipRepository using GORM
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewGormRelationshipRepository creates a new GormRelationshipRepository
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// FindByID finds a relationship by its ID
func (r *GormRelationshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Relationship, error) {
	var model models.RelationshipModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContact finds relationships where the contact is source or target
func (r *GormRelationshipRepository) FindByContact(ctx context.Context, contactID uuid.UUID) ([]*contact.Relationship, error) {
	var relModels []models.RelationshipModel
	if err := conn(ctx, r.db).
		Where("source_contact_id = ? OR target_contact_id = ?", contactID, contactID).
		Order("created_at ASC").
		Find(&relModels).Error; err != nil {
		return nil, err
	}

	rels := make([]*contact.Relationship, len(relModels))
	for i, model := range relModels {
		rels[i] = model.ToDomain()
	}
	return rels, nil
}

// Save creates or updates a relationship
func (r *GormRelationshipRepository) Save(ctx context.Context, rel *contact.Relationship) error {
	model := models.RelationshipModelFromDomain(rel)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a relationship
func (r *GormRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.RelationshipModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRelationshipRepository implements contact.RelationshipRepository
var _ contact.RelationshipRepository = (*GormRelationshipRepository)(nil)
