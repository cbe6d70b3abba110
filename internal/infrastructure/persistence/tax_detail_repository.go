package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormTaxDetailRepository implements contact.TaxDetailRepository using GORM
type GormTaxDetailRepository struct {
	db *gorm.DB
}

// NewGormTaxDetailRepository creates a new GormTaxDetailRepository
func NewGormTaxDetailRepository(db *gorm.DB) *GormTaxDetailRepository {
	return &GormTaxDetailRepository{db: db}
}

// FindByContact finds the tax detail of a contact
func (r *GormTaxDetailRepository) FindByContact(ctx context.Context, contactID uuid.UUID) (*contact.TaxDetail, error) {
	var model models.TaxDetailModel
	if err := conn(ctx, r.db).
		Preload("ForeignTaxNumbers").
		Where("contact_id = ?", contactID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a tax detail together with its foreign tax
// numbers. Removed numbers are deleted; the remainder is upserted.
func (r *GormTaxDetailRepository) Save(ctx context.Context, detail *contact.TaxDetail) error {
	model := models.TaxDetailModelFromDomain(detail)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tax_detail_id = ?", detail.ID).
			Delete(&models.ForeignTaxNumberModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Ensure GormTaxDetailRepository implements contact.TaxDetailRepository
var _ contact.TaxDetailRepository = (*GormTaxDetailRepository)(nil)
