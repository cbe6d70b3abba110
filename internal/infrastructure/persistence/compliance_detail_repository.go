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

// GormComplianceDetailRepository implements contact.ComplianceDetailRepository using GORM
type GormComplianceDetailRepository struct {
	db *gorm.DB
}

// NewGormComplianceDetailRepository creates a new GormComplianceDetailRepository
func NewGormComplianceDetailRepository(db *gorm.DB) *GormComplianceDetailRepository {
	return &GormComplianceDetailRepository{db: db}
}

// FindByContact finds the compliance detail of a contact
func (r *GormComplianceDetailRepository) FindByContact(ctx context.Context, contactID uuid.UUID) (*contact.ComplianceDetail, error) {
	var model models.ComplianceDetailModel
	if err := conn(ctx, r.db).
		Where("contact_id = ?", contactID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a compliance detail
func (r *GormComplianceDetailRepository) Save(ctx context.Context, detail *contact.ComplianceDetail) error {
	model := models.ComplianceDetailModelFromDomain(detail)
	return conn(ctx, r.db).Save(model).Error
}

// Ensure GormComplianceDetailRepository implements contact.ComplianceDetailRepository
var _ contact.ComplianceDetailRepository = (*GormComplianceDetailRepository)(nil)
