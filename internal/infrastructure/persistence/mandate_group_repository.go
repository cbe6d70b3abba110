package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormMandateGroupRepository implements identity.MandateGroupRepository using GORM
type GormMandateGroupRepository struct {
	db *gorm.DB
}

// NewGormMandateGroupRepository creates a new GormMandateGroupRepository
func NewGormMandateGroupRepository(db *gorm.DB) *GormMandateGroupRepository {
	return &GormMandateGroupRepository{db: db}
}

// FindByID finds a mandate group by its ID
func (r *GormMandateGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.MandateGroup, error) {
	var model models.MandateGroupModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple mandate groups by their IDs
func (r *GormMandateGroupRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.MandateGroup, error) {
	if len(ids) == 0 {
		return []*identity.MandateGroup{}, nil
	}

	var groupModels []models.MandateGroupModel
	if err := conn(ctx, r.db).
		Where("id IN ?", ids).
		Find(&groupModels).Error; err != nil {
		return nil, err
	}

	groups := make([]*identity.MandateGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}
	return groups, nil
}

// FindAll finds all mandate groups matching the filter and the unpaginated total
func (r *GormMandateGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.MandateGroup, int64, error) {
	base := conn(ctx, r.db).Model(&models.MandateGroupModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		base = base.Where("name ILIKE ?", pattern)
	}
	if groupType, ok := filter.Filters["group_type"]; ok {
		base = base.Where("group_type = ?", groupType)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Order("name " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var groupModels []models.MandateGroupModel
	if err := query.Find(&groupModels).Error; err != nil {
		return nil, 0, err
	}

	groups := make([]*identity.MandateGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}
	return groups, total, nil
}

// Save creates or updates a mandate group
func (r *GormMandateGroupRepository) Save(ctx context.Context, group *identity.MandateGroup) error {
	model := models.MandateGroupModelFromDomain(group)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a mandate group and its assignment rows
func (r *GormMandateGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mandate_group_id = ?", id).
			Delete(&models.MandateGroupAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mandate_group_id = ?", id).
			Delete(&models.UserGroupMandateGroupModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MandateGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormMandateGroupRepository implements identity.MandateGroupRepository
var _ identity.MandateGroupRepository = (*GormMandateGroupRepository)(nil)
