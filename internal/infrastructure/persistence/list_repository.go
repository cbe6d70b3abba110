package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/list"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormListRepository implements list.Repository using GORM
type GormListRepository struct {
	db *gorm.DB
}

// NewGormListRepository creates a new GormListRepository
func NewGormListRepository(db *gorm.DB) *GormListRepository {
	return &GormListRepository{db: db}
}

// FindByID finds a list by its ID
func (r *GormListRepository) FindByID(ctx context.Context, id uuid.UUID) (*list.List, error) {
	var model models.ListModel
	if err := conn(ctx, r.db).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCreator finds the user's lists; archived ones only when
// includeArchived is set.
func (r *GormListRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, includeArchived bool, filter shared.Filter) ([]*list.List, int64, error) {
	base := conn(ctx, r.db).Model(&models.ListModel{}).Where("creator_id = ?", creatorID)
	if !includeArchived {
		base = base.Where("state = ?", list.StateActive)
	}
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		base = base.Where("name ILIKE ?", pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, map[string]bool{
		"id": true, "created_at": true, "updated_at": true, "name": true,
	}, "name")
	query := base.Session(&gorm.Session{}).
		Preload("Items").
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var listModels []models.ListModel
	if err := query.Find(&listModels).Error; err != nil {
		return nil, 0, err
	}

	lists := make([]*list.List, len(listModels))
	for i, model := range listModels {
		lists[i] = model.ToDomain()
	}
	return lists, total, nil
}

// Save creates or updates a list together with its memberships. Removed
// items are deleted; the remainder is upserted.
func (r *GormListRepository) Save(ctx context.Context, l *list.List) error {
	model := models.ListModelFromDomain(l)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", l.ID).
			Delete(&models.ListItemModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes a list and its membership rows
func (r *GormListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).
			Delete(&models.ListItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ListModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormListRepository implements list.Repository
var _ list.Repository = (*GormListRepository)(nil)
