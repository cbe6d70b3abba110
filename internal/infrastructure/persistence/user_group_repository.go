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

// GormUserGroupRepository implements identity.UserGroupRepository using GORM
type GormUserGroupRepository struct {
	db *gorm.DB
}

// NewGormUserGroupRepository creates a new GormUserGroupRepository
func NewGormUserGroupRepository(db *gorm.DB) *GormUserGroupRepository {
	return &GormUserGroupRepository{db: db}
}

// FindByID finds a user group by its ID
func (r *GormUserGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.UserGroup, error) {
	var model models.UserGroupModel
	if err := conn(ctx, r.db).
		Preload("Roles").
		Preload("Users").
		Preload("MandateGroups").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser finds all groups a user belongs to
func (r *GormUserGroupRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.UserGroup, error) {
	var groupModels []models.UserGroupModel
	if err := conn(ctx, r.db).
		Preload("Roles").
		Preload("Users").
		Preload("MandateGroups").
		Where("id IN (?)", r.db.Model(&models.UserGroupUserModel{}).
			Select("user_group_id").
			Where("user_id = ?", userID)).
		Find(&groupModels).Error; err != nil {
		return nil, err
	}

	groups := make([]*identity.UserGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}
	return groups, nil
}

// FindAll finds all user groups matching the filter and the unpaginated total
func (r *GormUserGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.UserGroup, int64, error) {
	base := conn(ctx, r.db).Model(&models.UserGroupModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		base = base.Where("name ILIKE ?", pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).
		Preload("Roles").
		Preload("Users").
		Preload("MandateGroups").
		Order("name " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var groupModels []models.UserGroupModel
	if err := query.Find(&groupModels).Error; err != nil {
		return nil, 0, err
	}

	groups := make([]*identity.UserGroup, len(groupModels))
	for i, model := range groupModels {
		groups[i] = model.ToDomain()
	}
	return groups, total, nil
}

// Save creates or updates a user group together with its roles, users and
// mandate group assignments. Removed child rows are deleted; the remainder
// is upserted.
func (r *GormUserGroupRepository) Save(ctx context.Context, group *identity.UserGroup) error {
	model := models.UserGroupModelFromDomain(group)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{
			&models.UserGroupRoleModel{},
			&models.UserGroupUserModel{},
			&models.UserGroupMandateGroupModel{},
		} {
			if err := tx.Where("user_group_id = ?", group.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes a user group and its child rows
func (r *GormUserGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{
			&models.UserGroupRoleModel{},
			&models.UserGroupUserModel{},
			&models.UserGroupMandateGroupModel{},
		} {
			if err := tx.Where("user_group_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.UserGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormUserGroupRepository implements identity.UserGroupRepository
var _ identity.UserGroupRepository = (*GormUserGroupRepository)(nil)
