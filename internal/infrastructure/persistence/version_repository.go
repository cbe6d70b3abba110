package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormVersionRepository implements audit.Repository using GORM. The
// versions table is append-only; rows are never updated or deleted.
type GormVersionRepository struct {
	db *gorm.DB
}

// NewGormVersionRepository creates a new GormVersionRepository
func NewGormVersionRepository(db *gorm.DB) *GormVersionRepository {
	return &GormVersionRepository{db: db}
}

// Append writes a new version record
func (r *GormVersionRepository) Append(ctx context.Context, version *audit.Version) error {
	model, err := models.VersionModelFromDomain(version)
	if err != nil {
		return err
	}
	return conn(ctx, r.db).Create(model).Error
}

// FindForItem returns the entity's own versions, newest first
func (r *GormVersionRepository) FindForItem(ctx context.Context, itemType string, itemID uuid.UUID, filter shared.Filter) ([]*audit.Version, int64, error) {
	base := conn(ctx, r.db).Model(&models.VersionModel{}).
		Where("item_type = ? AND item_id = ?", itemType, itemID)
	return r.page(base, filter)
}

// FindForParent returns versions of all entities grouped under the
// aggregate, merged with the aggregate's own, newest first.
func (r *GormVersionRepository) FindForParent(ctx context.Context, parentType string, parentID uuid.UUID, filter shared.Filter) ([]*audit.Version, int64, error) {
	base := conn(ctx, r.db).Model(&models.VersionModel{}).
		Where("(item_type = ? AND item_id = ?) OR (parent_item_type = ? AND parent_item_id = ?)",
			parentType, parentID, parentType, parentID)
	return r.page(base, filter)
}

func (r *GormVersionRepository) page(base *gorm.DB, filter shared.Filter) ([]*audit.Version, int64, error) {
	if event, ok := filter.Filters["event"]; ok {
		base = base.Where("event = ?", event)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderDir := "DESC"
	if filter.OrderDir == "asc" {
		orderDir = "ASC"
	}
	query := base.Session(&gorm.Session{}).Order("created_at " + orderDir)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var versionModels []models.VersionModel
	if err := query.Find(&versionModels).Error; err != nil {
		return nil, 0, err
	}

	versions := make([]*audit.Version, len(versionModels))
	for i, model := range versionModels {
		versions[i] = model.ToDomain()
	}
	return versions, total, nil
}

// Ensure GormVersionRepository implements audit.Repository
var _ audit.Repository = (*GormVersionRepository)(nil)
