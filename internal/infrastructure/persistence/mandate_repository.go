package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormMandateRepository implements mandate.Repository using GORM
type GormMandateRepository struct {
	db *gorm.DB
}

// NewGormMandateRepository creates a new GormMandateRepository
func NewGormMandateRepository(db *gorm.DB) *GormMandateRepository {
	return &GormMandateRepository{db: db}
}

// FindByID finds a mandate by its ID
func (r *GormMandateRepository) FindByID(ctx context.Context, id uuid.UUID) (*mandate.Mandate, error) {
	var model models.MandateModel
	if err := conn(ctx, r.db).
		Preload("GroupAssignments").
		Preload("Members").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindVisible finds mandates matching the filter, restricted to the given
// mandate groups. A nil slice means unrestricted; an empty slice matches
// nothing.
func (r *GormMandateRepository) FindVisible(ctx context.Context, mandateGroupIDs []uuid.UUID, filter shared.Filter) ([]*mandate.Mandate, int64, error) {
	if mandateGroupIDs != nil && len(mandateGroupIDs) == 0 {
		return []*mandate.Mandate{}, 0, nil
	}

	base := conn(ctx, r.db).Model(&models.MandateModel{})
	if mandateGroupIDs != nil {
		base = base.Where(
			"id IN (?)",
			r.db.Model(&models.MandateGroupAssignmentModel{}).
				Select("mandate_id").
				Where("mandate_group_id IN ?", mandateGroupIDs),
		)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var mandateModels []models.MandateModel
	query := r.applyFilter(base.Session(&gorm.Session{}), filter).
		Preload("GroupAssignments").
		Preload("Members")
	if err := query.Find(&mandateModels).Error; err != nil {
		return nil, 0, err
	}

	mandates := make([]*mandate.Mandate, len(mandateModels))
	for i, model := range mandateModels {
		mandates[i] = model.ToDomain()
	}
	return mandates, total, nil
}

// Save creates or updates a mandate together with its group assignments
// and members. Removed child rows are deleted; the remainder is upserted.
func (r *GormMandateRepository) Save(ctx context.Context, md *mandate.Mandate) error {
	model := models.MandateModelFromDomain(md)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mandate_id = ?", md.ID).
			Delete(&models.MandateGroupAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mandate_id = ?", md.ID).
			Delete(&models.MandateMemberModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes a mandate and its child rows
func (r *GormMandateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mandate_id = ?", id).
			Delete(&models.MandateGroupAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("mandate_id = ?", id).
			Delete(&models.MandateMemberModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MandateModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormMandateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MandateSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMandateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("category ILIKE ? OR comment ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "primary_consultant_id":
			query = query.Where("primary_consultant_id = ?", value)
		}
	}

	return query
}

// Ensure GormMandateRepository implements mandate.Repository
var _ mandate.Repository = (*GormMandateRepository)(nil)
