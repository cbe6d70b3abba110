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

// GormActivityRepository implements mandate.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*mandate.Activity, error) {
	var model models.ActivityModel
	if err := conn(ctx, r.db).
		Preload("MandateLinks").
		Preload("ContactLinks").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByMandate finds activities attached to a mandate
func (r *GormActivityRepository) FindByMandate(ctx context.Context, mandateID uuid.UUID, filter shared.Filter) ([]*mandate.Activity, int64, error) {
	linked := r.db.Model(&models.ActivityMandateModel{}).
		Select("activity_id").
		Where("mandate_id = ?", mandateID)
	return r.findLinked(ctx, linked, filter)
}

// FindByContact finds activities attached to a contact
func (r *GormActivityRepository) FindByContact(ctx context.Context, contactID uuid.UUID, filter shared.Filter) ([]*mandate.Activity, int64, error) {
	linked := r.db.Model(&models.ActivityContactModel{}).
		Select("activity_id").
		Where("contact_id = ?", contactID)
	return r.findLinked(ctx, linked, filter)
}

func (r *GormActivityRepository) findLinked(ctx context.Context, linked *gorm.DB, filter shared.Filter) ([]*mandate.Activity, int64, error) {
	base := conn(ctx, r.db).Model(&models.ActivityModel{}).Where("id IN (?)", linked)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activityModels []models.ActivityModel
	query := r.applyFilter(base.Session(&gorm.Session{}), filter).
		Preload("MandateLinks").
		Preload("ContactLinks")
	if err := query.Find(&activityModels).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]*mandate.Activity, len(activityModels))
	for i, model := range activityModels {
		activities[i] = model.ToDomain()
	}
	return activities, total, nil
}

// Save creates or updates an activity together with its mandate and
// contact links. Removed links are deleted; the remainder is upserted.
func (r *GormActivityRepository) Save(ctx context.Context, activity *mandate.Activity) error {
	model := models.ActivityModelFromDomain(activity)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activity.ID).
			Delete(&models.ActivityMandateModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", activity.ID).
			Delete(&models.ActivityContactModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes an activity and its link rows
func (r *GormActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).
			Delete(&models.ActivityMandateModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).
			Delete(&models.ActivityContactModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ActivityModel{}, "id = ?", id)
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
func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy == "" {
		return query.Order("started_at DESC")
	}
	orderBy := ValidateSortField(filter.OrderBy, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"started_at": true, "title": true, "activity_type": true,
	}, "started_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormActivityRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "activity_type":
			query = query.Where("activity_type = ?", value)
		case "creator_id":
			query = query.Where("creator_id = ?", value)
		}
	}

	return query
}

// Ensure GormActivityRepository implements mandate.ActivityRepository
var _ mandate.ActivityRepository = (*GormActivityRepository)(nil)
