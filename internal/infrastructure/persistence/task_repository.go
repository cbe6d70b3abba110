package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/domain/task"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormTaskRepository implements task.Repository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := conn(ctx, r.db).
		Preload("Assignees").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindVisible finds tasks the user created or is assigned to
func (r *GormTaskRepository) FindVisible(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*task.Task, int64, error) {
	assigned := r.db.Model(&models.TaskAssignmentModel{}).
		Select("task_id").
		Where("user_id = ?", userID)
	base := conn(ctx, r.db).Model(&models.TaskModel{}).
		Where("creator_id = ? OR id IN (?)", userID, assigned)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var taskModels []models.TaskModel
	query := r.applyFilter(base.Session(&gorm.Session{}), filter).Preload("Assignees")
	if err := query.Find(&taskModels).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]*task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = model.ToDomain()
	}
	return tasks, total, nil
}

// Save creates or updates a task together with its assignments. Removed
// assignments are deleted; the remainder is upserted.
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", t.ID).
			Delete(&models.TaskAssignmentModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(model).Error
	})
}

// Delete deletes a task and its assignment rows
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).
			Delete(&models.TaskAssignmentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TaskModel{}, "id = ?", id)
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
func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTaskRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "subject_type":
			query = query.Where("subject_type = ?", value)
		case "subject_id":
			query = query.Where("subject_id = ?", value)
		}
	}

	return query
}

// Ensure GormTaskRepository implements task.Repository
var _ task.Repository = (*GormTaskRepository)(nil)
