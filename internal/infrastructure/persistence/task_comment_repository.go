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

// GormTaskCommentRepository implements task.CommentRepository using GORM
type GormTaskCommentRepository struct {
	db *gorm.DB
}

// NewGormTaskCommentRepository creates a new GormTaskCommentRepository
func NewGormTaskCommentRepository(db *gorm.DB) *GormTaskCommentRepository {
	return &GormTaskCommentRepository{db: db}
}

// FindByID finds a task comment by its ID
func (r *GormTaskCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Comment, error) {
	var model models.TaskCommentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTask finds all comments of a task, oldest first
func (r *GormTaskCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]*task.Comment, error) {
	var commentModels []models.TaskCommentModel
	if err := conn(ctx, r.db).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*task.Comment, len(commentModels))
	for i, model := range commentModels {
		comments[i] = model.ToDomain()
	}
	return comments, nil
}

// Save creates or updates a task comment
func (r *GormTaskCommentRepository) Save(ctx context.Context, comment *task.Comment) error {
	model := models.TaskCommentModelFromDomain(comment)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a task comment
func (r *GormTaskCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.TaskCommentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTaskCommentRepository implements task.CommentRepository
var _ task.CommentRepository = (*GormTaskCommentRepository)(nil)
