package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/newsletter"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormSubscriberRepository implements newsletter.Repository using GORM
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// FindByID finds a subscriber by its ID
func (r *GormSubscriberRepository) FindByID(ctx context.Context, id uuid.UUID) (*newsletter.Subscriber, error) {
	var model models.SubscriberModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a subscriber by email
func (r *GormSubscriberRepository) FindByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.SubscriberModel
	if err := conn(ctx, r.db).
		Where("email = ?", email).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByConfirmationToken finds a subscriber by confirmation token
func (r *GormSubscriberRepository) FindByConfirmationToken(ctx context.Context, token string) (*newsletter.Subscriber, error) {
	if token == "" {
		return nil, shared.ErrNotFound
	}
	var model models.SubscriberModel
	if err := conn(ctx, r.db).
		Where("confirmation_token = ?", token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all subscribers matching the filter and the unpaginated total
func (r *GormSubscriberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*newsletter.Subscriber, int64, error) {
	base := conn(ctx, r.db).Model(&models.SubscriberModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		base = base.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern)
	}
	if state, ok := filter.Filters["state"]; ok {
		base = base.Where("state = ?", state)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Order("email " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var subscriberModels []models.SubscriberModel
	if err := query.Find(&subscriberModels).Error; err != nil {
		return nil, 0, err
	}

	subscribers := make([]*newsletter.Subscriber, len(subscriberModels))
	for i, model := range subscriberModels {
		subscribers[i] = model.ToDomain()
	}
	return subscribers, total, nil
}

// Save creates or updates a subscriber
func (r *GormSubscriberRepository) Save(ctx context.Context, subscriber *newsletter.Subscriber) error {
	model := models.SubscriberModelFromDomain(subscriber)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a subscriber
func (r *GormSubscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.SubscriberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSubscriberRepository implements newsletter.Repository
var _ newsletter.Repository = (*GormSubscriberRepository)(nil)
