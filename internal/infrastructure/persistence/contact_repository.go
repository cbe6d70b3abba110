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

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	var model models.ContactModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple contacts by their IDs
func (r *GormContactRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*contact.Contact, error) {
	if len(ids) == 0 {
		return []*contact.Contact{}, nil
	}

	var contactModels []models.ContactModel
	if err := conn(ctx, r.db).
		Where("id IN ?", ids).
		Find(&contactModels).Error; err != nil {
		return nil, err
	}

	contacts := make([]*contact.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = model.ToDomain()
	}
	return contacts, nil
}

// FindAll finds all contacts matching the filter and the unpaginated total
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*contact.Contact, int64, error) {
	var total int64
	countQuery := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.ContactModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contactModels []models.ContactModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.ContactModel{}), filter)
	if err := query.Find(&contactModels).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]*contact.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = model.ToDomain()
	}
	return contacts, total, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	model := models.ContactModelFromDomain(c)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ContactSortFields, "last_name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContactRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR organization_name ILIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "contact_type":
			query = query.Where("contact_type = ?", value)
		case "nationality":
			query = query.Where("nationality = ?", value)
		case "organization_type":
			query = query.Where("organization_type = ?", value)
		}
	}

	return query
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
