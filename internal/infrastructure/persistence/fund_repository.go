package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormFundRepository implements fund.Repository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

// NewGormFundRepository creates a new GormFundRepository
func NewGormFundRepository(db *gorm.DB) *GormFundRepository {
	return &GormFundRepository{db: db}
}

// FindByID finds a fund by its ID
func (r *GormFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	var model models.FundModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all funds matching the filter and the unpaginated total
func (r *GormFundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*fund.Fund, int64, error) {
	var total int64
	countQuery := r.applyFilterWithoutPagination(conn(ctx, r.db).Model(&models.FundModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var fundModels []models.FundModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.FundModel{}), filter)
	if err := query.Find(&fundModels).Error; err != nil {
		return nil, 0, err
	}

	funds := make([]*fund.Fund, len(fundModels))
	for i, model := range fundModels {
		funds[i] = model.ToDomain()
	}
	return funds, total, nil
}

// Save creates or updates a fund
func (r *GormFundRepository) Save(ctx context.Context, f *fund.Fund) error {
	model := models.FundModelFromDomain(f)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a fund
func (r *GormFundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.FundModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormFundRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, FundSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormFundRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("name ILIKE ? OR company ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "fund_type":
			query = query.Where("fund_type = ?", value)
		case "issuing_year":
			query = query.Where("issuing_year = ?", value)
		}
	}

	return query
}

// Ensure GormFundRepository implements fund.Repository
var _ fund.Repository = (*GormFundRepository)(nil)
