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

// GormInvestorRepository implements fund.InvestorRepository using GORM
type GormInvestorRepository struct {
	db *gorm.DB
}

// NewGormInvestorRepository creates a new GormInvestorRepository
func NewGormInvestorRepository(db *gorm.DB) *GormInvestorRepository {
	return &GormInvestorRepository{db: db}
}

// FindByID finds an investor by its ID
func (r *GormInvestorRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Investor, error) {
	var model models.InvestorModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFund finds investors of a fund
func (r *GormInvestorRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*fund.Investor, int64, error) {
	base := conn(ctx, r.db).Model(&models.InvestorModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var investorModels []models.InvestorModel
	query := r.applyFilter(base.Session(&gorm.Session{}), filter)
	if err := query.Find(&investorModels).Error; err != nil {
		return nil, 0, err
	}

	investors := make([]*fund.Investor, len(investorModels))
	for i, model := range investorModels {
		investors[i] = model.ToDomain()
	}
	return investors, total, nil
}

// Save creates or updates an investor
func (r *GormInvestorRepository) Save(ctx context.Context, investor *fund.Investor) error {
	model := models.InvestorModelFromDomain(investor)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes an investor
func (r *GormInvestorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.InvestorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormInvestorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"state": true, "amount_total": true, "investment_date": true,
	}, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvestorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "mandate_id":
			query = query.Where("mandate_id = ?", value)
		case "contact_id":
			query = query.Where("contact_id = ?", value)
		}
	}
	return query
}

// Ensure GormInvestorRepository implements fund.InvestorRepository
var _ fund.InvestorRepository = (*GormInvestorRepository)(nil)
