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

// GormCashflowRepository implements fund.CashflowRepository using GORM
type GormCashflowRepository struct {
	db *gorm.DB
}

// NewGormCashflowRepository creates a new GormCashflowRepository
func NewGormCashflowRepository(db *gorm.DB) *GormCashflowRepository {
	return &GormCashflowRepository{db: db}
}

// FindByID finds a cashflow batch by its ID
func (r *GormCashflowRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.FundCashflow, error) {
	var model models.FundCashflowModel
	if err := conn(ctx, r.db).
		Preload("Cashflows").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFund finds cashflow batches of a fund
func (r *GormCashflowRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*fund.FundCashflow, int64, error) {
	base := conn(ctx, r.db).Model(&models.FundCashflowModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Preload("Cashflows")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("number " + ValidateSortOrder(filter.OrderDir))

	var cashflowModels []models.FundCashflowModel
	if err := query.Find(&cashflowModels).Error; err != nil {
		return nil, 0, err
	}

	cashflows := make([]*fund.FundCashflow, len(cashflowModels))
	for i, model := range cashflowModels {
		cashflows[i] = model.ToDomain()
	}
	return cashflows, total, nil
}

// FindLineByID finds a single investor cashflow line
func (r *GormCashflowRepository) FindLineByID(ctx context.Context, id uuid.UUID) (*fund.InvestorCashflow, error) {
	var model models.InvestorCashflowModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a cashflow batch together with its lines
func (r *GormCashflowRepository) Save(ctx context.Context, cashflow *fund.FundCashflow) error {
	model := models.FundCashflowModelFromDomain(cashflow)
	return conn(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(model).Error
}

// SaveLine updates a single investor cashflow line
func (r *GormCashflowRepository) SaveLine(ctx context.Context, line *fund.InvestorCashflow) error {
	model := models.InvestorCashflowModelFromDomain(line)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a cashflow batch and its lines
func (r *GormCashflowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fund_cashflow_id = ?", id).
			Delete(&models.InvestorCashflowModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.FundCashflowModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCashflowRepository implements fund.CashflowRepository
var _ fund.CashflowRepository = (*GormCashflowRepository)(nil)
