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

// GormFundReportRepository implements fund.ReportRepository using GORM
type GormFundReportRepository struct {
	db *gorm.DB
}

// NewGormFundReportRepository creates a new GormFundReportRepository
func NewGormFundReportRepository(db *gorm.DB) *GormFundReportRepository {
	return &GormFundReportRepository{db: db}
}

// FindByID finds a fund report by its ID
func (r *GormFundReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.FundReport, error) {
	var model models.FundReportModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFund finds reports of a fund, newest valuta date first
func (r *GormFundReportRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*fund.FundReport, int64, error) {
	base := conn(ctx, r.db).Model(&models.FundReportModel{}).Where("fund_id = ?", fundID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Session(&gorm.Session{}).Order("valuta_date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var reportModels []models.FundReportModel
	if err := query.Find(&reportModels).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]*fund.FundReport, len(reportModels))
	for i, model := range reportModels {
		reports[i] = model.ToDomain()
	}
	return reports, total, nil
}

// Save creates or updates a fund report
func (r *GormFundReportRepository) Save(ctx context.Context, report *fund.FundReport) error {
	model := models.FundReportModelFromDomain(report)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a fund report
func (r *GormFundReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.FundReportModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFundReportRepository implements fund.ReportRepository
var _ fund.ReportRepository = (*GormFundReportRepository)(nil)
