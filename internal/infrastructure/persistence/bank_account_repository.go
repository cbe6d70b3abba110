package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/banking"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormBankAccountRepository implements banking.Repository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByID finds a bank account by its ID
func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*banking.BankAccount, error) {
	var model models.BankAccountModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds all bank accounts belonging to the given owner
func (r *GormBankAccountRepository) FindByOwner(ctx context.Context, owner shared.OwnerRef) ([]*banking.BankAccount, error) {
	var accountModels []models.BankAccountModel
	if err := conn(ctx, r.db).
		Where("owner_type = ? AND owner_id = ?", owner.Kind, owner.ID).
		Order("created_at ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*banking.BankAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *banking.BankAccount) error {
	model := models.BankAccountModelFromDomain(account)
	return conn(ctx, r.db).Save(model).Error
}

// Delete deletes a bank account
func (r *GormBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.BankAccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBankAccountRepository implements banking.Repository
var _ banking.Repository = (*GormBankAccountRepository)(nil)
