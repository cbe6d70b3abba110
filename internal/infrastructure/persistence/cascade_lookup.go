package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormCascadeLookup implements cascade.Lookup using GORM. It resolves the
// dependent record IDs for each edge of the deletion policy.
type GormCascadeLookup struct {
	db *gorm.DB
}

// NewGormCascadeLookup creates a new GormCascadeLookup
func NewGormCascadeLookup(db *gorm.DB) *GormCascadeLookup {
	return &GormCascadeLookup{db: db}
}

// FindDependents returns the IDs of dependent records of the given kind
// that reference the parent.
func (l *GormCascadeLookup) FindDependents(ctx context.Context, dependent string, parent cascade.Ref) ([]uuid.UUID, error) {
	db := conn(ctx, l.db)
	var ids []uuid.UUID
	var err error

	switch dependent {
	case "Address":
		err = db.Model(&models.AddressModel{}).
			Where("owner_type = ? AND owner_id = ?", parent.Entity, parent.ID).
			Pluck("id", &ids).Error
	case "ContactDetail":
		err = db.Model(&models.ContactDetailModel{}).
			Where("contact_id = ?", parent.ID).
			Pluck("id", &ids).Error
	case "TaxDetail":
		err = db.Model(&models.TaxDetailModel{}).
			Where("contact_id = ?", parent.ID).
			Pluck("id", &ids).Error
	case "ComplianceDetail":
		err = db.Model(&models.ComplianceDetailModel{}).
			Where("contact_id = ?", parent.ID).
			Pluck("id", &ids).Error
	case "ContactRelationship":
		err = db.Model(&models.RelationshipModel{}).
			Where("source_contact_id = ? OR target_contact_id = ?", parent.ID, parent.ID).
			Pluck("id", &ids).Error
	case "Document":
		err = db.Model(&models.DocumentModel{}).
			Where("owner_type = ? AND owner_id = ?", parent.Entity, parent.ID).
			Pluck("id", &ids).Error
	case "BankAccount":
		err = db.Model(&models.BankAccountModel{}).
			Where("owner_type = ? AND owner_id = ?", parent.Entity, parent.ID).
			Pluck("id", &ids).Error
	case "MandateMember":
		err = db.Model(&models.MandateMemberModel{}).
			Where(l.parentColumn(parent)+" = ?", parent.ID).
			Pluck("id", &ids).Error
	case "Investor":
		err = db.Model(&models.InvestorModel{}).
			Where(l.parentColumn(parent)+" = ?", parent.ID).
			Pluck("id", &ids).Error
	case "FundCashflow":
		err = db.Model(&models.FundCashflowModel{}).
			Where("fund_id = ?", parent.ID).
			Pluck("id", &ids).Error
	case "InvestorCashflow":
		column := "fund_cashflow_id"
		if parent.Entity == "Investor" {
			column = "investor_id"
		}
		err = db.Model(&models.InvestorCashflowModel{}).
			Where(column+" = ?", parent.ID).
			Pluck("id", &ids).Error
	case "FundReport":
		err = db.Model(&models.FundReportModel{}).
			Where("fund_id = ?", parent.ID).
			Pluck("id", &ids).Error
	case "Activity":
		err = db.Model(&models.ActivityMandateModel{}).
			Where("mandate_id = ?", parent.ID).
			Pluck("activity_id", &ids).Error
	case "Task":
		err = db.Model(&models.TaskModel{}).
			Where("subject_type = ? AND subject_id = ?", parent.Entity, parent.ID).
			Pluck("id", &ids).Error
	case "TaskComment":
		err = db.Model(&models.TaskCommentModel{}).
			Where("task_id = ?", parent.ID).
			Pluck("id", &ids).Error
	default:
		return nil, fmt.Errorf("unknown dependent entity: %s", dependent)
	}

	if err != nil {
		return nil, err
	}
	return ids, nil
}

// parentColumn maps the parent entity to its foreign key column on rows
// that reference more than one aggregate.
func (l *GormCascadeLookup) parentColumn(parent cascade.Ref) string {
	switch parent.Entity {
	case "Contact":
		return "contact_id"
	case "Fund":
		return "fund_id"
	default:
		return "mandate_id"
	}
}

// Ensure GormCascadeLookup implements cascade.Lookup
var _ cascade.Lookup = (*GormCascadeLookup)(nil)
