package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	appcascade "github.com/rmcsharry/hq-api/internal/application/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/infrastructure/persistence/models"
)

// GormCascadeExecutor implements the cascade Executor using GORM. The
// whole plan is applied inside a single transaction: nullifies first,
// then deletions child-before-parent in plan order.
type GormCascadeExecutor struct {
	db *gorm.DB
}

// NewGormCascadeExecutor creates a new GormCascadeExecutor
func NewGormCascadeExecutor(db *gorm.DB) *GormCascadeExecutor {
	return &GormCascadeExecutor{db: db}
}

// Apply runs every nullify and delete of the plan in one transaction
func (e *GormCascadeExecutor) Apply(ctx context.Context, plan *cascade.Plan) error {
	return conn(ctx, e.db).Transaction(func(tx *gorm.DB) error {
		for _, ref := range plan.Nullifies {
			if err := e.nullify(tx, ref); err != nil {
				return err
			}
		}
		for _, ref := range plan.Deletions {
			if err := e.delete(tx, ref); err != nil {
				return err
			}
		}
		return nil
	})
}

// nullify clears the dangling reference on a surviving record. Tasks lose
// their subject; activities keep their row, their link to the deleted
// mandate goes away with the mandate's join rows.
func (e *GormCascadeExecutor) nullify(tx *gorm.DB, ref cascade.Ref) error {
	switch ref.Entity {
	case "Task":
		return tx.Model(&models.TaskModel{}).
			Where("id = ?", ref.ID).
			Updates(map[string]any{"subject_type": nil, "subject_id": nil}).Error
	case "Activity":
		return nil
	default:
		return fmt.Errorf("cannot nullify entity: %s", ref.Entity)
	}
}

// delete removes a record and its dangling join rows
func (e *GormCascadeExecutor) delete(tx *gorm.DB, ref cascade.Ref) error {
	switch ref.Entity {
	case "Contact":
		if err := tx.Where("contact_id = ?", ref.ID).
			Delete(&models.ActivityContactModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_type = ? AND item_id = ?", "Contact", ref.ID).
			Delete(&models.ListItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ContactModel{}, "id = ?", ref.ID).Error
	case "Mandate":
		for _, cleanup := range []struct {
			model  any
			column string
		}{
			{&models.MandateGroupAssignmentModel{}, "mandate_id"},
			{&models.MandateMemberModel{}, "mandate_id"},
			{&models.ActivityMandateModel{}, "mandate_id"},
		} {
			if err := tx.Where(cleanup.column+" = ?", ref.ID).Delete(cleanup.model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("item_type = ? AND item_id = ?", "Mandate", ref.ID).
			Delete(&models.ListItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MandateModel{}, "id = ?", ref.ID).Error
	case "Fund":
		return tx.Delete(&models.FundModel{}, "id = ?", ref.ID).Error
	case "Address":
		return tx.Delete(&models.AddressModel{}, "id = ?", ref.ID).Error
	case "ContactDetail":
		return tx.Delete(&models.ContactDetailModel{}, "id = ?", ref.ID).Error
	case "TaxDetail":
		if err := tx.Where("tax_detail_id = ?", ref.ID).
			Delete(&models.ForeignTaxNumberModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaxDetailModel{}, "id = ?", ref.ID).Error
	case "ComplianceDetail":
		return tx.Delete(&models.ComplianceDetailModel{}, "id = ?", ref.ID).Error
	case "ContactRelationship":
		return tx.Delete(&models.RelationshipModel{}, "id = ?", ref.ID).Error
	case "Document":
		return tx.Delete(&models.DocumentModel{}, "id = ?", ref.ID).Error
	case "BankAccount":
		return tx.Delete(&models.BankAccountModel{}, "id = ?", ref.ID).Error
	case "MandateMember":
		return tx.Delete(&models.MandateMemberModel{}, "id = ?", ref.ID).Error
	case "Investor":
		return tx.Delete(&models.InvestorModel{}, "id = ?", ref.ID).Error
	case "FundCashflow":
		return tx.Delete(&models.FundCashflowModel{}, "id = ?", ref.ID).Error
	case "InvestorCashflow":
		return tx.Delete(&models.InvestorCashflowModel{}, "id = ?", ref.ID).Error
	case "FundReport":
		return tx.Delete(&models.FundReportModel{}, "id = ?", ref.ID).Error
	case "Activity":
		for _, cleanup := range []struct {
			model  any
			column string
		}{
			{&models.ActivityMandateModel{}, "activity_id"},
			{&models.ActivityContactModel{}, "activity_id"},
		} {
			if err := tx.Where(cleanup.column+" = ?", ref.ID).Delete(cleanup.model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.ActivityModel{}, "id = ?", ref.ID).Error
	case "Task":
		if err := tx.Where("task_id = ?", ref.ID).
			Delete(&models.TaskAssignmentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaskModel{}, "id = ?", ref.ID).Error
	case "TaskComment":
		return tx.Delete(&models.TaskCommentModel{}, "id = ?", ref.ID).Error
	case "UserGroup":
		for _, cleanup := range []struct {
			model  any
			column string
		}{
			{&models.UserGroupRoleModel{}, "user_group_id"},
			{&models.UserGroupUserModel{}, "user_group_id"},
			{&models.UserGroupMandateGroupModel{}, "user_group_id"},
		} {
			if err := tx.Where(cleanup.column+" = ?", ref.ID).Delete(cleanup.model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.UserGroupModel{}, "id = ?", ref.ID).Error
	case "MandateGroup":
		for _, cleanup := range []struct {
			model  any
			column string
		}{
			{&models.MandateGroupAssignmentModel{}, "mandate_group_id"},
			{&models.UserGroupMandateGroupModel{}, "mandate_group_id"},
		} {
			if err := tx.Where(cleanup.column+" = ?", ref.ID).Delete(cleanup.model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.MandateGroupModel{}, "id = ?", ref.ID).Error
	default:
		return fmt.Errorf("cannot delete entity: %s", ref.Entity)
	}
}

// Ensure GormCascadeExecutor implements the cascade executor
var _ appcascade.Executor = (*GormCascadeExecutor)(nil)
