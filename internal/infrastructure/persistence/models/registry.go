package models

// All returns every persistence model in dependency order. Used by the
// integration test harness to build a schema without migration files.
func All() []interface{} {
	return []interface{}{
		&ContactModel{},
		&AddressModel{},
		&ContactDetailModel{},
		&TaxDetailModel{},
		&ForeignTaxNumberModel{},
		&ComplianceDetailModel{},
		&RelationshipModel{},
		&UserModel{},
		&UserGroupModel{},
		&UserGroupRoleModel{},
		&UserGroupUserModel{},
		&MandateGroupModel{},
		&UserGroupMandateGroupModel{},
		&MandateModel{},
		&MandateGroupAssignmentModel{},
		&MandateMemberModel{},
		&ActivityModel{},
		&ActivityMandateModel{},
		&ActivityContactModel{},
		&FundModel{},
		&InvestorModel{},
		&FundCashflowModel{},
		&InvestorCashflowModel{},
		&FundReportModel{},
		&BankAccountModel{},
		&DocumentModel{},
		&TaskModel{},
		&TaskAssignmentModel{},
		&TaskCommentModel{},
		&ListModel{},
		&ListItemModel{},
		&SubscriberModel{},
		&VersionModel{},
	}
}
