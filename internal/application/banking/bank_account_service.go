package banking

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/banking"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// BankAccountService handles bank accounts of mandates and funds
type BankAccountService struct {
	accountRepo banking.Repository
	mandateRepo mandate.Repository
	authorizer  *authorization.Authorizer
	recorder    *appaudit.Recorder
	uow         shared.UnitOfWork
}

// NewBankAccountService creates a new BankAccountService
func NewBankAccountService(accountRepo banking.Repository, mandateRepo mandate.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *BankAccountService {
	return &BankAccountService{
		accountRepo: accountRepo,
		mandateRepo: mandateRepo,
		authorizer:  authorizer,
		recorder:    recorder,
		uow:         uow,
	}
}

// Create adds a bank account to a mandate or fund
func (s *BankAccountService) Create(ctx context.Context, actor authz.Actor, req SaveBankAccountRequest) (*BankAccountResponse, error) {
	owner, err := shared.NewOwnerRef(shared.OwnerKind(req.OwnerType), req.OwnerID)
	if err != nil {
		return nil, err
	}
	res, err := s.ownerResource(ctx, owner, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, res); err != nil {
		return nil, err
	}

	account, err := banking.NewBankAccount(owner, req.BankName, req.Currency)
	if err != nil {
		return nil, err
	}
	applyIdentification(account, req)
	if err := account.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "BankAccount", account.ID, actorID(actor), accountSnapshot(account), ownerParent(owner))
	})
	if err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// ListByOwner returns the bank accounts of a mandate or fund
func (s *BankAccountService) ListByOwner(ctx context.Context, actor authz.Actor, owner shared.OwnerRef) ([]BankAccountResponse, error) {
	res, err := s.ownerResource(ctx, owner, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, res); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ToBankAccountResponses(accounts), nil
}

// Update replaces the mutable fields of a bank account
func (s *BankAccountService) Update(ctx context.Context, actor authz.Actor, accountID uuid.UUID, req SaveBankAccountRequest) (*BankAccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	res, err := s.ownerResource(ctx, account.Owner, account.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, res); err != nil {
		return nil, err
	}
	before := accountSnapshot(account)

	account.AccountType = req.AccountType
	account.BankName = req.BankName
	account.Currency = req.Currency
	account.IBAN = ""
	account.BIC = ""
	account.AccountNumber = ""
	account.RoutingNumber = ""
	applyIdentification(account, req)
	if err := account.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "BankAccount", account.ID, actorID(actor), before, accountSnapshot(account), ownerParent(account.Owner))
	})
	if err != nil {
		return nil, err
	}

	response := ToBankAccountResponse(account)
	return &response, nil
}

// Delete removes a bank account
func (s *BankAccountService) Delete(ctx context.Context, actor authz.Actor, accountID uuid.UUID) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	res, err := s.ownerResource(ctx, account.Owner, account.ID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, res); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Delete(ctx, accountID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "BankAccount", account.ID, actorID(actor), accountSnapshot(account), ownerParent(account.Owner))
	})
}

// ownerResource builds the permission descriptor. Mandate-owned accounts
// carry the owning mandate's groups so the scoped roles apply.
func (s *BankAccountService) ownerResource(ctx context.Context, owner shared.OwnerRef, accountID uuid.UUID) (authz.Resource, error) {
	res := authz.Resource{Kind: authz.KindBankAccount, ID: accountID, Owner: &owner}
	if owner.Kind == shared.OwnerMandate {
		m, err := s.mandateRepo.FindByID(ctx, owner.ID)
		if err != nil {
			return authz.Resource{}, err
		}
		res.MandateGroupIDs = m.MandateGroupIDs
	}
	return res, nil
}

func applyIdentification(account *banking.BankAccount, req SaveBankAccountRequest) {
	account.AccountType = req.AccountType
	if req.IBAN != "" || req.BIC != "" {
		account.SetIBAN(req.IBAN, req.BIC)
	}
	if req.AccountNumber != "" || req.RoutingNumber != "" {
		account.SetDomestic(req.AccountNumber, req.RoutingNumber)
	}
}

func accountSnapshot(a *banking.BankAccount) audit.Snapshot {
	return audit.Snapshot{
		"owner_type":     a.Owner.Kind.String(),
		"owner_id":       a.Owner.ID.String(),
		"account_type":   a.AccountType,
		"bank_name":      a.BankName,
		"currency":       a.Currency,
		"iban":           a.IBAN,
		"bic":            a.BIC,
		"account_number": a.AccountNumber,
		"routing_number": a.RoutingNumber,
	}
}

func ownerParent(owner shared.OwnerRef) *audit.ParentRef {
	return &audit.ParentRef{ItemType: string(owner.Kind), ItemID: owner.ID}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}
