package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// UserService handles user account operations
type UserService struct {
	userRepo   identity.UserRepository
	authorizer *authorization.Authorizer
	recorder   *appaudit.Recorder
	mailer     Mailer
	uow        shared.UnitOfWork
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, mailer Mailer, uow shared.UnitOfWork) *UserService {
	return &UserService{
		userRepo:   userRepo,
		authorizer: authorizer,
		recorder:   recorder,
		mailer:     mailer,
		uow:        uow,
	}
}

// Create registers a user and mails the confirmation token
func (s *UserService) Create(ctx context.Context, actor authz.Actor, req CreateUserRequest) (*UserResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if req.ContactID != nil {
		if err := user.LinkContact(*req.ContactID); err != nil {
			return nil, err
		}
	}
	token, err := user.StartConfirmation()
	if err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "User", user.ID, actorID(actor), userSnapshot(user), nil)
	})
	if err != nil {
		return nil, err
	}
	s.mailer.EnqueueConfirmation(ctx, user.Email, token)

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*UserResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindUser, ID: userID}); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, actor authz.Actor, filter ListFilter) ([]UserResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.FindAll(ctx, toDomainFilter(filter, "email"))
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Confirm completes the email confirmation flow. The token comes from the
// mailed link, so there is no actor to authorize.
func (s *UserService) Confirm(ctx context.Context, token string) (*UserResponse, error) {
	user, err := s.userRepo.FindByConfirmationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	before := userSnapshot(user)
	if err := user.Confirm(token); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "User", user.ID, nil, before, userSnapshot(user), nil)
	})
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Invite creates a not-yet-confirmed user and mails the invitation token
func (s *UserService) Invite(ctx context.Context, actor authz.Actor, req InviteUserRequest) (*UserResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindUser}); err != nil {
		return nil, err
	}

	user, err := identity.NewInvitedUser(req.Email)
	if err != nil {
		return nil, err
	}
	if req.ContactID != nil {
		if err := user.LinkContact(*req.ContactID); err != nil {
			return nil, err
		}
	}
	token, err := user.StartInvitation(actor.UserID)
	if err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "User", user.ID, actorID(actor), userSnapshot(user), nil)
	})
	if err != nil {
		return nil, err
	}
	s.mailer.EnqueueInvitation(ctx, user.Email, token)

	response := ToUserResponse(user)
	return &response, nil
}

// AcceptInvitation redeems an invitation token and sets the password
func (s *UserService) AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByInvitationToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	before := userSnapshot(user)
	if err := user.AcceptInvitation(req.Token, req.Password); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "User", user.ID, nil, before, userSnapshot(user), nil)
	})
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// RequestPasswordReset starts the reset flow for the given email. An
// unknown address is reported as not found to the caller of this service;
// the HTTP layer masks it to avoid account enumeration.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := user.StartPasswordReset()
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.mailer.EnqueuePasswordReset(ctx, user.Email, token)
	return nil
}

// ResetPassword redeems a reset token and replaces the password
func (s *UserService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByResetToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if err := user.ResetPassword(req.Token, req.Password); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// RecordSignIn updates the sign-in bookkeeping after a successful login
func (s *UserService) RecordSignIn(ctx context.Context, userID uuid.UUID, at time.Time) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RecordSignIn(at)
	return s.userRepo.Save(ctx, user)
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, actor authz.Actor, userID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindUser, ID: userID}); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "User", user.ID, actorID(actor), userSnapshot(user), nil)
	})
}

func userSnapshot(u *identity.User) audit.Snapshot {
	return audit.Snapshot{
		"email":        u.Email,
		"contact_id":   uuidOrNil(u.ContactID),
		"confirmed_at": timeOrNil(u.ConfirmedAt),
		"invited_by":   uuidOrNil(u.InvitedByID),
	}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func toDomainFilter(filter ListFilter, defaultOrder string) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = defaultOrder
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
}
