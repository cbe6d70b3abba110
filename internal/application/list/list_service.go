package list

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/list"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Service handles user-curated lists. Lists are strictly private: only
// the creator sees or modifies them.
type Service struct {
	listRepo   list.Repository
	authorizer *authorization.Authorizer
	recorder   *appaudit.Recorder
	uow        shared.UnitOfWork
}

// NewService creates a new list Service
func NewService(listRepo list.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *Service {
	return &Service{
		listRepo:   listRepo,
		authorizer: authorizer,
		recorder:   recorder,
		uow:        uow,
	}
}

// Create creates a list owned by the actor
func (s *Service) Create(ctx context.Context, actor authz.Actor, req CreateListRequest) (*ListResponse, error) {
	l, err := list.NewList(req.Name, actor.UserID)
	if err != nil {
		return nil, err
	}
	l.Comment = req.Comment

	if err := s.authorizer.Ensure(actor, authz.ActionWrite, listResource(l)); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.listRepo.Save(ctx, l); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "List", l.ID, actorID(actor), listSnapshot(l), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToListResponse(l)
	return &response, nil
}

// GetByID retrieves one of the actor's lists
func (s *Service) GetByID(ctx context.Context, actor authz.Actor, listID uuid.UUID) (*ListResponse, error) {
	l, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, listResource(l)); err != nil {
		return nil, err
	}
	response := ToListResponse(l)
	return &response, nil
}

// List retrieves the actor's lists; archived ones only on request
func (s *Service) List(ctx context.Context, actor authz.Actor, filter ListFilter) ([]ListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}

	lists, total, err := s.listRepo.FindByCreator(ctx, actor.UserID, filter.IncludeArchived, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToListResponses(lists), total, nil
}

// Update modifies a list's name and comment
func (s *Service) Update(ctx context.Context, actor authz.Actor, listID uuid.UUID, req UpdateListRequest) (*ListResponse, error) {
	return s.mutate(ctx, actor, listID, func(l *list.List) error {
		if req.Name != nil {
			l.Name = *req.Name
		}
		if req.Comment != nil {
			l.Comment = *req.Comment
		}
		return l.Validate().ErrOrNil()
	})
}

// Archive hides the list from the default index
func (s *Service) Archive(ctx context.Context, actor authz.Actor, listID uuid.UUID) (*ListResponse, error) {
	return s.mutate(ctx, actor, listID, func(l *list.List) error {
		l.Archive()
		return nil
	})
}

// Unarchive restores an archived list
func (s *Service) Unarchive(ctx context.Context, actor authz.Actor, listID uuid.UUID) (*ListResponse, error) {
	return s.mutate(ctx, actor, listID, func(l *list.List) error {
		l.Unarchive()
		return nil
	})
}

// AddItem adds a contact or mandate to the list
func (s *Service) AddItem(ctx context.Context, actor authz.Actor, listID uuid.UUID, req ItemRequest) (*ListResponse, error) {
	return s.mutate(ctx, actor, listID, func(l *list.List) error {
		return l.AddItem(list.ItemType(req.ItemType), req.ItemID)
	})
}

// RemoveItem removes a membership from the list
func (s *Service) RemoveItem(ctx context.Context, actor authz.Actor, listID uuid.UUID, req ItemRequest) (*ListResponse, error) {
	return s.mutate(ctx, actor, listID, func(l *list.List) error {
		return l.RemoveItem(list.ItemType(req.ItemType), req.ItemID)
	})
}

func (s *Service) mutate(ctx context.Context, actor authz.Actor, listID uuid.UUID, change func(*list.List) error) (*ListResponse, error) {
	l, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, listResource(l)); err != nil {
		return nil, err
	}
	before := listSnapshot(l)

	if err := change(l); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.listRepo.Save(ctx, l); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "List", l.ID, actorID(actor), before, listSnapshot(l), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToListResponse(l)
	return &response, nil
}

// Delete removes a list
func (s *Service) Delete(ctx context.Context, actor authz.Actor, listID uuid.UUID) error {
	l, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, listResource(l)); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.listRepo.Delete(ctx, listID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "List", l.ID, actorID(actor), listSnapshot(l), nil)
	})
}

func listResource(l *list.List) authz.Resource {
	return authz.Resource{
		Kind:      authz.KindList,
		ID:        l.ID,
		CreatorID: l.CreatorID,
	}
}

func listSnapshot(l *list.List) audit.Snapshot {
	return audit.Snapshot{
		"name":       l.Name,
		"comment":    l.Comment,
		"state":      l.State.String(),
		"item_count": len(l.Items),
	}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}
