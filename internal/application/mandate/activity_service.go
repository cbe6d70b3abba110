package mandate

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ActivityService handles activity logging
type ActivityService struct {
	activityRepo mandate.ActivityRepository
	mandateRepo  mandate.Repository
	authorizer   *authorization.Authorizer
	recorder     *appaudit.Recorder
	uow          shared.UnitOfWork
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo mandate.ActivityRepository, mandateRepo mandate.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		mandateRepo:  mandateRepo,
		authorizer:   authorizer,
		recorder:     recorder,
		uow:          uow,
	}
}

// Create logs an activity attached to mandates and contacts
func (s *ActivityService) Create(ctx context.Context, actor authz.Actor, req CreateActivityRequest) (*ActivityResponse, error) {
	a, err := mandate.NewActivity(mandate.ActivityType(req.ActivityType), req.Title, req.StartedAt, actor.UserID)
	if err != nil {
		return nil, err
	}
	a.Description = req.Description
	a.EndedAt = req.EndedAt
	for _, id := range req.MandateIDs {
		a.AttachMandate(id)
	}
	for _, id := range req.ContactIDs {
		a.AttachContact(id)
	}
	if err := a.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	res, err := s.resourceFor(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, res); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.Save(ctx, a); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Activity", a.ID, actorID(actor), activitySnapshot(a), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToActivityResponse(a)
	return &response, nil
}

// GetByID retrieves an activity
func (s *ActivityService) GetByID(ctx context.Context, actor authz.Actor, activityID uuid.UUID) (*ActivityResponse, error) {
	a, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	res, err := s.resourceFor(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, res); err != nil {
		return nil, err
	}
	response := ToActivityResponse(a)
	return &response, nil
}

// ListByMandate returns a mandate's activities
func (s *ActivityService) ListByMandate(ctx context.Context, actor authz.Actor, mandateID uuid.UUID, filter shared.Filter) ([]ActivityResponse, int64, error) {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return nil, 0, err
	}
	activities, total, err := s.activityRepo.FindByMandate(ctx, mandateID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToActivityResponses(activities), total, nil
}

// ListByContact returns a contact's activities
func (s *ActivityService) ListByContact(ctx context.Context, actor authz.Actor, contactID uuid.UUID, filter shared.Filter) ([]ActivityResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindContact, ID: contactID}); err != nil {
		return nil, 0, err
	}
	activities, total, err := s.activityRepo.FindByContact(ctx, contactID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToActivityResponses(activities), total, nil
}

// Update modifies an activity
func (s *ActivityService) Update(ctx context.Context, actor authz.Actor, activityID uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error) {
	a, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	res, err := s.resourceFor(ctx, a)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, res); err != nil {
		return nil, err
	}
	before := activitySnapshot(a)

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.StartedAt != nil {
		a.StartedAt = *req.StartedAt
	}
	if req.EndedAt != nil {
		a.EndedAt = req.EndedAt
	}
	if err := a.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.Save(ctx, a); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Activity", a.ID, actorID(actor), before, activitySnapshot(a), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToActivityResponse(a)
	return &response, nil
}

// Delete removes an activity
func (s *ActivityService) Delete(ctx context.Context, actor authz.Actor, activityID uuid.UUID) error {
	a, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return err
	}
	res, err := s.resourceFor(ctx, a)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, res); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.Delete(ctx, activityID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Activity", a.ID, actorID(actor), activitySnapshot(a), nil)
	})
}

// resourceFor builds the permission descriptor for an activity: contact-
// attached activities fall under the contacts scope, mandate-attached ones
// carry the union of the attached mandates' groups.
func (s *ActivityService) resourceFor(ctx context.Context, a *mandate.Activity) (authz.Resource, error) {
	owner := shared.OwnerRef{Kind: shared.OwnerActivity, ID: a.ID}
	res := authz.Resource{
		Kind:                 authz.KindActivity,
		ID:                   a.ID,
		Owner:                &owner,
		ActivityContactOwned: a.ContactAttachedOnly(),
	}
	for _, mandateID := range a.MandateIDs {
		m, err := s.mandateRepo.FindByID(ctx, mandateID)
		if err != nil {
			return authz.Resource{}, err
		}
		res.ActivityMandateGroupIDs = append(res.ActivityMandateGroupIDs, m.MandateGroupIDs...)
	}
	return res, nil
}

func activitySnapshot(a *mandate.Activity) audit.Snapshot {
	return audit.Snapshot{
		"activity_type": string(a.ActivityType),
		"title":         a.Title,
		"description":   a.Description,
		"started_at":    a.StartedAt,
		"ended_at":      timeOrNil(a.EndedAt),
	}
}
