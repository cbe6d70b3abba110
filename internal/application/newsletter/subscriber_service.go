package newsletter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/newsletter"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ConfirmationMailer enqueues the double-opt-in mail. Fire-and-forget:
// delivery failures are logged by the implementation, not surfaced here.
type ConfirmationMailer interface {
	EnqueueSubscriptionConfirmation(ctx context.Context, email, token string) error
}

// SubscriberSync pushes confirmed subscribers to the external newsletter
// tool and removes unsubscribed ones.
type SubscriberSync interface {
	SyncConfirmed(ctx context.Context, email, firstName, lastName string) error
	Remove(ctx context.Context, email string) error
}

// SubscriberService handles the public double-opt-in flow and the
// administrative subscriber index.
type SubscriberService struct {
	subscriberRepo newsletter.Repository
	mailer         ConfirmationMailer
	sync           SubscriberSync
	authorizer     *authorization.Authorizer
	recorder       *appaudit.Recorder
	uow            shared.UnitOfWork
}

// NewSubscriberService creates a new SubscriberService
func NewSubscriberService(subscriberRepo newsletter.Repository, mailer ConfirmationMailer, sync SubscriberSync, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *SubscriberService {
	return &SubscriberService{
		subscriberRepo: subscriberRepo,
		mailer:         mailer,
		sync:           sync,
		authorizer:     authorizer,
		recorder:       recorder,
		uow:            uow,
	}
}

// Subscribe registers an address and mails the confirmation token. The
// endpoint is public: no actor. Re-subscribing an already known address
// re-sends the confirmation instead of failing, so the endpoint does not
// reveal whether an address is registered.
func (s *SubscriberService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriberResponse, error) {
	isNew := false
	sub, err := s.subscriberRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		if sub.State == newsletter.StateConfirmed {
			response := ToSubscriberResponse(sub)
			return &response, nil
		}
		// restart the opt-in with a fresh token
		sub.State = newsletter.StateCreated
		sub.ConfirmationToken = nil
	case errors.Is(err, shared.ErrNotFound):
		sub, err = newsletter.NewSubscriber(req.Email, req.FirstName, req.LastName)
		if err != nil {
			return nil, err
		}
		isNew = true
	default:
		return nil, err
	}

	token, err := sub.SendConfirmation()
	if err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.subscriberRepo.Save(ctx, sub); err != nil {
			return err
		}
		if isNew {
			return s.recorder.Created(ctx, "NewsletterSubscriber", sub.ID, nil, subscriberSnapshot(sub), nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.mailer.EnqueueSubscriptionConfirmation(ctx, sub.Email, token); err != nil {
		return nil, err
	}

	response := ToSubscriberResponse(sub)
	return &response, nil
}

// Confirm completes the opt-in with the mailed token and pushes the
// subscriber to the external tool. Unknown tokens read as not-found.
func (s *SubscriberService) Confirm(ctx context.Context, token string) (*SubscriberResponse, error) {
	sub, err := s.subscriberRepo.FindByConfirmationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	before := subscriberSnapshot(sub)

	if err := sub.Confirm(token, time.Now()); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.subscriberRepo.Save(ctx, sub); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "NewsletterSubscriber", sub.ID, nil, before, subscriberSnapshot(sub), nil)
	})
	if err != nil {
		return nil, err
	}
	if err := s.sync.SyncConfirmed(ctx, sub.Email, sub.FirstName, sub.LastName); err != nil {
		return nil, err
	}

	response := ToSubscriberResponse(sub)
	return &response, nil
}

// List retrieves subscribers for administration
func (s *SubscriberService) List(ctx context.Context, actor authz.Actor, filter shared.Filter) ([]SubscriberResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindSubscriber}); err != nil {
		return nil, 0, err
	}
	subscribers, total, err := s.subscriberRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToSubscriberResponses(subscribers), total, nil
}

// Delete unsubscribes an address and removes it from the external tool
func (s *SubscriberService) Delete(ctx context.Context, actor authz.Actor, subscriberID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindSubscriber, ID: subscriberID}); err != nil {
		return err
	}
	sub, err := s.subscriberRepo.FindByID(ctx, subscriberID)
	if err != nil {
		return err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.subscriberRepo.Delete(ctx, subscriberID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "NewsletterSubscriber", sub.ID, actorID(actor), subscriberSnapshot(sub), nil)
	})
	if err != nil {
		return err
	}
	return s.sync.Remove(ctx, sub.Email)
}

func subscriberSnapshot(sub *newsletter.Subscriber) audit.Snapshot {
	return audit.Snapshot{
		"email":      sub.Email,
		"first_name": sub.FirstName,
		"last_name":  sub.LastName,
		"state":      sub.State.String(),
	}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}
