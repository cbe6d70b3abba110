package authorization

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Authorizer runs permission checks for the application services. Denials
// surface as the generic forbidden error so callers never learn which rule
// failed.
type Authorizer struct {
	evaluator *authz.Evaluator
	groupRepo identity.UserGroupRepository
}

// NewAuthorizer creates an Authorizer
func NewAuthorizer(evaluator *authz.Evaluator, groupRepo identity.UserGroupRepository) *Authorizer {
	return &Authorizer{
		evaluator: evaluator,
		groupRepo: groupRepo,
	}
}

// ActorFor resolves the user's role grants into an Actor for the request.
// Called once per request by the auth middleware; services receive the
// resolved actor and never re-query groups.
func (a *Authorizer) ActorFor(ctx context.Context, userID uuid.UUID, channel authz.Channel) (authz.Actor, error) {
	groups, err := a.groupRepo.FindByUser(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{
		UserID:  userID,
		Roles:   identity.Resolve(groups),
		Channel: channel,
	}, nil
}

// Ensure returns ErrForbidden unless the actor may perform the action
func (a *Authorizer) Ensure(actor authz.Actor, action authz.Action, res authz.Resource) error {
	if !a.evaluator.Allowed(actor, action, res) {
		return shared.ErrForbidden
	}
	return nil
}

// VisibleMandateGroups returns the mandate-group IDs through which the
// actor holds the given mandates role. List queries filter on this set; a
// nil result means unrestricted (admin).
func (a *Authorizer) VisibleMandateGroups(actor authz.Actor, action authz.Action) []uuid.UUID {
	if actor.Roles.IsAdmin() {
		return nil
	}
	return actor.Roles.MandateGroupIDsWith(identity.Role("mandates_" + action.String()))
}
