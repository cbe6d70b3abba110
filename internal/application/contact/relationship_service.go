package contact

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// RelationshipService handles typed edges between contacts
type RelationshipService struct {
	relationshipRepo contact.RelationshipRepository
	contactRepo      contact.Repository
	authorizer       *authorization.Authorizer
	recorder         *appaudit.Recorder
	uow              shared.UnitOfWork
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(relationshipRepo contact.RelationshipRepository, contactRepo contact.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *RelationshipService {
	return &RelationshipService{
		relationshipRepo: relationshipRepo,
		contactRepo:      contactRepo,
		authorizer:       authorizer,
		recorder:         recorder,
		uow:              uow,
	}
}

// Create links two contacts. The role vocabulary is validated against the
// pairing of the two contact types.
func (s *RelationshipService) Create(ctx context.Context, actor authz.Actor, req CreateRelationshipRequest) (*RelationshipResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindContactRelation}); err != nil {
		return nil, err
	}

	source, err := s.contactRepo.FindByID(ctx, req.SourceContactID)
	if err != nil {
		return nil, err
	}
	target, err := s.contactRepo.FindByID(ctx, req.TargetContactID)
	if err != nil {
		return nil, err
	}

	rel, err := contact.NewRelationship(source, target, req.Role)
	if err != nil {
		return nil, err
	}
	rel.Comment = req.Comment

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.relationshipRepo.Save(ctx, rel); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "ContactRelationship", rel.ID, actorID(actor), relationshipSnapshot(rel), contactParent(rel.SourceContactID))
	})
	if err != nil {
		return nil, err
	}

	response := ToRelationshipResponse(rel)
	return &response, nil
}

// ListByContact returns the relationships a contact participates in
func (s *RelationshipService) ListByContact(ctx context.Context, actor authz.Actor, contactID uuid.UUID) ([]RelationshipResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindContactRelation}); err != nil {
		return nil, err
	}
	rels, err := s.relationshipRepo.FindByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	responses := make([]RelationshipResponse, len(rels))
	for i, r := range rels {
		responses[i] = ToRelationshipResponse(r)
	}
	return responses, nil
}

// Delete removes a relationship
func (s *RelationshipService) Delete(ctx context.Context, actor authz.Actor, relationshipID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindContactRelation, ID: relationshipID}); err != nil {
		return err
	}
	rel, err := s.relationshipRepo.FindByID(ctx, relationshipID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.relationshipRepo.Delete(ctx, relationshipID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "ContactRelationship", rel.ID, actorID(actor), relationshipSnapshot(rel), contactParent(rel.SourceContactID))
	})
}

func relationshipSnapshot(r *contact.Relationship) audit.Snapshot {
	return audit.Snapshot{
		"source_contact_id": r.SourceContactID.String(),
		"target_contact_id": r.TargetContactID.String(),
		"role":              r.Role,
		"comment":           r.Comment,
	}
}
