package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/document"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// AllowedContentTypes defines the whitelist of allowed content types for
// uploads. SVG is excluded: it can carry scripts.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
	"message/rfc822":  true,
	"application/zip": true,
}

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3 or the in-memory stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// ServiceConfig holds URL expiry configuration for the document service
type ServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultServiceConfig returns the default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// Service handles document records and their stored files. Documents turn
// read-only past the grace period; updates and deletes are rejected then.
type Service struct {
	documentRepo document.Repository
	mandateRepo  mandate.Repository
	activityRepo mandate.ActivityRepository
	storage      ObjectStorageService
	authorizer   *authorization.Authorizer
	recorder     *appaudit.Recorder
	uow          shared.UnitOfWork
	config       ServiceConfig
	now          func() time.Time
}

// NewService creates a new document Service
func NewService(documentRepo document.Repository, mandateRepo mandate.Repository, activityRepo mandate.ActivityRepository, storage ObjectStorageService, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *Service {
	return &Service{
		documentRepo: documentRepo,
		mandateRepo:  mandateRepo,
		activityRepo: activityRepo,
		storage:      storage,
		authorizer:   authorizer,
		recorder:     recorder,
		uow:          uow,
		config:       DefaultServiceConfig(),
		now:          time.Now,
	}
}

// SetConfig sets the service configuration
func (s *Service) SetConfig(config ServiceConfig) {
	s.config = config
}

// InitiateUpload creates the document record and returns a presigned
// upload URL for the file body.
func (s *Service) InitiateUpload(ctx context.Context, actor authz.Actor, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
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
	if !AllowedContentTypes[req.ContentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", fmt.Sprintf("Content type %q is not allowed", req.ContentType))
	}

	fileKey := buildFileKey(owner, req.Name)
	doc, err := document.NewDocument(owner, req.Name, document.Category(req.Category), fileKey, actor.UserID)
	if err != nil {
		return nil, err
	}
	doc.ContentType = req.ContentType
	doc.Validity = shared.DateRange{ValidFrom: req.ValidFrom, ValidTo: req.ValidTo}
	if err := doc.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, fileKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.documentRepo.Save(ctx, doc); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Document", doc.ID, actorID(actor), documentSnapshot(doc), ownerParent(owner))
	})
	if err != nil {
		return nil, err
	}

	return &InitiateUploadResponse{
		Document:  ToDocumentResponse(doc, s.now()),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// GetByID retrieves a document record
func (s *Service) GetByID(ctx context.Context, actor authz.Actor, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	res, err := s.ownerResource(ctx, doc.Owner, doc.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, res); err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc, s.now())
	return &response, nil
}

// ListByOwner returns the document records attached to an entity
func (s *Service) ListByOwner(ctx context.Context, actor authz.Actor, owner shared.OwnerRef, filter shared.Filter) ([]DocumentResponse, int64, error) {
	res, err := s.ownerResource(ctx, owner, uuid.Nil)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, res); err != nil {
		return nil, 0, err
	}
	documents, total, err := s.documentRepo.FindByOwner(ctx, owner, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToDocumentResponses(documents, s.now()), total, nil
}

// Download returns a presigned download URL for the file body
func (s *Service) Download(ctx context.Context, actor authz.Actor, documentID uuid.UUID) (*DownloadResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	res, err := s.ownerResource(ctx, doc.Owner, doc.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, res); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.FileKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &DownloadResponse{DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// Update modifies a document record within the grace period
func (s *Service) Update(ctx context.Context, actor authz.Actor, documentID uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	res, err := s.ownerResource(ctx, doc.Owner, doc.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, res); err != nil {
		return nil, err
	}
	now := s.now()
	if err := doc.EnsureMutable(now); err != nil {
		return nil, err
	}
	before := documentSnapshot(doc)

	if req.Name != nil {
		if err := doc.Rename(*req.Name, now); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		doc.Category = document.Category(*req.Category)
	}
	if req.ValidFrom != nil || req.ValidTo != nil {
		validity := doc.Validity
		if req.ValidFrom != nil {
			validity.ValidFrom = req.ValidFrom
		}
		if req.ValidTo != nil {
			validity.ValidTo = req.ValidTo
		}
		doc.Validity = validity
	}
	if err := doc.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.documentRepo.Save(ctx, doc); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Document", doc.ID, actorID(actor), before, documentSnapshot(doc), ownerParent(doc.Owner))
	})
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc, now)
	return &response, nil
}

// Delete removes a document record and its stored file. Documents past
// the grace period cannot be deleted.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, documentID uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return err
	}
	res, err := s.ownerResource(ctx, doc.Owner, doc.ID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, res); err != nil {
		return err
	}
	if err := doc.EnsureMutable(s.now()); err != nil {
		return err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.documentRepo.Delete(ctx, documentID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Document", doc.ID, actorID(actor), documentSnapshot(doc), ownerParent(doc.Owner))
	})
	if err != nil {
		return err
	}
	return s.storage.DeleteObject(ctx, doc.FileKey)
}

// ownerResource builds the permission descriptor for a document through
// its owning entity.
func (s *Service) ownerResource(ctx context.Context, owner shared.OwnerRef, documentID uuid.UUID) (authz.Resource, error) {
	res := authz.Resource{Kind: authz.KindDocument, ID: documentID, Owner: &owner}
	switch owner.Kind {
	case shared.OwnerMandate:
		m, err := s.mandateRepo.FindByID(ctx, owner.ID)
		if err != nil {
			return authz.Resource{}, err
		}
		res.MandateGroupIDs = m.MandateGroupIDs
	case shared.OwnerActivity:
		a, err := s.activityRepo.FindByID(ctx, owner.ID)
		if err != nil {
			return authz.Resource{}, err
		}
		res.ActivityContactOwned = a.ContactAttachedOnly()
		for _, mandateID := range a.MandateIDs {
			m, err := s.mandateRepo.FindByID(ctx, mandateID)
			if err != nil {
				return authz.Resource{}, err
			}
			res.ActivityMandateGroupIDs = append(res.ActivityMandateGroupIDs, m.MandateGroupIDs...)
		}
	}
	return res, nil
}

// buildFileKey derives the storage key from the owner and a fresh UUID,
// keeping the original extension for content-type sniffing.
func buildFileKey(owner shared.OwnerRef, name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return fmt.Sprintf("documents/%s/%s/%s%s", strings.ToLower(string(owner.Kind)), owner.ID, uuid.New(), ext)
}

func documentSnapshot(d *document.Document) audit.Snapshot {
	return audit.Snapshot{
		"owner_type":   d.Owner.Kind.String(),
		"owner_id":     d.Owner.ID.String(),
		"name":         d.Name,
		"category":     string(d.Category),
		"file_key":     d.FileKey,
		"content_type": d.ContentType,
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
