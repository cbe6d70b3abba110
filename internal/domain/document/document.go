package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ReadOnlyAfter is the grace period during which a document may still be
// corrected. Past it the record is immutable: updates and deletes are
// rejected, not merely discouraged.
const ReadOnlyAfter = 24 * time.Hour

// Category of a document
type Category string

const (
	CategoryContract              Category = "contract"
	CategoryContractHQ            Category = "contract_hq"
	CategoryTaxDeclaration        Category = "tax_declaration"
	CategoryKYC                   Category = "kyc"
	CategoryInsurance             Category = "insurance"
	CategoryPerformanceReport     Category = "performance_report"
	CategoryBankDocuments         Category = "bank_documents"
	CategoryFundSubscription      Category = "fund_subscription_agreement"
	CategoryClientCommunication   Category = "client_communication"
	CategoryRegistrationDocuments Category = "registration_documents"
)

// IsValid checks if the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategoryContract, CategoryContractHQ, CategoryTaxDeclaration, CategoryKYC,
		CategoryInsurance, CategoryPerformanceReport, CategoryBankDocuments,
		CategoryFundSubscription, CategoryClientCommunication, CategoryRegistrationDocuments:
		return true
	}
	return false
}

// Document is a stored file attached to a contact, mandate, fund or
// activity. The file body lives in object storage under FileKey.
type Document struct {
	shared.BaseEntity
	Owner        shared.OwnerRef
	Name         string
	Category     Category
	FileKey      string
	ContentType  string
	UploadedByID uuid.UUID
	Validity     shared.DateRange
}

// NewDocument creates a new document record
func NewDocument(owner shared.OwnerRef, name string, category Category, fileKey string, uploadedBy uuid.UUID) (*Document, error) {
	d := &Document{
		BaseEntity:   shared.NewBaseEntity(),
		Owner:        owner,
		Name:         strings.TrimSpace(name),
		Category:     category,
		FileKey:      fileKey,
		UploadedByID: uploadedBy,
	}
	if err := d.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate collects per-field validation errors
func (d *Document) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if d.Owner.IsZero() {
		errs.AddRequired("owner")
	}
	if d.Name == "" {
		errs.AddRequired("name")
	}
	if !d.Category.IsValid() {
		errs.Add("category", "INVALID", "unknown document category")
	}
	if d.FileKey == "" {
		errs.AddRequired("file")
	}
	d.Validity.Validate(errs)
	return errs
}

// EnsureMutable rejects mutation of documents past the grace period
func (d *Document) EnsureMutable(now time.Time) error {
	if now.Sub(d.CreatedAt) > ReadOnlyAfter {
		return shared.ErrReadOnlyRecord
	}
	return nil
}

// Rename changes the document name within the grace period
func (d *Document) Rename(name string, now time.Time) error {
	if err := d.EnsureMutable(now); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	d.Name = name
	d.UpdatedAt = now
	return nil
}

// Repository provides access to documents
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByOwner(ctx context.Context, owner shared.OwnerRef, filter shared.Filter) ([]*Document, int64, error)
	Save(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}
