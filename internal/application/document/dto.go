package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/document"
)

// InitiateUploadRequest starts a document upload
type InitiateUploadRequest struct {
	OwnerType   string     `json:"owner_type" binding:"required,oneof=Contact Mandate Fund Activity"`
	OwnerID     uuid.UUID  `json:"owner_id" binding:"required"`
	Name        string     `json:"name" binding:"required,max=255"`
	Category    string     `json:"category" binding:"required"`
	ContentType string     `json:"content_type" binding:"required"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidTo     *time.Time `json:"valid_to"`
}

// InitiateUploadResponse carries the presigned upload URL for the new
// document record
type InitiateUploadResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// UpdateDocumentRequest represents a request to update a document. Only
// documents within the grace period accept updates.
type UpdateDocumentRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Category  *string    `json:"category"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID  `json:"id"`
	OwnerType    string     `json:"owner_type"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	ContentType  string     `json:"content_type"`
	UploadedByID uuid.UUID  `json:"uploaded_by_id"`
	ValidFrom    *time.Time `json:"valid_from"`
	ValidTo      *time.Time `json:"valid_to"`
	ReadOnly     bool       `json:"read_only"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DownloadResponse carries a presigned download URL
type DownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToDocumentResponse converts a domain document to its response form
func ToDocumentResponse(d *document.Document, now time.Time) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		OwnerType:    d.Owner.Kind.String(),
		OwnerID:      d.Owner.ID,
		Name:         d.Name,
		Category:     string(d.Category),
		ContentType:  d.ContentType,
		UploadedByID: d.UploadedByID,
		ValidFrom:    d.Validity.ValidFrom,
		ValidTo:      d.Validity.ValidTo,
		ReadOnly:     d.EnsureMutable(now) != nil,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDocumentResponses converts a slice of domain documents
func ToDocumentResponses(documents []*document.Document, now time.Time) []DocumentResponse {
	responses := make([]DocumentResponse, len(documents))
	for i, d := range documents {
		responses[i] = ToDocumentResponse(d, now)
	}
	return responses
}
