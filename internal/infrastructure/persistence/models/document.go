package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/document"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// DocumentModel is the persistence model for the Document entity.
// Documents are polymorphic over contacts, mandates, funds and activities;
// the file body lives in object storage under file_key.
type DocumentModel struct {
	BaseModel
	OwnerType    shared.OwnerKind  `gorm:"type:varchar(20);not null;index:idx_document_owner,priority:1"`
	OwnerID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_document_owner,priority:2"`
	Name         string            `gorm:"type:varchar(200);not null"`
	Category     document.Category `gorm:"type:varchar(50);not null;index"`
	FileKey      string            `gorm:"type:varchar(500);not null"`
	ContentType  string            `gorm:"type:varchar(100)"`
	UploadedByID uuid.UUID         `gorm:"type:uuid;not null"`
	ValidFrom    *time.Time
	ValidTo      *time.Time
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		BaseEntity:   m.BaseModel.ToDomain(),
		Owner:        shared.OwnerRef{Kind: m.OwnerType, ID: m.OwnerID},
		Name:         m.Name,
		Category:     m.Category,
		FileKey:      m.FileKey,
		ContentType:  m.ContentType,
		UploadedByID: m.UploadedByID,
		Validity: shared.DateRange{
			ValidFrom: m.ValidFrom,
			ValidTo:   m.ValidTo,
		},
	}
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.OwnerType = d.Owner.Kind
	m.OwnerID = d.Owner.ID
	m.Name = d.Name
	m.Category = d.Category
	m.FileKey = d.FileKey
	m.ContentType = d.ContentType
	m.UploadedByID = d.UploadedByID
	m.ValidFrom = d.Validity.ValidFrom
	m.ValidTo = d.Validity.ValidTo
}

// DocumentModelFromDomain creates a new persistence model from a domain Document entity.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}
