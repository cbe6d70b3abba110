package contact

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// DetailCategory is the kind of a contact detail entry
type DetailCategory string

const (
	DetailEmail   DetailCategory = "email"
	DetailPhone   DetailCategory = "phone"
	DetailFax     DetailCategory = "fax"
	DetailWebsite DetailCategory = "website"
)

// IsValid checks if the category is a known DetailCategory
func (c DetailCategory) IsValid() bool {
	switch c {
	case DetailEmail, DetailPhone, DetailFax, DetailWebsite:
		return true
	}
	return false
}

// ContactDetail is a reachable endpoint (email, phone, fax, website) of a
// contact. Primary designation for email and phone follows the same
// back-reference swap as addresses.
type ContactDetail struct {
	shared.BaseEntity
	ContactID uuid.UUID
	Category  DetailCategory
	Value     string
}

// NewContactDetail creates a new contact detail
func NewContactDetail(contactID uuid.UUID, category DetailCategory, value string) (*ContactDetail, error) {
	d := &ContactDetail{
		BaseEntity: shared.NewBaseEntity(),
		ContactID:  contactID,
		Category:   category,
		Value:      strings.TrimSpace(value),
	}
	if err := d.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate collects per-field validation errors
func (d *ContactDetail) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if d.ContactID == uuid.Nil {
		errs.AddRequired("contact_id")
	}
	if !d.Category.IsValid() {
		errs.Add("category", "INVALID", "category must be email, phone, fax or website")
	}
	if d.Value == "" {
		errs.AddRequired("value")
	} else if d.Category == DetailEmail {
		if _, err := mail.ParseAddress(d.Value); err != nil {
			errs.Add("value", "FORMAT", "value is not a valid email address")
		}
	}
	return errs
}
