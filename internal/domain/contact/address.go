package contact

import (
	"strings"
	"time"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Address is a postal address owned by a contact, mandate or fund. The
// legal / primary-contact designation is not stored here: the owner keeps
// a single back-reference per designation which the application layer
// swaps when an address is saved with the corresponding flag.
type Address struct {
	shared.BaseEntity
	Owner        shared.OwnerRef
	Category     string
	Addition     string
	StreetAndNum string
	PostalCode   string
	City         string
	State        string
	Country      string
}

// NewAddress creates a new address for the given owner
func NewAddress(owner shared.OwnerRef, streetAndNum, postalCode, city, country string) (*Address, error) {
	a := &Address{
		BaseEntity:   shared.NewBaseEntity(),
		Owner:        owner,
		StreetAndNum: strings.TrimSpace(streetAndNum),
		PostalCode:   strings.TrimSpace(postalCode),
		City:         strings.TrimSpace(city),
		Country:      strings.TrimSpace(country),
	}
	if err := a.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate collects per-field validation errors
func (a *Address) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if a.Owner.IsZero() {
		errs.AddRequired("owner")
	}
	if a.StreetAndNum == "" {
		errs.AddRequired("street_and_number")
	}
	if a.City == "" {
		errs.AddRequired("city")
	}
	if a.Country == "" {
		errs.AddRequired("country")
	}
	return errs
}

// Update replaces the address fields
func (a *Address) Update(streetAndNum, postalCode, city, state, country, addition string) error {
	next := *a
	next.StreetAndNum = strings.TrimSpace(streetAndNum)
	next.PostalCode = strings.TrimSpace(postalCode)
	next.City = strings.TrimSpace(city)
	next.State = strings.TrimSpace(state)
	next.Country = strings.TrimSpace(country)
	next.Addition = strings.TrimSpace(addition)
	if err := next.Validate().ErrOrNil(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now()
	*a = next
	return nil
}
