package contact

import (
	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Pairing is the (source type, target type) combination of a relationship
type Pairing string

const (
	PairingPersonPerson Pairing = "person_person"
	PairingPersonOrg    Pairing = "person_organization"
	PairingOrgOrg       Pairing = "organization_organization"
)

// PairingFor derives the pairing from the two contact types. Organization
// to person relationships are stored with the person as source, so that
// combination does not occur.
func PairingFor(source, target ContactType) Pairing {
	switch {
	case source == TypePerson && target == TypePerson:
		return PairingPersonPerson
	case source == TypePerson && target == TypeOrganization:
		return PairingPersonOrg
	default:
		return PairingOrgOrg
	}
}

// relationshipRoles maps each pairing to its disjoint role vocabulary
var relationshipRoles = map[Pairing]map[string]struct{}{
	PairingPersonPerson: {
		"spouse":         {},
		"parent":         {},
		"sibling":        {},
		"grandparent":    {},
		"aunt_uncle":     {},
		"divorcee":       {},
		"acquaintance":   {},
		"assistant":      {},
		"estate_agent":   {},
		"lawyer":         {},
		"notary":         {},
		"tax_advisor":    {},
		"wealth_manager": {},
	},
	PairingPersonOrg: {
		"shareholder":       {},
		"beneficial_owner":  {},
		"managing_director": {},
		"supervisor":        {},
		"employee":          {},
		"mandate_owner":     {},
		"contact_person":    {},
	},
	PairingOrgOrg: {
		"shareholder":         {},
		"beneficial_owner":    {},
		"subsidiary":          {},
		"joint_venture":       {},
		"service_provider":    {},
		"cooperation_partner": {},
	},
}

// RoleValidFor reports whether the role belongs to the pairing's vocabulary
func RoleValidFor(pairing Pairing, role string) bool {
	set, ok := relationshipRoles[pairing]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Relationship is a typed edge between two contacts. The role vocabulary
// depends on the pairing of the contact types; the three vocabularies are
// disjoint and validated against the pairing.
type Relationship struct {
	shared.BaseEntity
	SourceContactID uuid.UUID
	TargetContactID uuid.UUID
	Role            string
	Comment         string
}

// NewRelationship creates a typed relationship between two contacts
func NewRelationship(source, target *Contact, role string) (*Relationship, error) {
	errs := shared.NewValidationErrors()
	if source == nil {
		errs.AddRequired("source_contact")
	}
	if target == nil {
		errs.AddRequired("target_contact")
	}
	if errs.HasErrors() {
		return nil, errs
	}
	if source.ID == target.ID {
		errs.Add("target_contact", "INVALID", "a contact cannot relate to itself")
	}
	pairing := PairingFor(source.ContactType, target.ContactType)
	if !RoleValidFor(pairing, role) {
		errs.Add("role", "INVALID_FOR_PAIRING", "role "+role+" is not valid for "+string(pairing))
	}
	if errs.HasErrors() {
		return nil, errs
	}
	return &Relationship{
		BaseEntity:      shared.NewBaseEntity(),
		SourceContactID: source.ID,
		TargetContactID: target.ID,
		Role:            role,
	}, nil
}
