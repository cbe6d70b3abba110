package identity

import (
	"strings"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// MandateGroupType distinguishes family from organization groups.
// Organization groups are the ones a mandate must belong to.
type MandateGroupType string

const (
	MandateGroupFamily       MandateGroupType = "family"
	MandateGroupOrganization MandateGroupType = "organization"
)

// IsValid checks if the type is a known MandateGroupType
func (t MandateGroupType) IsValid() bool {
	switch t {
	case MandateGroupFamily, MandateGroupOrganization:
		return true
	}
	return false
}

// String returns the string representation of MandateGroupType
func (t MandateGroupType) String() string {
	return string(t)
}

// MandateGroup is the scoping bucket for role grants. Roles of the
// mandates_* family are granted per mandate group, not globally.
type MandateGroup struct {
	shared.BaseAggregateRoot
	Name      string
	GroupType MandateGroupType
	Comment   string
}

// NewMandateGroup creates a new mandate group
func NewMandateGroup(name string, groupType MandateGroupType) (*MandateGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Mandate group name cannot be empty")
	}
	if !groupType.IsValid() {
		return nil, shared.NewDomainError("INVALID_GROUP_TYPE", "Mandate group type must be family or organization")
	}
	return &MandateGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		GroupType:         groupType,
	}, nil
}

// Rename changes the group name
func (g *MandateGroup) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Mandate group name cannot be empty")
	}
	g.Name = name
	return nil
}

// SetComment sets the comment
func (g *MandateGroup) SetComment(comment string) {
	g.Comment = comment
}
