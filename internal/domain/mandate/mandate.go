package mandate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// State of a mandate engagement
type State string

const (
	StateProspect  State = "prospect"
	StateClient    State = "client"
	StateCancelled State = "cancelled"
)

// ParseState reads a stored state, accepting the legacy
// prospect_not_qualified label as prospect.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateProspect, StateClient, StateCancelled:
		return State(s), nil
	}
	if s == "prospect_not_qualified" || s == "prospect_qualified" {
		return StateProspect, nil
	}
	return "", shared.NewDomainError("INVALID_STATE", "Unknown mandate state: "+s)
}

// IsValid checks if the state is a known State
func (s State) IsValid() bool {
	switch s {
	case StateProspect, StateClient, StateCancelled:
		return true
	}
	return false
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateProspect:
		return target == StateClient || target == StateCancelled
	case StateClient:
		return target == StateCancelled || target == StateProspect
	case StateCancelled:
		return target == StateClient || target == StateProspect
	}
	return false
}

// MemberType of a mandate member
type MemberType string

const (
	MemberOwner       MemberType = "owner"
	MemberBeneficiary MemberType = "beneficiary"
)

// IsValid checks if the member type is known
func (t MemberType) IsValid() bool {
	switch t {
	case MemberOwner, MemberBeneficiary:
		return true
	}
	return false
}

// Member links a contact to a mandate in a typed role
type Member struct {
	shared.BaseEntity
	MandateID  uuid.UUID
	ContactID  uuid.UUID
	MemberType MemberType
}

// Mandate is the aggregate root for a client engagement. It links the
// consultant team, the owning contacts and the scoping mandate groups.
// Every mandate must belong to at least one organization-type mandate
// group.
type Mandate struct {
	shared.BaseAggregateRoot
	Category string
	Comment  string
	State    State
	Validity shared.DateRange

	PrimaryConsultantID   *uuid.UUID
	SecondaryConsultantID *uuid.UUID
	AssistantID           *uuid.UUID
	BookkeeperID          *uuid.UUID

	MandateGroupIDs []uuid.UUID
	Members         []Member
}

// NewMandate creates a new mandate in the prospect state
func NewMandate(category string) (*Mandate, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Mandate category cannot be empty")
	}
	return &Mandate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		State:             StateProspect,
		MandateGroupIDs:   make([]uuid.UUID, 0),
		Members:           make([]Member, 0),
	}, nil
}

// BecomeClient transitions the mandate to the client state. Guard: both
// the primary and the secondary consultant must be assigned; otherwise the
// mandate stays in its prior state and the guard failure is reported.
func (m *Mandate) BecomeClient() error {
	if !m.State.CanTransitionTo(StateClient) {
		return shared.ErrInvalidTransition
	}
	errs := shared.NewValidationErrors()
	if m.PrimaryConsultantID == nil {
		errs.Add("primary_consultant", "REQUIRED_FOR_CLIENT", "primary consultant must be set before becoming a client")
	}
	if m.SecondaryConsultantID == nil {
		errs.Add("secondary_consultant", "REQUIRED_FOR_CLIENT", "secondary consultant must be set before becoming a client")
	}
	if errs.HasErrors() {
		return errs
	}
	m.State = StateClient
	m.UpdatedAt = time.Now()
	return nil
}

// Cancel transitions the mandate to the cancelled state
func (m *Mandate) Cancel() error {
	if !m.State.CanTransitionTo(StateCancelled) {
		return shared.ErrInvalidTransition
	}
	m.State = StateCancelled
	m.UpdatedAt = time.Now()
	return nil
}

// BecomeProspect moves a client or cancelled mandate back to prospect
func (m *Mandate) BecomeProspect() error {
	if !m.State.CanTransitionTo(StateProspect) {
		return shared.ErrInvalidTransition
	}
	m.State = StateProspect
	m.UpdatedAt = time.Now()
	return nil
}

// AssignConsultants sets the consultant team. Primary and secondary are
// distinct contacts when both present.
func (m *Mandate) AssignConsultants(primary, secondary, assistant, bookkeeper *uuid.UUID) error {
	if primary != nil && secondary != nil && *primary == *secondary {
		return shared.NewDomainError("INVALID_CONSULTANTS", "Primary and secondary consultant must differ")
	}
	m.PrimaryConsultantID = primary
	m.SecondaryConsultantID = secondary
	m.AssistantID = assistant
	m.BookkeeperID = bookkeeper
	m.UpdatedAt = time.Now()
	return nil
}

// AddMember links a contact as a typed member. A contact can hold each
// member type at most once per mandate.
func (m *Mandate) AddMember(contactID uuid.UUID, memberType MemberType) (*Member, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	if !memberType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MEMBER_TYPE", "Unknown member type: "+string(memberType))
	}
	for _, member := range m.Members {
		if member.ContactID == contactID && member.MemberType == memberType {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Contact is already a member with this type")
		}
	}
	member := Member{
		BaseEntity: shared.NewBaseEntity(),
		MandateID:  m.ID,
		ContactID:  contactID,
		MemberType: memberType,
	}
	m.Members = append(m.Members, member)
	m.UpdatedAt = time.Now()
	return &member, nil
}

// RemoveMember removes a membership row
func (m *Mandate) RemoveMember(memberID uuid.UUID) error {
	for i, member := range m.Members {
		if member.ID == memberID {
			m.Members = append(m.Members[:i], m.Members[i+1:]...)
			m.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Owners returns the members with the owner type
func (m *Mandate) Owners() []Member {
	owners := make([]Member, 0, len(m.Members))
	for _, member := range m.Members {
		if member.MemberType == MemberOwner {
			owners = append(owners, member)
		}
	}
	return owners
}

// SetMandateGroups replaces the group assignment
func (m *Mandate) SetMandateGroups(ids []uuid.UUID) {
	m.MandateGroupIDs = append([]uuid.UUID(nil), ids...)
	m.UpdatedAt = time.Now()
}

// ValidateGroups enforces that the mandate belongs to at least one
// organization-type mandate group. The caller passes the loaded group
// types keyed by ID.
func (m *Mandate) ValidateGroups(groupTypes map[uuid.UUID]identity.MandateGroupType) *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	for _, id := range m.MandateGroupIDs {
		if groupTypes[id] == identity.MandateGroupOrganization {
			return errs
		}
	}
	errs.Add("mandate_groups", "ORGANIZATION_REQUIRED", "mandate must belong to at least one organization mandate group")
	return errs
}

// Validate collects the aggregate-level validation errors
func (m *Mandate) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if m.Category == "" {
		errs.AddRequired("category")
	}
	if !m.State.IsValid() {
		errs.Add("state", "INVALID", "unknown mandate state")
	}
	m.Validity.Validate(errs)
	return errs
}
