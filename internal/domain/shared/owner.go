package shared

import "github.com/google/uuid"

// OwnerKind discriminates the entity types that can own a polymorphic
// record (documents, addresses, bank accounts, task subjects).
type OwnerKind string

const (
	OwnerContact  OwnerKind = "Contact"
	OwnerMandate  OwnerKind = "Mandate"
	OwnerFund     OwnerKind = "Fund"
	OwnerActivity OwnerKind = "Activity"
)

// IsValid checks if the kind is a known OwnerKind
func (k OwnerKind) IsValid() bool {
	switch k {
	case OwnerContact, OwnerMandate, OwnerFund, OwnerActivity:
		return true
	}
	return false
}

// String returns the string representation of OwnerKind
func (k OwnerKind) String() string {
	return string(k)
}

// OwnerRef is a typed reference to the owning entity of a polymorphic
// record. Using a tagged union instead of a raw (type, id) pair lets the
// permission evaluator dispatch exhaustively on the owner kind.
type OwnerRef struct {
	Kind OwnerKind
	ID   uuid.UUID
}

// NewOwnerRef creates a validated owner reference
func NewOwnerRef(kind OwnerKind, id uuid.UUID) (OwnerRef, error) {
	if !kind.IsValid() {
		return OwnerRef{}, NewDomainError("INVALID_OWNER_KIND", "Unknown owner kind: "+string(kind))
	}
	if id == uuid.Nil {
		return OwnerRef{}, NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	return OwnerRef{Kind: kind, ID: id}, nil
}

// Equals checks if two owner references point at the same entity
func (o OwnerRef) Equals(other OwnerRef) bool {
	return o.Kind == other.Kind && o.ID == other.ID
}

// IsZero reports whether the reference is unset
func (o OwnerRef) IsZero() bool {
	return o.ID == uuid.Nil && o.Kind == ""
}
