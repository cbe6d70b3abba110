package list

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// State of a list
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
)

// IsValid checks if the state is a known State
func (s State) IsValid() bool {
	return s == StateActive || s == StateArchived
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// ItemType discriminates what a list may collect
type ItemType string

const (
	ItemContact ItemType = "Contact"
	ItemMandate ItemType = "Mandate"
)

// IsValid checks if the item type is known
func (t ItemType) IsValid() bool {
	return t == ItemContact || t == ItemMandate
}

// Item is a membership entry in a list
type Item struct {
	Type    ItemType
	ItemID  uuid.UUID
	AddedAt time.Time
}

// List is a user-curated collection of contacts and mandates, visible only
// to its creator. Archiving hides it from the default index without losing
// the memberships.
type List struct {
	shared.BaseAggregateRoot
	Name      string
	Comment   string
	State     State
	CreatorID uuid.UUID
	Items     []Item
}

// NewList creates an active list for the given user
func NewList(name string, creatorID uuid.UUID) (*List, error) {
	name = strings.TrimSpace(name)
	errs := shared.NewValidationErrors()
	if name == "" {
		errs.AddRequired("name")
	}
	if creatorID == uuid.Nil {
		errs.AddRequired("creator")
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return &List{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		State:             StateActive,
		CreatorID:         creatorID,
		Items:             make([]Item, 0),
	}, nil
}

// Validate collects per-field validation errors
func (l *List) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if strings.TrimSpace(l.Name) == "" {
		errs.AddRequired("name")
	}
	if l.CreatorID == uuid.Nil {
		errs.AddRequired("creator")
	}
	return errs
}

// Archive hides the list. Archiving an archived list is a no-op.
func (l *List) Archive() {
	if l.State == StateArchived {
		return
	}
	l.State = StateArchived
	l.UpdatedAt = time.Now()
}

// Unarchive restores the list to the default index
func (l *List) Unarchive() {
	if l.State == StateActive {
		return
	}
	l.State = StateActive
	l.UpdatedAt = time.Now()
}

// AddItem adds a contact or mandate to the list. A list holds each entity
// at most once.
func (l *List) AddItem(itemType ItemType, itemID uuid.UUID) error {
	if !itemType.IsValid() {
		return shared.NewDomainError("INVALID_ITEM_TYPE", "List items must be contacts or mandates")
	}
	if itemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if l.Contains(itemType, itemID) {
		return shared.NewDomainError("DUPLICATE_ITEM", "Item is already on the list")
	}
	l.Items = append(l.Items, Item{Type: itemType, ItemID: itemID, AddedAt: time.Now()})
	l.UpdatedAt = time.Now()
	return nil
}

// RemoveItem removes an entity from the list
func (l *List) RemoveItem(itemType ItemType, itemID uuid.UUID) error {
	for i, item := range l.Items {
		if item.Type == itemType && item.ItemID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Contains reports whether the entity is on the list
func (l *List) Contains(itemType ItemType, itemID uuid.UUID) bool {
	for _, item := range l.Items {
		if item.Type == itemType && item.ItemID == itemID {
			return true
		}
	}
	return false
}

// IsVisibleTo implements the ownership rule: lists are private to their creator
func (l *List) IsVisibleTo(userID uuid.UUID) bool {
	return l.CreatorID == userID
}

// Repository provides access to lists
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*List, error)
	// FindByCreator returns the user's lists; archived ones only when
	// includeArchived is set.
	FindByCreator(ctx context.Context, creatorID uuid.UUID, includeArchived bool, filter shared.Filter) ([]*List, int64, error)
	Save(ctx context.Context, list *List) error
	Delete(ctx context.Context, id uuid.UUID) error
}
