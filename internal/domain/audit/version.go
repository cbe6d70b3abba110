package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Event is the kind of change a version records
type Event string

const (
	EventCreate  Event = "create"
	EventUpdate  Event = "update"
	EventDestroy Event = "destroy"
)

// IsValid checks if the event is a known Event
func (e Event) IsValid() bool {
	return e == EventCreate || e == EventUpdate || e == EventDestroy
}

// Changes is a field-level diff in `{attr: [old, new]}` form. Consumers
// of the history feed depend on this exact shape.
type Changes map[string][2]any

// Snapshot is the full attribute map of an entity at version time
type Snapshot map[string]any

// Version is one immutable audit record of a create/update/destroy on a
// tracked entity. ParentItemType/ParentItemID group a child entity's
// history under its owning aggregate.
type Version struct {
	ID             uuid.UUID
	ItemType       string
	ItemID         uuid.UUID
	Event          Event
	Whodunnit      *uuid.UUID
	Object         Snapshot
	ObjectChanges  Changes
	ParentItemType *string
	ParentItemID   *uuid.UUID
	CreatedAt      time.Time
}

// ParentRef identifies the aggregate a child version is grouped under
type ParentRef struct {
	ItemType string
	ItemID   uuid.UUID
}

// NewVersion builds a version record. The actor is optional: system-driven
// changes (token cleanups, migrations) carry no whodunnit.
func NewVersion(itemType string, itemID uuid.UUID, event Event, actorID *uuid.UUID, object Snapshot, changes Changes, parent *ParentRef, now time.Time) (*Version, error) {
	if itemType == "" || itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Version requires an item type and ID")
	}
	if !event.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT", "Unknown version event: "+string(event))
	}
	v := &Version{
		ID:            uuid.New(),
		ItemType:      itemType,
		ItemID:        itemID,
		Event:         event,
		Whodunnit:     actorID,
		Object:        object,
		ObjectChanges: changes,
		CreatedAt:     now,
	}
	if parent != nil {
		v.ParentItemType = &parent.ItemType
		v.ParentItemID = &parent.ItemID
	}
	return v, nil
}

// Diff computes the `{attr: [old, new]}` change set between two attribute
// snapshots, skipping the ignored volatile columns. On create, pass a nil
// before; on destroy, a nil after.
func Diff(before, after Snapshot, ignored ...string) Changes {
	skip := make(map[string]struct{}, len(ignored))
	for _, col := range ignored {
		skip[col] = struct{}{}
	}

	changes := make(Changes)
	for attr, newVal := range after {
		if _, ok := skip[attr]; ok {
			continue
		}
		oldVal, existed := before[attr]
		if !existed || !equalValues(oldVal, newVal) {
			changes[attr] = [2]any{oldVal, newVal}
		}
	}
	for attr, oldVal := range before {
		if _, ok := skip[attr]; ok {
			continue
		}
		if _, still := after[attr]; !still {
			changes[attr] = [2]any{oldVal, nil}
		}
	}
	return changes
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}
	return a == b
}

// IgnoredColumns are volatile bookkeeping attributes never diffed into a
// version record.
var IgnoredColumns = []string{
	"updated_at",
	"sign_in_count",
	"current_sign_in_at",
	"last_sign_in_at",
	"aggregate_version",
}

// Repository is the append-only version store. Versions are never updated
// or deleted.
type Repository interface {
	Append(ctx context.Context, version *Version) error
	// FindForItem returns the entity's own versions.
	FindForItem(ctx context.Context, itemType string, itemID uuid.UUID, filter shared.Filter) ([]*Version, int64, error)
	// FindForParent returns versions of all entities grouped under the
	// aggregate, merged with the aggregate's own, sorted by creation time.
	FindForParent(ctx context.Context, parentType string, parentID uuid.UUID, filter shared.Filter) ([]*Version, int64, error)
}
