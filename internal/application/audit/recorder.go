package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
)

// Recorder appends version records for the mutating services. Callers
// invoke it inside the same transaction as the primary mutation so that a
// failed mutation leaves no version behind.
type Recorder struct {
	versions audit.Repository
}

// NewRecorder creates a Recorder
func NewRecorder(versions audit.Repository) *Recorder {
	return &Recorder{versions: versions}
}

// Created records a create event with the full attribute snapshot
func (r *Recorder) Created(ctx context.Context, itemType string, itemID uuid.UUID, actorID *uuid.UUID, attrs audit.Snapshot, parent *audit.ParentRef) error {
	changes := audit.Diff(nil, attrs, audit.IgnoredColumns...)
	version, err := audit.NewVersion(itemType, itemID, audit.EventCreate, actorID, attrs, changes, parent, time.Now())
	if err != nil {
		return err
	}
	return r.versions.Append(ctx, version)
}

// Updated records an update event with the field-level diff between the
// two snapshots. No version is written when nothing audit-relevant changed.
func (r *Recorder) Updated(ctx context.Context, itemType string, itemID uuid.UUID, actorID *uuid.UUID, before, after audit.Snapshot, parent *audit.ParentRef) error {
	changes := audit.Diff(before, after, audit.IgnoredColumns...)
	if len(changes) == 0 {
		return nil
	}
	version, err := audit.NewVersion(itemType, itemID, audit.EventUpdate, actorID, after, changes, parent, time.Now())
	if err != nil {
		return err
	}
	return r.versions.Append(ctx, version)
}

// Destroyed records a destroy event preserving the final snapshot
func (r *Recorder) Destroyed(ctx context.Context, itemType string, itemID uuid.UUID, actorID *uuid.UUID, attrs audit.Snapshot, parent *audit.ParentRef) error {
	changes := audit.Diff(attrs, nil, audit.IgnoredColumns...)
	version, err := audit.NewVersion(itemType, itemID, audit.EventDestroy, actorID, attrs, changes, parent, time.Now())
	if err != nil {
		return err
	}
	return r.versions.Append(ctx, version)
}
