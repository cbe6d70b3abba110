package mandate

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ActivityType of an activity entry
type ActivityType string

const (
	ActivityMeeting ActivityType = "meeting"
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityNote    ActivityType = "note"
)

// IsValid checks if the activity type is known
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityMeeting, ActivityCall, ActivityEmail, ActivityNote:
		return true
	}
	return false
}

// Activity is a logged interaction. It can be attached to mandates and to
// contacts; documents owned by an activity inherit their permission scope
// from these attachments.
type Activity struct {
	shared.BaseAggregateRoot
	ActivityType ActivityType
	Title        string
	Description  string
	StartedAt    time.Time
	EndedAt      *time.Time
	CreatorID    uuid.UUID

	MandateIDs []uuid.UUID
	ContactIDs []uuid.UUID
}

// NewActivity creates a new activity
func NewActivity(activityType ActivityType, title string, startedAt time.Time, creatorID uuid.UUID) (*Activity, error) {
	a := &Activity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ActivityType:      activityType,
		Title:             strings.TrimSpace(title),
		StartedAt:         startedAt,
		CreatorID:         creatorID,
		MandateIDs:        make([]uuid.UUID, 0),
		ContactIDs:        make([]uuid.UUID, 0),
	}
	if err := a.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate collects per-field validation errors
func (a *Activity) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if !a.ActivityType.IsValid() {
		errs.Add("activity_type", "INVALID", "activity_type must be meeting, call, email or note")
	}
	if a.Title == "" {
		errs.AddRequired("title")
	}
	if a.CreatorID == uuid.Nil {
		errs.AddRequired("creator")
	}
	if a.EndedAt != nil && a.EndedAt.Before(a.StartedAt) {
		errs.Add("ended_at", "RANGE", "ended_at must not be before started_at")
	}
	return errs
}

// AttachMandate links the activity to a mandate
func (a *Activity) AttachMandate(mandateID uuid.UUID) {
	for _, id := range a.MandateIDs {
		if id == mandateID {
			return
		}
	}
	a.MandateIDs = append(a.MandateIDs, mandateID)
	a.UpdatedAt = time.Now()
}

// AttachContact links the activity to a contact
func (a *Activity) AttachContact(contactID uuid.UUID) {
	for _, id := range a.ContactIDs {
		if id == contactID {
			return
		}
	}
	a.ContactIDs = append(a.ContactIDs, contactID)
	a.UpdatedAt = time.Now()
}

// ContactAttachedOnly reports whether the activity is attached to contacts
// but no mandate; such activities fall under the contacts permission scope.
func (a *Activity) ContactAttachedOnly() bool {
	return len(a.MandateIDs) == 0 && len(a.ContactIDs) > 0
}
