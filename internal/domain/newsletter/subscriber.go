package newsletter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// State of a newsletter subscriber in the double-opt-in flow
type State string

const (
	StateCreated          State = "created"
	StateConfirmationSent State = "confirmation_sent"
	StateConfirmed        State = "confirmed"
)

// IsValid checks if the state is a known State
func (s State) IsValid() bool {
	switch s {
	case StateCreated, StateConfirmationSent, StateConfirmed:
		return true
	}
	return false
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target state is allowed
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateCreated:
		return target == StateConfirmationSent
	case StateConfirmationSent:
		return target == StateConfirmed
	}
	return false
}

// Subscriber is a double-opt-in newsletter recipient. The confirmation
// token is single-use: it is generated when the mail goes out and cleared
// on confirmation.
type Subscriber struct {
	shared.BaseAggregateRoot
	Email             string
	FirstName         string
	LastName          string
	State             State
	ConfirmationToken *string
	ConfirmedAt       *time.Time
}

// NewSubscriber registers a subscriber in the created state
func NewSubscriber(email, firstName, lastName string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	errs := shared.NewValidationErrors()
	if email == "" {
		errs.AddRequired("email")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "INVALID_FORMAT", "email address is not valid")
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return &Subscriber{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		State:             StateCreated,
	}, nil
}

// SendConfirmation generates the confirmation token and moves the
// subscriber to confirmation_sent. The caller enqueues the actual mail
// after the record is committed.
func (s *Subscriber) SendConfirmation() (string, error) {
	if !s.State.CanTransitionTo(StateConfirmationSent) {
		return "", shared.NewDomainError("INVALID_TRANSITION",
			"Cannot send confirmation from state: "+s.State.String())
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	s.State = StateConfirmationSent
	s.ConfirmationToken = &token
	s.UpdatedAt = time.Now()
	return token, nil
}

// Confirm completes the opt-in with the mailed token, clearing it and
// stamping confirmed_at. A wrong token reads as record-not-found so the
// endpoint does not reveal whether the address exists.
func (s *Subscriber) Confirm(token string, now time.Time) error {
	if s.ConfirmationToken == nil || *s.ConfirmationToken != token {
		return shared.ErrNotFound
	}
	if !s.State.CanTransitionTo(StateConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot confirm from state: "+s.State.String())
	}
	s.State = StateConfirmed
	s.ConfirmationToken = nil
	s.ConfirmedAt = &now
	s.UpdatedAt = now
	return nil
}

// Validate enforces the confirmed-state cross-field invariant
func (s *Subscriber) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if s.Email == "" {
		errs.AddRequired("email")
	}
	if !s.State.IsValid() {
		errs.Add("state", "INVALID", "unknown subscriber state")
	}
	if s.State == StateConfirmed && s.ConfirmedAt == nil {
		errs.Add("confirmed_at", "REQUIRED_FOR_CONFIRMED", "confirmed_at is required for confirmed subscribers")
	}
	return errs
}

func generateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_FAILED", "Could not generate confirmation token")
	}
	return hex.EncodeToString(buf), nil
}

// Repository provides access to newsletter subscribers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	FindByConfirmationToken(ctx context.Context, token string) (*Subscriber, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Subscriber, int64, error)
	Save(ctx context.Context, subscriber *Subscriber) error
	Delete(ctx context.Context, id uuid.UUID) error
}
