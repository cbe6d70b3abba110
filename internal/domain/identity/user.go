package identity

import (
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is an authenticating principal. A user may be linked to at most one
// contact and derives all permissions from its user group memberships.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	ContactID    *uuid.UUID

	ConfirmationToken  *string
	ConfirmationSentAt *time.Time
	ConfirmedAt        *time.Time

	InvitationToken  *string
	InvitationSentAt *time.Time
	InvitedByID      *uuid.UUID

	ResetToken       *string
	ResetTokenSentAt *time.Time

	// Sign-in bookkeeping; skipped by the audit diff.
	SignInCount     int
	CurrentSignInAt *time.Time
	LastSignInAt    *time.Time
}

// NewUser creates a new user with a hashed password
func NewUser(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
	}, nil
}

// NewInvitedUser creates a user without credentials. The password is set
// when the invitation token is accepted.
func NewInvitedUser(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
	}, nil
}

// SetPassword sets a new password, clearing any pending reset token
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.ResetToken = nil
	u.ResetTokenSentAt = nil
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// LinkContact associates the user with a contact record
func (u *User) LinkContact(contactID uuid.UUID) error {
	if contactID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	u.ContactID = &contactID
	u.UpdatedAt = time.Now()
	return nil
}

// IsConfirmed reports whether the user confirmed their email address
func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

// StartConfirmation generates a confirmation token to be mailed out
func (u *User) StartConfirmation() (string, error) {
	if u.IsConfirmed() {
		return "", shared.NewDomainError("ALREADY_CONFIRMED", "User is already confirmed")
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	u.ConfirmationToken = &token
	u.ConfirmationSentAt = &now
	return token, nil
}

// Confirm consumes the confirmation token and marks the user confirmed
func (u *User) Confirm(token string) error {
	if u.ConfirmationToken == nil || *u.ConfirmationToken != token {
		return shared.ErrNotFound
	}
	now := time.Now()
	u.ConfirmedAt = &now
	u.ConfirmationToken = nil
	u.UpdatedAt = now
	return nil
}

// StartInvitation generates an invitation token for a user created by an admin
func (u *User) StartInvitation(invitedBy uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	u.InvitationToken = &token
	u.InvitationSentAt = &now
	u.InvitedByID = &invitedBy
	return token, nil
}

// AcceptInvitation consumes the invitation token and sets the initial password
func (u *User) AcceptInvitation(token, password string) error {
	if u.InvitationToken == nil || *u.InvitationToken != token {
		return shared.ErrNotFound
	}
	if err := u.SetPassword(password); err != nil {
		return err
	}
	now := time.Now()
	u.InvitationToken = nil
	u.ConfirmedAt = &now
	return nil
}

// StartPasswordReset generates a reset token to be mailed out
func (u *User) StartPasswordReset() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	u.ResetToken = &token
	u.ResetTokenSentAt = &now
	return token, nil
}

// ResetPassword consumes the reset token and sets the new password
func (u *User) ResetPassword(token, password string) error {
	if u.ResetToken == nil || *u.ResetToken != token {
		return shared.ErrNotFound
	}
	return u.SetPassword(password)
}

// RecordSignIn updates the sign-in bookkeeping counters
func (u *User) RecordSignIn(at time.Time) {
	u.SignInCount++
	u.LastSignInAt = u.CurrentSignInAt
	u.CurrentSignInAt = &at
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 10 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 10 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
