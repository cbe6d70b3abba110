package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("Advisor@Example.COM", "long-enough-password")
	require.NoError(t, err)

	assert.Equal(t, "advisor@example.com", u.Email)
	assert.True(t, u.VerifyPassword("long-enough-password"))
	assert.False(t, u.VerifyPassword("wrong"))
	assert.False(t, u.IsConfirmed())
}

func TestNewUser_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "long-enough-password"},
		{"malformed email", "not-an-email", "long-enough-password"},
		{"short password", "a@b.example", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestUser_ConfirmationFlow(t *testing.T) {
	u, err := NewUser("a@b.example", "long-enough-password")
	require.NoError(t, err)

	token, err := u.StartConfirmation()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, u.ConfirmationSentAt)

	err = u.Confirm("bogus")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.False(t, u.IsConfirmed())

	require.NoError(t, u.Confirm(token))
	assert.True(t, u.IsConfirmed())
	assert.Nil(t, u.ConfirmationToken)

	_, err = u.StartConfirmation()
	assert.Error(t, err, "confirmed users cannot be re-confirmed")
}

func TestUser_InvitationFlow(t *testing.T) {
	u, err := NewUser("invitee@b.example", "placeholder-password")
	require.NoError(t, err)

	admin := uuid.New()
	token, err := u.StartInvitation(admin)
	require.NoError(t, err)

	err = u.AcceptInvitation("bogus", "chosen-password-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, u.AcceptInvitation(token, "chosen-password-1"))
	assert.True(t, u.VerifyPassword("chosen-password-1"))
	assert.True(t, u.IsConfirmed())
	assert.Nil(t, u.InvitationToken)
	assert.Equal(t, admin, *u.InvitedByID)
}

func TestUser_PasswordResetFlow(t *testing.T) {
	u, err := NewUser("a@b.example", "original-password")
	require.NoError(t, err)

	token, err := u.StartPasswordReset()
	require.NoError(t, err)

	err = u.ResetPassword("bogus", "replacement-pass")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, u.ResetPassword(token, "replacement-pass"))
	assert.True(t, u.VerifyPassword("replacement-pass"))
	assert.Nil(t, u.ResetToken, "reset token is single use")
}

func TestUser_RecordSignIn(t *testing.T) {
	u, err := NewUser("a@b.example", "long-enough-password")
	require.NoError(t, err)

	first := time.Now().Add(-time.Hour)
	second := time.Now()
	u.RecordSignIn(first)
	u.RecordSignIn(second)

	assert.Equal(t, 2, u.SignInCount)
	assert.Equal(t, first, *u.LastSignInAt)
	assert.Equal(t, second, *u.CurrentSignInAt)
}
