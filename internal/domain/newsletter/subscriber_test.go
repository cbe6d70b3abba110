package newsletter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

func TestNewSubscriber(t *testing.T) {
	sub, err := NewSubscriber("  Jane.Doe@Example.COM ", " Jane ", " Doe ")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", sub.Email)
	assert.Equal(t, "Jane", sub.FirstName)
	assert.Equal(t, StateCreated, sub.State)
	assert.Nil(t, sub.ConfirmationToken)
	assert.Nil(t, sub.ConfirmedAt)

	_, err = NewSubscriber("", "Jane", "Doe")
	assert.Error(t, err)

	_, err = NewSubscriber("not-an-address", "Jane", "Doe")
	assert.Error(t, err)
}

func TestSubscriberOptInFlow(t *testing.T) {
	sub, err := NewSubscriber("jane@example.com", "Jane", "Doe")
	require.NoError(t, err)

	token, err := sub.SendConfirmation()
	require.NoError(t, err)
	assert.Len(t, token, 48)
	assert.Equal(t, StateConfirmationSent, sub.State)
	require.NotNil(t, sub.ConfirmationToken)

	// re-sending from confirmation_sent is not a permitted transition
	_, err = sub.SendConfirmation()
	assert.Error(t, err)

	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, sub.Confirm(token, now))
	assert.Equal(t, StateConfirmed, sub.State)
	assert.Nil(t, sub.ConfirmationToken)
	require.NotNil(t, sub.ConfirmedAt)
	assert.True(t, sub.ConfirmedAt.Equal(now))
	assert.False(t, sub.Validate().HasErrors())

	// the token is single-use
	err = sub.Confirm(token, now)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestSubscriberConfirmRejectsWrongToken(t *testing.T) {
	sub, err := NewSubscriber("jane@example.com", "Jane", "Doe")
	require.NoError(t, err)

	// confirming before any token was issued
	err = sub.Confirm("deadbeef", time.Now())
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = sub.SendConfirmation()
	require.NoError(t, err)

	err = sub.Confirm("wrong-token", time.Now())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.Equal(t, StateConfirmationSent, sub.State)
}

func TestSubscriberConfirmedInvariant(t *testing.T) {
	sub, err := NewSubscriber("jane@example.com", "Jane", "Doe")
	require.NoError(t, err)

	sub.State = StateConfirmed
	errs := sub.Validate()
	assert.True(t, errs.On("confirmed_at"))
}
