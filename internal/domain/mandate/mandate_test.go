package mandate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func newTestMandate(t *testing.T) *Mandate {
	t.Helper()
	m, err := NewMandate("wealth_management")
	require.NoError(t, err)
	return m
}

func withConsultants(t *testing.T, m *Mandate) *Mandate {
	t.Helper()
	primary := uuid.New()
	secondary := uuid.New()
	require.NoError(t, m.AssignConsultants(&primary, &secondary, nil, nil))
	return m
}

func TestState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     State
		to       State
		canTrans bool
	}{
		{StateProspect, StateClient, true},
		{StateProspect, StateCancelled, true},
		{StateProspect, StateProspect, false},
		{StateClient, StateCancelled, true},
		{StateClient, StateProspect, true},
		{StateClient, StateClient, false},
		{StateCancelled, StateClient, true},
		{StateCancelled, StateProspect, true},
		{StateCancelled, StateCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseState_LegacyLabels(t *testing.T) {
	s, err := ParseState("prospect_not_qualified")
	require.NoError(t, err)
	assert.Equal(t, StateProspect, s)

	s, err = ParseState("prospect_qualified")
	require.NoError(t, err)
	assert.Equal(t, StateProspect, s)

	_, err = ParseState("bogus")
	assert.Error(t, err)
}

func TestMandate_BecomeClient_GuardRequiresConsultants(t *testing.T) {
	m := newTestMandate(t)

	err := m.BecomeClient()
	require.Error(t, err)
	verrs, ok := err.(*shared.ValidationErrors)
	require.True(t, ok)
	assert.True(t, verrs.On("primary_consultant"))
	assert.True(t, verrs.On("secondary_consultant"))
	assert.Equal(t, StateProspect, m.State, "mandate stays in its prior state on guard failure")

	withConsultants(t, m)
	require.NoError(t, m.BecomeClient())
	assert.Equal(t, StateClient, m.State)
}

func TestMandate_BecomeClient_GuardReportsMissingSecondary(t *testing.T) {
	m := newTestMandate(t)
	primary := uuid.New()
	require.NoError(t, m.AssignConsultants(&primary, nil, nil, nil))

	err := m.BecomeClient()
	require.Error(t, err)
	verrs := err.(*shared.ValidationErrors)
	assert.False(t, verrs.On("primary_consultant"))
	assert.True(t, verrs.On("secondary_consultant"))
}

func TestMandate_CancelAndReactivate(t *testing.T) {
	m := withConsultants(t, newTestMandate(t))
	require.NoError(t, m.BecomeClient())

	require.NoError(t, m.Cancel())
	assert.Equal(t, StateCancelled, m.State)

	// Cancelled mandates can become clients again (guard still applies).
	require.NoError(t, m.BecomeClient())
	assert.Equal(t, StateClient, m.State)

	require.NoError(t, m.BecomeProspect())
	assert.Equal(t, StateProspect, m.State)
}

func TestMandate_IllegalTransition(t *testing.T) {
	m := newTestMandate(t)
	err := m.BecomeProspect()
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestMandate_AssignConsultants_Distinct(t *testing.T) {
	m := newTestMandate(t)
	id := uuid.New()
	err := m.AssignConsultants(&id, &id, nil, nil)
	assert.Error(t, err)
}

func TestMandate_Members(t *testing.T) {
	m := newTestMandate(t)
	contactID := uuid.New()

	member, err := m.AddMember(contactID, MemberOwner)
	require.NoError(t, err)
	assert.Equal(t, contactID, member.ContactID)

	_, err = m.AddMember(contactID, MemberOwner)
	assert.Error(t, err, "duplicate membership type rejected")

	_, err = m.AddMember(contactID, MemberBeneficiary)
	assert.NoError(t, err, "same contact may hold a different member type")

	assert.Len(t, m.Owners(), 1)

	require.NoError(t, m.RemoveMember(member.ID))
	assert.Empty(t, m.Owners())
	assert.ErrorIs(t, m.RemoveMember(member.ID), shared.ErrNotFound)
}

func TestMandate_ValidateGroups(t *testing.T) {
	m := newTestMandate(t)
	family := uuid.New()
	org := uuid.New()
	types := map[uuid.UUID]identity.MandateGroupType{
		family: identity.MandateGroupFamily,
		org:    identity.MandateGroupOrganization,
	}

	m.SetMandateGroups([]uuid.UUID{family})
	assert.True(t, m.ValidateGroups(types).On("mandate_groups"))

	m.SetMandateGroups([]uuid.UUID{family, org})
	assert.False(t, m.ValidateGroups(types).HasErrors())

	m.SetMandateGroups(nil)
	assert.True(t, m.ValidateGroups(types).HasErrors())
}

func TestActivity_Validation(t *testing.T) {
	creator := uuid.New()
	a, err := NewActivity(ActivityMeeting, "Quarterly review", testTime(t), creator)
	require.NoError(t, err)

	ended := a.StartedAt.Add(-1)
	a.EndedAt = &ended
	assert.True(t, a.Validate().On("ended_at"))

	_, err = NewActivity(ActivityType("visit"), "Title", testTime(t), creator)
	assert.Error(t, err)
}

func TestActivity_Attachments(t *testing.T) {
	a, err := NewActivity(ActivityNote, "Intro note", testTime(t), uuid.New())
	require.NoError(t, err)

	contactID := uuid.New()
	a.AttachContact(contactID)
	a.AttachContact(contactID)
	assert.Len(t, a.ContactIDs, 1)
	assert.True(t, a.ContactAttachedOnly())

	a.AttachMandate(uuid.New())
	assert.False(t, a.ContactAttachedOnly())
}
