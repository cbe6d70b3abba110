package audit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	before := Snapshot{
		"first_name":    "Jane",
		"last_name":     "Doe",
		"comment":       "old note",
		"updated_at":    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"sign_in_count": 3,
	}
	after := Snapshot{
		"first_name":    "Jane",
		"last_name":     "Miller",
		"comment":       "old note",
		"nickname":      "JM",
		"updated_at":    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		"sign_in_count": 4,
	}

	changes := Diff(before, after, IgnoredColumns...)

	require.Len(t, changes, 2)
	assert.Equal(t, [2]any{"Doe", "Miller"}, changes["last_name"])
	assert.Equal(t, [2]any{nil, "JM"}, changes["nickname"])
	assert.NotContains(t, changes, "updated_at")
	assert.NotContains(t, changes, "sign_in_count")
	assert.NotContains(t, changes, "first_name")
}

func TestDiffCreateAndDestroy(t *testing.T) {
	attrs := Snapshot{"name": "HQ Fund I", "state": "open"}

	created := Diff(nil, attrs)
	require.Len(t, created, 2)
	assert.Equal(t, [2]any{nil, "HQ Fund I"}, created["name"])

	destroyed := Diff(attrs, nil)
	require.Len(t, destroyed, 2)
	assert.Equal(t, [2]any{"open", nil}, destroyed["state"])
}

func TestDiffComparesTimesByInstant(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	utc := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	changes := Diff(
		Snapshot{"valid_from": utc},
		Snapshot{"valid_from": utc.In(berlin)},
	)
	assert.Empty(t, changes)
}

func TestNewVersion(t *testing.T) {
	itemID := uuid.New()
	actor := uuid.New()
	parentID := uuid.New()
	now := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)

	v, err := NewVersion("Address", itemID, EventUpdate, &actor,
		Snapshot{"city": "Berlin"},
		Changes{"city": [2]any{"Munich", "Berlin"}},
		&ParentRef{ItemType: "Contact", ItemID: parentID},
		now,
	)
	require.NoError(t, err)
	assert.Equal(t, "Address", v.ItemType)
	assert.Equal(t, EventUpdate, v.Event)
	require.NotNil(t, v.Whodunnit)
	assert.Equal(t, actor, *v.Whodunnit)
	require.NotNil(t, v.ParentItemType)
	assert.Equal(t, "Contact", *v.ParentItemType)
	assert.Equal(t, parentID, *v.ParentItemID)
	assert.True(t, v.CreatedAt.Equal(now))

	_, err = NewVersion("", itemID, EventUpdate, nil, nil, nil, nil, now)
	assert.Error(t, err)

	_, err = NewVersion("Address", itemID, Event("rename"), nil, nil, nil, nil, now)
	assert.Error(t, err)
}
