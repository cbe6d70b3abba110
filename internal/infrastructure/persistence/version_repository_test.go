package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// VersionModelSQLite is a SQLite-compatible version of VersionModel for testing
type VersionModelSQLite struct {
	ID                uuid.UUID `gorm:"primaryKey"`
	ItemType          string    `gorm:"not null;index"`
	ItemID            uuid.UUID `gorm:"not null;index"`
	Event             string    `gorm:"not null"`
	Whodunnit         *uuid.UUID
	ObjectJSON        string `gorm:"column:object"`
	ObjectChangesJSON string `gorm:"column:object_changes"`
	ParentItemType    *string
	ParentItemID      *uuid.UUID
	CreatedAt         time.Time `gorm:"not null;index"`
}

func (VersionModelSQLite) TableName() string {
	return "versions"
}

func setupVersionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&VersionModelSQLite{})
	require.NoError(t, err)

	return db
}

func appendVersion(t *testing.T, repo *GormVersionRepository, itemType string, itemID uuid.UUID, event audit.Event, parent *audit.ParentRef, at time.Time) *audit.Version {
	t.Helper()

	v, err := audit.NewVersion(itemType, itemID, event, nil,
		audit.Snapshot{"comment": "snapshot"},
		audit.Changes{"comment": [2]any{nil, "snapshot"}},
		parent, at)
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), v))
	return v
}

func TestGormVersionRepository_Append(t *testing.T) {
	db := setupVersionTestDB(t)
	repo := NewGormVersionRepository(db)

	t.Run("appends version row", func(t *testing.T) {
		itemID := uuid.New()
		appendVersion(t, repo, "Contact", itemID, audit.EventCreate, nil, time.Now())

		var count int64
		require.NoError(t, db.Table("versions").Where("item_id = ?", itemID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormVersionRepository_FindForItem(t *testing.T) {
	db := setupVersionTestDB(t)
	repo := NewGormVersionRepository(db)
	ctx := context.Background()

	itemID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendVersion(t, repo, "Contact", itemID, audit.EventCreate, nil, base)
	appendVersion(t, repo, "Contact", itemID, audit.EventUpdate, nil, base.Add(time.Hour))
	appendVersion(t, repo, "Contact", uuid.New(), audit.EventCreate, nil, base)

	t.Run("returns the item's versions newest first", func(t *testing.T) {
		versions, total, err := repo.FindForItem(ctx, "Contact", itemID, shared.Filter{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, versions, 2)
		assert.Equal(t, audit.EventUpdate, versions[0].Event)
		assert.Equal(t, audit.EventCreate, versions[1].Event)
	})

	t.Run("filters by event", func(t *testing.T) {
		versions, total, err := repo.FindForItem(ctx, "Contact", itemID, shared.Filter{
			Filters: map[string]interface{}{"event": "create"},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, versions, 1)
		assert.Equal(t, audit.EventCreate, versions[0].Event)
	})

	t.Run("paginates", func(t *testing.T) {
		versions, total, err := repo.FindForItem(ctx, "Contact", itemID, shared.Filter{
			Page:     2,
			PageSize: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, versions, 1)
		assert.Equal(t, audit.EventCreate, versions[0].Event)
	})

	t.Run("round-trips snapshot and changes", func(t *testing.T) {
		versions, _, err := repo.FindForItem(ctx, "Contact", itemID, shared.Filter{
			Filters: map[string]interface{}{"event": "create"},
		})

		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, "snapshot", versions[0].Object["comment"])
		assert.Contains(t, versions[0].ObjectChanges, "comment")
	})

	t.Run("returns empty result for unknown item", func(t *testing.T) {
		versions, total, err := repo.FindForItem(ctx, "Contact", uuid.New(), shared.Filter{})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, versions)
	})
}

func TestGormVersionRepository_FindForParent(t *testing.T) {
	db := setupVersionTestDB(t)
	repo := NewGormVersionRepository(db)
	ctx := context.Background()

	mandateID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// The mandate's own version plus one of a child entity grouped under it.
	appendVersion(t, repo, "Mandate", mandateID, audit.EventCreate, nil, base)
	appendVersion(t, repo, "MandateMember", uuid.New(), audit.EventCreate,
		&audit.ParentRef{ItemType: "Mandate", ItemID: mandateID}, base.Add(time.Minute))
	appendVersion(t, repo, "Mandate", uuid.New(), audit.EventCreate, nil, base)

	t.Run("merges own and child versions newest first", func(t *testing.T) {
		versions, total, err := repo.FindForParent(ctx, "Mandate", mandateID, shared.Filter{})

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, versions, 2)
		assert.Equal(t, "MandateMember", versions[0].ItemType)
		assert.Equal(t, "Mandate", versions[1].ItemType)
	})

	t.Run("respects ascending order", func(t *testing.T) {
		versions, _, err := repo.FindForParent(ctx, "Mandate", mandateID, shared.Filter{OrderDir: "asc"})

		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, "Mandate", versions[0].ItemType)
	})
}
