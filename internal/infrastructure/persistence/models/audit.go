package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rmcsharry/hq-api/internal/domain/audit"
)

// VersionModel is the persistence model for an audit Version record.
// Object and object_changes are stored as jsonb; rows are append-only.
type VersionModel struct {
	ID                uuid.UUID   `gorm:"type:uuid;primary_key"`
	ItemType          string      `gorm:"type:varchar(50);not null;index:idx_version_item,priority:1"`
	ItemID            uuid.UUID   `gorm:"type:uuid;not null;index:idx_version_item,priority:2"`
	Event             audit.Event `gorm:"type:varchar(10);not null"`
	Whodunnit         *uuid.UUID  `gorm:"type:uuid;index"`
	ObjectJSON        string      `gorm:"column:object;type:jsonb"`
	ObjectChangesJSON string      `gorm:"column:object_changes;type:jsonb"`
	ParentItemType    *string     `gorm:"type:varchar(50);index:idx_version_parent,priority:1"`
	ParentItemID      *uuid.UUID  `gorm:"type:uuid;index:idx_version_parent,priority:2"`
	CreatedAt         time.Time   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (VersionModel) TableName() string {
	return "versions"
}

// ToDomain converts the persistence model to a domain Version entity.
func (m *VersionModel) ToDomain() *audit.Version {
	v := &audit.Version{
		ID:             m.ID,
		ItemType:       m.ItemType,
		ItemID:         m.ItemID,
		Event:          m.Event,
		Whodunnit:      m.Whodunnit,
		ParentItemType: m.ParentItemType,
		ParentItemID:   m.ParentItemID,
		CreatedAt:      m.CreatedAt,
	}
	if m.ObjectJSON != "" {
		if err := json.Unmarshal([]byte(m.ObjectJSON), &v.Object); err != nil {
			zap.L().Warn("failed to unmarshal version object",
				zap.String("version_id", m.ID.String()),
				zap.Error(err))
		}
	}
	if m.ObjectChangesJSON != "" {
		if err := json.Unmarshal([]byte(m.ObjectChangesJSON), &v.ObjectChanges); err != nil {
			zap.L().Warn("failed to unmarshal version changes",
				zap.String("version_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return v
}

// VersionModelFromDomain creates a new persistence model from a domain Version entity.
func VersionModelFromDomain(v *audit.Version) (*VersionModel, error) {
	m := &VersionModel{
		ID:             v.ID,
		ItemType:       v.ItemType,
		ItemID:         v.ItemID,
		Event:          v.Event,
		Whodunnit:      v.Whodunnit,
		ParentItemType: v.ParentItemType,
		ParentItemID:   v.ParentItemID,
		CreatedAt:      v.CreatedAt,
	}
	if v.Object != nil {
		raw, err := json.Marshal(v.Object)
		if err != nil {
			return nil, err
		}
		m.ObjectJSON = string(raw)
	}
	if v.ObjectChanges != nil {
		raw, err := json.Marshal(v.ObjectChanges)
		if err != nil {
			return nil, err
		}
		m.ObjectChangesJSON = string(raw)
	}
	return m, nil
}
