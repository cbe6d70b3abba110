package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/list"
)

// ListModel is the persistence model for the List aggregate root.
// Memberships are child rows loaded with the aggregate.
type ListModel struct {
	AggregateModel
	Name      string     `gorm:"type:varchar(200);not null;index"`
	Comment   string     `gorm:"type:text"`
	State     list.State `gorm:"type:varchar(20);not null;index"`
	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index"`

	Items []ListItemModel `gorm:"foreignKey:ListID;references:ID"`
}

// TableName returns the table name for GORM
func (ListModel) TableName() string {
	return "lists"
}

// ToDomain converts the persistence model to a domain List entity.
func (m *ListModel) ToDomain() *list.List {
	l := &list.List{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Comment:           m.Comment,
		State:             m.State,
		CreatorID:         m.CreatorID,
		Items:             make([]list.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		l.Items[i] = list.Item{
			Type:    item.ItemType,
			ItemID:  item.ItemID,
			AddedAt: item.AddedAt,
		}
	}
	return l
}

// FromDomain populates the persistence model from a domain List entity.
func (m *ListModel) FromDomain(l *list.List) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Name = l.Name
	m.Comment = l.Comment
	m.State = l.State
	m.CreatorID = l.CreatorID
	m.Items = make([]ListItemModel, len(l.Items))
	for i, item := range l.Items {
		m.Items[i] = ListItemModel{
			ListID:   l.ID,
			ItemType: item.Type,
			ItemID:   item.ItemID,
			AddedAt:  item.AddedAt,
		}
	}
}

// ListModelFromDomain creates a new persistence model from a domain List entity.
func ListModelFromDomain(l *list.List) *ListModel {
	m := &ListModel{}
	m.FromDomain(l)
	return m
}

// ListItemModel is the membership row linking a contact or mandate to a
// list. A list holds each entity at most once.
type ListItemModel struct {
	ListID   uuid.UUID     `gorm:"type:uuid;primary_key"`
	ItemType list.ItemType `gorm:"type:varchar(20);primary_key"`
	ItemID   uuid.UUID     `gorm:"type:uuid;primary_key;index"`
	AddedAt  time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ListItemModel) TableName() string {
	return "list_items"
}
