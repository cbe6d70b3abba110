package models

import (
	"time"

	"github.com/rmcsharry/hq-api/internal/domain/newsletter"
)

// SubscriberModel is the persistence model for the newsletter Subscriber
// aggregate root.
type SubscriberModel struct {
	AggregateModel
	Email             string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	FirstName         string           `gorm:"type:varchar(100)"`
	LastName          string           `gorm:"type:varchar(100)"`
	State             newsletter.State `gorm:"type:varchar(30);not null;index"`
	ConfirmationToken *string          `gorm:"type:varchar(100);index"`
	ConfirmedAt       *time.Time
}

// TableName returns the table name for GORM
func (SubscriberModel) TableName() string {
	return "newsletter_subscribers"
}

// ToDomain converts the persistence model to a domain Subscriber entity.
func (m *SubscriberModel) ToDomain() *newsletter.Subscriber {
	return &newsletter.Subscriber{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		State:             m.State,
		ConfirmationToken: m.ConfirmationToken,
		ConfirmedAt:       m.ConfirmedAt,
	}
}

// FromDomain populates the persistence model from a domain Subscriber entity.
func (m *SubscriberModel) FromDomain(s *newsletter.Subscriber) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Email = s.Email
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.State = s.State
	m.ConfirmationToken = s.ConfirmationToken
	m.ConfirmedAt = s.ConfirmedAt
}

// SubscriberModelFromDomain creates a new persistence model from a domain Subscriber entity.
func SubscriberModelFromDomain(s *newsletter.Subscriber) *SubscriberModel {
	m := &SubscriberModel{}
	m.FromDomain(s)
	return m
}
