package newsletter

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/newsletter"
)

// SubscribeRequest represents a public subscription request
type SubscribeRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

// SubscriberResponse represents a subscriber in API responses
type SubscriberResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	State       string     `json:"state"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToSubscriberResponse converts a domain subscriber to its response form.
// The confirmation token never leaves the service.
func ToSubscriberResponse(s *newsletter.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:          s.ID,
		Email:       s.Email,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		State:       s.State.String(),
		ConfirmedAt: s.ConfirmedAt,
		CreatedAt:   s.CreatedAt,
	}
}

// ToSubscriberResponses converts a slice of domain subscribers
func ToSubscriberResponses(subscribers []*newsletter.Subscriber) []SubscriberResponse {
	responses := make([]SubscriberResponse, len(subscribers))
	for i, s := range subscribers {
		responses[i] = ToSubscriberResponse(s)
	}
	return responses
}
