package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appnewsletter "github.com/rmcsharry/hq-api/internal/application/newsletter"
	"github.com/rmcsharry/hq-api/internal/infrastructure/config"
)

// maxSyncResponseSize limits the response body size read from the
// newsletter tool
const maxSyncResponseSize = 1 * 1024 * 1024 // 1MB

// HTTPSubscriberSync pushes confirmed subscribers to an external newsletter
// tool's contact list API and removes unsubscribed ones.
type HTTPSubscriberSync struct {
	baseURL    string
	apiKey     string
	listID     string
	httpClient *http.Client
}

// NewHTTPSubscriberSync creates a subscriber sync against the configured
// newsletter tool
func NewHTTPSubscriberSync(baseURL string, cfg config.MailerConfig) *HTTPSubscriberSync {
	return &HTTPSubscriberSync{
		baseURL: baseURL,
		apiKey:  cfg.NewsletterAPIKey,
		listID:  cfg.NewsletterListID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type syncContactRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ListID    string `json:"list_id"`
}

// SyncConfirmed upserts a confirmed subscriber into the external contact list
func (s *HTTPSubscriberSync) SyncConfirmed(ctx context.Context, email, firstName, lastName string) error {
	body, err := json.Marshal(syncContactRequest{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		ListID:    s.listID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/contacts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	return s.do(req)
}

// Remove deletes a subscriber from the external contact list
func (s *HTTPSubscriberSync) Remove(ctx context.Context, email string) error {
	endpoint := s.baseURL + "/contacts/" + url.PathEscape(email) + "?list_id=" + url.QueryEscape(s.listID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build contact request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	return s.do(req)
}

func (s *HTTPSubscriberSync) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("newsletter tool request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// 404 on delete means the contact is already gone
	if req.Method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxSyncResponseSize))
	return fmt.Errorf("newsletter tool returned status %d: %s", resp.StatusCode, string(body))
}

// Ensure HTTPSubscriberSync implements SubscriberSync
var _ appnewsletter.SubscriberSync = (*HTTPSubscriberSync)(nil)

// NoopSubscriberSync is the development fallback when no newsletter tool is
// configured
type NoopSubscriberSync struct{}

// NewNoopSubscriberSync creates a no-op subscriber sync
func NewNoopSubscriberSync() *NoopSubscriberSync {
	return &NoopSubscriberSync{}
}

// SyncConfirmed does nothing
func (s *NoopSubscriberSync) SyncConfirmed(ctx context.Context, email, firstName, lastName string) error {
	return nil
}

// Remove does nothing
func (s *NoopSubscriberSync) Remove(ctx context.Context, email string) error {
	return nil
}

// Ensure NoopSubscriberSync implements SubscriberSync
var _ appnewsletter.SubscriberSync = (*NoopSubscriberSync)(nil)
