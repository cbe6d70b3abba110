package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcsharry/hq-api/internal/infrastructure/config"
)

func newTestSync(t *testing.T, handler http.HandlerFunc) *HTTPSubscriberSync {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPSubscriberSync(srv.URL, config.MailerConfig{
		NewsletterAPIKey: "test-key",
		NewsletterListID: "list-42",
	})
}

func TestHTTPSubscriberSync_SyncConfirmed(t *testing.T) {
	var received syncContactRequest
	var authHeader string

	sync := newTestSync(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	})

	err := sync.SyncConfirmed(context.Background(), "max@example.org", "Max", "Mustermann")

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "max@example.org", received.Email)
	assert.Equal(t, "Max", received.FirstName)
	assert.Equal(t, "Mustermann", received.LastName)
	assert.Equal(t, "list-42", received.ListID)
}

func TestHTTPSubscriberSync_SyncConfirmed_ServerError(t *testing.T) {
	sync := newTestSync(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := sync.SyncConfirmed(context.Background(), "max@example.org", "Max", "Mustermann")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPSubscriberSync_Remove(t *testing.T) {
	var path, query string

	sync := newTestSync(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.Path
		query = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	})

	err := sync.Remove(context.Background(), "max@example.org")

	require.NoError(t, err)
	assert.Equal(t, "/contacts/max@example.org", path)
	assert.Contains(t, query, "list_id=list-42")
}

func TestHTTPSubscriberSync_Remove_AlreadyGone(t *testing.T) {
	sync := newTestSync(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := sync.Remove(context.Background(), "max@example.org")
	assert.NoError(t, err)
}
