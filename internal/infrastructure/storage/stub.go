package storage

import (
	"context"
	"errors"
	"time"

	appdocument "github.com/rmcsharry/hq-api/internal/application/document"
)

var errEmptyStorageKey = errors.New("storage key is required")

// StubObjectStorage satisfies ObjectStorageService without talking to a
// real backend. URLs it hands out are well-formed but dead; ObjectExists
// always answers true so the upload confirmation flow can complete in
// development.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

var _ appdocument.ObjectStorageService = (*StubObjectStorage)(nil)

func (s *StubObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("/upload/", storageKey, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.signedURL("/download/", storageKey, expiresIn)
}

func (s *StubObjectStorage) signedURL(prefix, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyStorageKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + prefix + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyStorageKey
	}
	return nil
}

func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyStorageKey
	}
	return true, nil
}
