package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_GenerateUploadURL(t *testing.T) {
	s := NewStubObjectStorage()

	url, expiresAt, err := s.GenerateUploadURL(context.Background(), "documents/abc.pdf", "application/pdf", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "/upload/documents/abc.pdf")
	assert.True(t, expiresAt.After(time.Now()))
}

func TestStubObjectStorage_GenerateUploadURL_RequiresKey(t *testing.T) {
	s := NewStubObjectStorage()

	_, _, err := s.GenerateUploadURL(context.Background(), "", "application/pdf", 15*time.Minute)
	assert.Error(t, err)
}

func TestStubObjectStorage_GenerateDownloadURL(t *testing.T) {
	s := NewStubObjectStorage()

	url, expiresAt, err := s.GenerateDownloadURL(context.Background(), "documents/abc.pdf", 15*time.Minute)

	require.NoError(t, err)
	assert.Contains(t, url, "/download/documents/abc.pdf")
	assert.True(t, expiresAt.After(time.Now()))
}

func TestStubObjectStorage_DeleteObject(t *testing.T) {
	s := NewStubObjectStorage()

	assert.NoError(t, s.DeleteObject(context.Background(), "documents/abc.pdf"))
	assert.Error(t, s.DeleteObject(context.Background(), ""))
}

func TestStubObjectStorage_ObjectExists(t *testing.T) {
	s := NewStubObjectStorage()

	exists, err := s.ObjectExists(context.Background(), "documents/abc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}
