package storage

import (
	"context"
	"errors"
	"net/url"
	"time"

	catalogapp "github.com/agromarket/backend/internal/application/catalog"
)

// StubObjectStorage returns deterministic fake URLs. It is used when object
// storage is disabled, e.g. in local development.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "http://localhost:9000/agromarket"}
}

var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)

// GenerateUploadURL returns a fake upload URL for storageKey
func (s *StubObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, _ string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	u := s.BaseURL + "/" + storageKey + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}
