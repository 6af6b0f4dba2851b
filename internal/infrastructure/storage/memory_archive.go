package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

var _ Archive = (*MemoryArchive)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryArchive keeps documents in process memory. Download URLs point at
// BaseURL and are not served by anything; it exists for development and tests.
type MemoryArchive struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryArchive creates an empty MemoryArchive
func NewMemoryArchive(baseURL string) *MemoryArchive {
	return &MemoryArchive{
		BaseURL: baseURL,
		objects: make(map[string]memoryObject),
	}
}

// Upload stores a copy of data
func (m *MemoryArchive) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = memoryObject{data: buf, contentType: contentType}
	m.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a fake URL carrying the expiry
func (m *MemoryArchive) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	expiresAt := time.Now().Add(expiresIn)
	return m.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Delete removes an object; unknown keys are ignored
func (m *MemoryArchive) Delete(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object
func (m *MemoryArchive) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored objects
func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
