package memory

import (
	"context"
	"strings"
	"sync"

	"rfa-explorer/internal/storage"
)

// AvatarCache is an in-memory implementation of storage.AvatarCache.
// It lives as long as the process; nothing is ever evicted.
type AvatarCache struct {
	mu       sync.RWMutex
	byHandle map[string]string // keyed by lower-cased handle
}

// NewAvatarCache creates an empty in-memory avatar cache.
func NewAvatarCache() *AvatarCache {
	return &AvatarCache{
		byHandle: make(map[string]string),
	}
}

func avatarKey(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}

// Get returns the cached URL for handle. Returns ErrNotFound on a miss.
func (c *AvatarCache) Get(_ context.Context, handle string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	url, exists := c.byHandle[avatarKey(handle)]
	if !exists {
		return "", storage.ErrNotFound
	}
	return url, nil
}

// Set stores url for handle. The first stored URL is kept.
func (c *AvatarCache) Set(_ context.Context, handle, url string) error {
	key := avatarKey(handle)
	if key == "" || url == "" {
		return storage.ErrInvalidInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byHandle[key]; exists {
		return nil
	}
	c.byHandle[key] = url
	return nil
}

// Len returns the number of cached handles.
func (c *AvatarCache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byHandle), nil
}

var _ storage.AvatarCache = (*AvatarCache)(nil)
