package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"rfa-explorer/internal/storage"
)

// DefaultAvatarTTL bounds how long a session's keys survive after the
// process that wrote them is gone.
const DefaultAvatarTTL = 24 * time.Hour

// AvatarCache implements storage.AvatarCache on Redis.
//
// Keys are namespaced by a session ID generated at construction, so a
// restarted process starts with an empty cache even though Redis outlives it.
type AvatarCache struct {
	client  *Client
	session string
	ttl     time.Duration
}

// NewAvatarCache creates a cache bound to a fresh session.
func NewAvatarCache(client *Client, ttl time.Duration) *AvatarCache {
	if ttl <= 0 {
		ttl = DefaultAvatarTTL
	}
	return &AvatarCache{
		client:  client,
		session: uuid.NewString(),
		ttl:     ttl,
	}
}

// Compile-time interface check.
var _ storage.AvatarCache = (*AvatarCache)(nil)

// Session returns the key namespace used by this cache.
func (c *AvatarCache) Session() string {
	return c.session
}

func (c *AvatarCache) key(handle string) string {
	return fmt.Sprintf("avatar:%s:%s", c.session, strings.ToLower(strings.TrimSpace(handle)))
}

// Get returns the cached URL for handle. Returns ErrNotFound on a miss.
func (c *AvatarCache) Get(ctx context.Context, handle string) (string, error) {
	url, err := c.client.Get(ctx, c.key(handle)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get avatar: %w", err)
	}
	return url, nil
}

// Set stores url for handle unless an entry already exists.
func (c *AvatarCache) Set(ctx context.Context, handle, url string) error {
	if strings.TrimSpace(handle) == "" || url == "" {
		return storage.ErrInvalidInput
	}
	if err := c.client.SetNX(ctx, c.key(handle), url, c.ttl).Err(); err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	return nil
}

// Len counts the keys in this session's namespace.
func (c *AvatarCache) Len(ctx context.Context) (int, error) {
	pattern := fmt.Sprintf("avatar:%s:*", c.session)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	n := 0
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan avatar keys: %w", err)
	}
	return n, nil
}
