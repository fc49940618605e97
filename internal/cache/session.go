package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookery/bookery/internal/model"
)

// sessionPrefix is the Redis key prefix for session records.
const sessionPrefix = "session:"

// storedSession is the session record shape kept in Redis.
type storedSession struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GetSession retrieves a session by token digest.
// Returns nil if not found or expired (a miss, not an error).
func (c *Cache) GetSession(ctx context.Context, tokenDigest string) (*model.Session, error) {
	key := sessionPrefix + tokenDigest

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Miss (or transient failure) - caller treats as unauthenticated
		return nil, nil //nolint:nilerr
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted record - treat as miss
		return nil, nil //nolint:nilerr
	}

	session := &model.Session{
		UserID:    stored.UserID,
		Username:  stored.Username,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}

	if session.Expired(time.Now()) {
		return nil, nil
	}

	return session, nil
}

// SetSession stores a session under its token digest with a TTL.
func (c *Cache) SetSession(ctx context.Context, tokenDigest string, session *model.Session, ttl time.Duration) error {
	key := sessionPrefix + tokenDigest

	stored := storedSession{
		UserID:    session.UserID,
		Username:  session.Username,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// DeleteSession removes a session record. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, tokenDigest string) error {
	key := sessionPrefix + tokenDigest
	return c.client.Del(ctx, key).Err()
}
