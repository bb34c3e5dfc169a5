package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastLoginTTL = 30 * 24 * time.Hour

// LastLoginRecorder keeps a per-user last-successful-login timestamp in
// Redis. Key format: lastlogin:<user_id>
type LastLoginRecorder struct {
	client *redis.Client
}

// NewLastLoginRecorder creates a LastLoginRecorder wrapping the given Redis client.
func NewLastLoginRecorder(client *redis.Client) *LastLoginRecorder {
	return &LastLoginRecorder{client: client}
}

// Touch records a successful login at ts (expires after lastLoginTTL).
func (l *LastLoginRecorder) Touch(ctx context.Context, userID string, ts time.Time) error {
	if err := l.client.Set(ctx, l.key(userID), ts.UTC().Format(time.RFC3339), lastLoginTTL).Err(); err != nil {
		return fmt.Errorf("record last login: %w", err)
	}
	return nil
}

func (l *LastLoginRecorder) key(userID string) string {
	return fmt.Sprintf("lastlogin:%s", userID)
}
