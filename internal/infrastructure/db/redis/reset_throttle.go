package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const defaultThrottleWindow = 5 * time.Minute

// ResetThrottle allows one password reset mail per address per window.
// Key format: reset:throttle:<sha256(lower(email))>
type ResetThrottle struct {
	client redis.Cmdable
	window time.Duration
}

// NewResetThrottle wraps client. A non-positive window falls back to five minutes.
func NewResetThrottle(client redis.Cmdable, window time.Duration) *ResetThrottle {
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &ResetThrottle{client: client, window: window}
}

var _ ports.ResetThrottle = (*ResetThrottle)(nil)

// Allow claims the window for email. It reports false while an earlier claim
// is still live.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, throttleKey(email), time.Now().UTC().Unix(), t.window).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle: %w", err)
	}
	return ok, nil
}

// Addresses are hashed so the keyspace never holds raw emails.
func throttleKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "reset:throttle:" + hex.EncodeToString(sum[:])
}
