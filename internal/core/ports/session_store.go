package ports

import (
	"context"
	"time"
)

// SessionStore is the substrate that remembers which user a session id
// belongs to.
type SessionStore interface {
	Set(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	// Get returns domain.ErrSessionExpired when sessionID is unknown.
	Get(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}
