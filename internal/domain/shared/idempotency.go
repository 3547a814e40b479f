package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event ids a handler has already seen
type IdempotencyStore interface {
	// MarkProcessed records eventID for ttl. It returns false when the id
	// was already recorded.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	Close() error
}

// DefaultIdempotencyTTL is how long a handled posting event id is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns an enabled config with DefaultIdempotencyTTL
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: DefaultIdempotencyTTL, Enabled: true}
}
