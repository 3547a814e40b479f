package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Idempotency backends accepted in EventConfig.IdempotencyBackend
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewIdempotencyStore builds the store named by cfg.IdempotencyBackend.
// An empty backend selects memory.
func NewIdempotencyStore(ctx context.Context, cfg config.EventConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.IdempotencyBackend)) {
	case "", BackendMemory:
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	case BackendRedis:
		addr := redisCfg.Addr()
		store, err := NewRedisIdempotencyStore(ctx, addr, redisCfg.Password, redisCfg.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis idempotency store", zap.String("addr", addr), zap.Int("db", redisCfg.DB))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q (want %s or %s)",
			cfg.IdempotencyBackend, BackendMemory, BackendRedis)
	}
}
