package postback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prizelink/prizelink-backend/pkg/redis"
)

// DedupGuard is the Redis fast path in front of the store's conditional
// write. It is advisory only: a guard hit short-circuits obvious retries, but
// the unique insert on the registration row stays authoritative.
type DedupGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewDedupGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*DedupGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &DedupGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// CheckAndMark claims the dedup key, reporting true when another delivery
// already holds it.
func (g *DedupGuard) CheckAndMark(ctx context.Context, dedupKey string) (bool, error) {
	if dedupKey == "" {
		return false, errors.New("dedup key is required")
	}
	key := g.store.IdempotencyKey(g.scope, dedupKey)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set dedup key: %w", err)
	}
	return !set, nil
}

// Release drops the claim so a retry of a failed write is not mistaken for a
// duplicate.
func (g *DedupGuard) Release(ctx context.Context, dedupKey string) error {
	if dedupKey == "" {
		return errors.New("dedup key is required")
	}
	key := g.store.IdempotencyKey(g.scope, dedupKey)
	return g.store.Del(ctx, key)
}
