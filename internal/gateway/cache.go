package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "gwstatus"

// CachedGateway decorates a Gateway with a short-lived redis cache so a manual
// pass triggered right after a scheduled one does not re-hit the bank for
// every slip. Cache failures degrade to direct gateway calls, never errors.
type CachedGateway struct {
	inner Gateway
	redis redis.Cmdable
	ttl   time.Duration
}

// NewCachedGateway wraps gw with a redis-backed status cache.
func NewCachedGateway(gw Gateway, rdb redis.Cmdable, ttl time.Duration) *CachedGateway {
	return &CachedGateway{inner: gw, redis: rdb, ttl: ttl}
}

func (g *CachedGateway) CheckStatus(ctx context.Context, nossoNumero string) (*StatusResult, error) {
	if g.redis != nil {
		val, err := g.redis.Get(ctx, cacheKey(nossoNumero)).Result()
		if err == nil {
			var cached StatusResult
			if json.Unmarshal([]byte(val), &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			zap.L().Warn("gateway status cache lookup failed", zap.Error(err))
		}
	}

	result, err := g.inner.CheckStatus(ctx, nossoNumero)
	if err != nil {
		return nil, err
	}

	// Only successful lookups are cached; gateway-reported failures should be
	// retried on the next pass.
	if g.redis != nil && result.Success {
		payload, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			zap.L().Warn("marshal gateway status cache entry", zap.Error(marshalErr))
			return result, nil
		}
		if setErr := g.redis.Set(ctx, cacheKey(nossoNumero), payload, g.ttl).Err(); setErr != nil {
			zap.L().Warn("gateway status cache set failed", zap.Error(setErr))
		}
	}
	return result, nil
}

func cacheKey(nossoNumero string) string {
	return fmt.Sprintf("%s:%s", cacheKeyPrefix, nossoNumero)
}
