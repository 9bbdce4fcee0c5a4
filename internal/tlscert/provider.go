package tlscert

import (
	"context"
	"fmt"
	"time"

	"go_sitebuilder/internal/cache"

	"github.com/go-redis/redis/v8"
)

// challengeTTL bounds how long an unanswered HTTP-01 token stays valid
const challengeTTL = 10 * time.Minute

// RedisHTTP01Provider satisfies lego's challenge.Provider by parking the
// keyAuth in Redis, where the public challenge endpoint serves it from.
// Works across multiple API instances since they share Redis.
type RedisHTTP01Provider struct {
	rdb *redis.Client
}

// NewRedisHTTP01Provider creates the provider
func NewRedisHTTP01Provider(rdb *redis.Client) *RedisHTTP01Provider {
	return &RedisHTTP01Provider{rdb: rdb}
}

// Present stores the challenge response for the token
func (p *RedisHTTP01Provider) Present(domain, token, keyAuth string) error {
	err := p.rdb.Set(context.Background(), cache.AcmeChallengeKey(token), keyAuth, challengeTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store http-01 challenge: %w", err)
	}
	return nil
}

// CleanUp removes the challenge response after validation
func (p *RedisHTTP01Provider) CleanUp(domain, token, keyAuth string) error {
	return p.rdb.Del(context.Background(), cache.AcmeChallengeKey(token)).Err()
}

// ChallengeResponse looks up the keyAuth for a token. Returns "" when
// the token is unknown or expired.
func ChallengeResponse(ctx context.Context, rdb *redis.Client, token string) string {
	val, err := rdb.Get(ctx, cache.AcmeChallengeKey(token)).Result()
	if err != nil {
		return ""
	}
	return val
}
