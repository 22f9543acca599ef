package revocations

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "revoked:"

// RedisRepository stores one key per revoked jti with a TTL equal to the
// token's remaining lifetime, so entries vanish when the token would expire.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func redisKey(jti string) string {
	return redisKeyPrefix + jti
}

// Revoke claims the key with SET NX. A token that has already expired is
// not stored; it cannot be presented again anyway.
func (r *RedisRepository) Revoke(ctx context.Context, token models.RevokedToken) (bool, error) {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return true, nil
	}
	ok, err := r.client.SetNX(ctx, redisKey(token.ID), strconv.FormatInt(token.UserID, 10), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return ok, nil
}

func (r *RedisRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}
