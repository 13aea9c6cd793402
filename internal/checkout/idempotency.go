package checkout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// En-tête HTTP portant la clé de requête générée côté client.
const IdempotencyHeader = "Idempotency-Key"

const (
	idempotencyTTL     = 24 * time.Hour
	pendingPlaceholder = "__pending__"
)

// RedisIdempotency réserve les clés de soumission dans Redis (SETNX + TTL).
type RedisIdempotency struct {
	client *redis.Client
}

func NewRedisIdempotency(client *redis.Client) *RedisIdempotency {
	return &RedisIdempotency{client: client}
}

func (r *RedisIdempotency) key(requestID string) string {
	return "order:idem:" + requestID
}

func (r *RedisIdempotency) Reserve(ctx context.Context, requestID string) (string, bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(requestID), pendingPlaceholder, idempotencyTTL).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	// Clé déjà posée : soit la commande existe, soit elle est en cours
	val, err := r.client.Get(ctx, r.key(requestID)).Result()
	if err == redis.Nil || val == pendingPlaceholder {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, false, nil
}

func (r *RedisIdempotency) Commit(ctx context.Context, requestID, orderID string) error {
	return r.client.Set(ctx, r.key(requestID), orderID, idempotencyTTL).Err()
}
