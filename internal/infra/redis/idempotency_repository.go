package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/redis/go-redis/v9"
)

// keyPrefix separa nosso namespace de qualquer outra coisa no mesmo Redis.
const keyPrefix = "payflow:idem:"

// IdempotencyRepository guarda respostas congeladas como JSON com TTL.
type IdempotencyRepository struct {
	client *redis.Client
}

func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

// Get devolve (nil, nil) no cache miss; erro só quando o Redis falha de verdade.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*gateway.CachedResponse, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency cache: %w", err)
	}

	var cached gateway.CachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		// Entrada corrompida vale o mesmo que erro: o middleware decide
		// se segue sem cache.
		return nil, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &cached, nil
}

func (r *IdempotencyRepository) Save(ctx context.Context, key string, response gateway.CachedResponse, ttl time.Duration) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to encode response for cache: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency cache: %w", err)
	}
	return nil
}
