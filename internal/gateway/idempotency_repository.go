package gateway

import (
	"context"
	"time"
)

// CachedResponse é a resposta HTTP congelada que devolvemos num retry.
// Headers guarda só o que precisa ser reproduzido (Content-Type etc),
// nunca o header set inteiro.
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string
}

// IdempotencyRepository é o cache de respostas por Idempotency-Key.
type IdempotencyRepository interface {
	// Get devolve a resposta congelada, ou nil sem erro no cache miss.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save congela a resposta pelo TTL dado.
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
