package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/rs/zerolog/log"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	// headerReplay avisa o cliente que a resposta veio do cache, não do handler
	headerReplay = "X-Idempotency-Replay"

	cacheTTL = 24 * time.Hour
)

// responseRecorder duplica a escrita: cliente recebe normal, buffer guarda a
// cópia que vai pro cache.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency devolve a MESMA resposta para retries com a mesma chave.
// Política fail-open: se o cache estiver fora do ar, a requisição segue;
// melhor arriscar um retry duplicado (o banco tem a constraint única)
// do que derrubar a API junto com o Redis.
func Idempotency(store gateway.IdempotencyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(headerIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			cached, err := store.Get(ctx, key)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("Cache de idempotência indisponível, seguindo sem ele")
				next.ServeHTTP(w, r)
				return
			}

			// Replay: reproduz status, headers relevantes e corpo congelados
			if cached != nil {
				log.Info().Str("key", key).Int("status", cached.StatusCode).Msg("Replay de resposta idempotente")
				for name, values := range cached.Headers {
					for _, v := range values {
						w.Header().Add(name, v)
					}
				}
				w.Header().Set(headerReplay, "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.Body); err != nil {
					log.Error().Err(err).Msg("Falha ao reescrever resposta cacheada")
				}
				return
			}

			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(recorder, r)

			// 5xx fica de fora: o cliente PRECISA poder tentar de novo
			// quando o erro foi nosso.
			if recorder.statusCode >= 500 {
				return
			}

			frozen := gateway.CachedResponse{
				StatusCode: recorder.statusCode,
				Body:       recorder.body.Bytes(),
			}
			if ct := recorder.Header().Get("Content-Type"); ct != "" {
				frozen.Headers = map[string][]string{"Content-Type": {ct}}
			}

			if err := store.Save(ctx, key, frozen, cacheTTL); err != nil {
				log.Error().Err(err).Str("key", key).Msg("Falha ao congelar resposta idempotente")
			}
		})
	}
}
