package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/http/handler"
	internalMiddleware "github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/http/middleware"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/postgres"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/rabbitmq"
	redisInfra "github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/redis"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const eventsExchange = "payflow.events"

// envOr lê a variável de ambiente ou cai no default de dev local.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// mustConnectPostgres conecta e valida o pool; sem banco a API não sobe.
func mustConnectPostgres(ctx context.Context) *pgxpool.Pool {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = fmt.Sprintf("postgres://%s:%s@%s:5432/%s?sslmode=disable",
			envOr("DB_USER", "payflow"),
			envOr("DB_PASSWORD", "secret123"),
			envOr("DB_HOST", "localhost"),
			envOr("DB_NAME", "payflow"),
		)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Não foi possível criar o pool do Postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Postgres não está respondendo")
	}
	log.Info().Msg("Postgres conectado")
	return pool
}

// connectRedis é best-effort: sem Redis a API sobe, só sem idempotência.
func connectRedis(ctx context.Context) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: envOr("REDIS_HOST", "localhost") + ":6379",
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Redis indisponível, requisições seguirão sem cache de idempotência")
	} else {
		log.Info().Msg("Redis conectado")
	}
	return client
}

// setupEventPublisher conecta no broker, declara o exchange de eventos e
// devolve o publisher. Broker fora do ar não impede a API de subir:
// transferências continuam, só não são anunciadas.
func setupEventPublisher() (gateway.EventPublisher, func()) {
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:5672/",
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
	)

	conn, err := amqp.DialConfig(rabbitURL, amqp.Config{
		Properties: amqp.Table{
			// Identifica esta conexão no management UI do broker
			"connection_name": "payflow-api",
		},
	})
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ indisponível, eventos de domínio não serão publicados")
		return nil, func() {}
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		log.Warn().Err(err).Msg("Falha ao abrir canal no RabbitMQ")
		return nil, func() {}
	}

	// Topic exchange: consumers assinam "transfer.*" e afins
	err = ch.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		log.Warn().Err(err).Msg("Falha ao declarar exchange de eventos")
		return nil, func() {}
	}

	log.Info().Str("exchange", eventsExchange).Msg("RabbitMQ conectado")
	cleanup := func() {
		ch.Close()
		conn.Close()
	}
	return rabbitmq.NewPublisher(ch, eventsExchange), cleanup
}

func buildRouter(
	transferHandler *handler.TransferHandler,
	walletHandler *handler.WalletHandler,
	idempotencyMiddleware func(http.Handler) http.Handler,
) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(internalMiddleware.Metrics)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("Falha ao escrever resposta de health check")
		}
	})
	router.Handle("/metrics", promhttp.Handler())

	// Só a criação de transferência passa pela idempotência; leituras
	// já são naturalmente idempotentes.
	router.Group(func(r chi.Router) {
		r.Use(idempotencyMiddleware)
		r.Post("/transfers", transferHandler.Create)
	})
	router.Post("/wallets", walletHandler.Create)
	router.Get("/wallets/{id}", walletHandler.Get)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Em produção as variáveis vêm do ambiente; o .env é coisa de dev local
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	ctx := context.Background()

	dbPool := mustConnectPostgres(ctx)
	defer dbPool.Close()

	redisClient := connectRedis(ctx)

	eventPublisher, closeBroker := setupEventPublisher()
	defer closeBroker()

	// Infra -> UseCases -> Handlers, de dentro para fora
	walletRepository := postgres.NewWalletRepository(dbPool)
	transferRepository := postgres.NewTransferRepository(dbPool)
	uow := postgres.NewUow(dbPool)
	idempotencyRepo := redisInfra.NewIdempotencyRepository(redisClient)

	transferUseCase := usecase.NewTransferMoney(walletRepository, transferRepository, uow, eventPublisher)
	createWalletUseCase := usecase.NewCreateWallet(walletRepository)
	getWalletUseCase := usecase.NewGetWallet(walletRepository)

	transferHandler := handler.NewTransferHandler(transferUseCase)
	walletHandler := handler.NewWalletHandler(createWalletUseCase, getWalletUseCase)

	router := buildRouter(transferHandler, walletHandler, internalMiddleware.Idempotency(idempotencyRepo))

	server := &http.Server{
		Addr:    ":" + envOr("HTTP_PORT", "8080"),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("API de pagamentos no ar")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Falha ao iniciar servidor HTTP")
		}
	}()

	// Bloqueia até SIGINT/SIGTERM (Ctrl+C ou docker stop)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	log.Info().Msg("Desligando servidor HTTP...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown forçado do servidor HTTP")
	}
}
