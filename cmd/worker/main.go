package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/mongodb"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	eventsExchange = "payflow.events"
	auditQueue     = "transfer_audit"
	auditDatabase  = "payflow_audit"
)

// eventEnvelope espelha o formato publicado pela API.
type eventEnvelope struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    transferPayload `json:"payload"`
}

type transferPayload struct {
	TransferID   string `json:"transfer_id"`
	FromWalletID int64  `json:"from_wallet_id"`
	ToWalletID   int64  `json:"to_wallet_id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// mustConnectMongo é obrigatório aqui: um worker de auditoria sem o
// banco de auditoria não tem o que fazer.
func mustConnectMongo() *mongo.Client {
	mongoURI := "mongodb://" + envOr("MONGO_USER", "root") + ":" + envOr("MONGO_PASS", "secret") +
		"@" + envOr("MONGO_HOST", "localhost") + ":27017"

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao criar client MongoDB")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("MongoDB não está respondendo")
	}
	log.Info().Msg("MongoDB conectado")
	return client
}

// declareAuditTopology garante exchange, fila e bind. Tudo idempotente:
// tanto faz se a API ou o worker sobe primeiro.
func declareAuditTopology(ch *amqp.Channel) (amqp.Queue, error) {
	if err := ch.ExchangeDeclare(eventsExchange, "topic", true, false, false, false, nil); err != nil {
		return amqp.Queue{}, err
	}

	q, err := ch.QueueDeclare(auditQueue, true, false, false, false, nil)
	if err != nil {
		return amqp.Queue{}, err
	}

	// Tudo de transferência interessa à auditoria
	if err := ch.QueueBind(q.Name, "transfer.#", eventsExchange, false, nil); err != nil {
		return amqp.Queue{}, err
	}
	return q, nil
}

// handleDelivery processa uma mensagem e decide o destino dela:
// Ack no sucesso, Nack sem requeue para lixo, Nack com requeue
// quando o Mongo pode se recuperar.
func handleDelivery(d amqp.Delivery, auditRepo *mongodb.AuditRepository) {
	var envelope eventEnvelope
	if err := json.Unmarshal(d.Body, &envelope); err != nil {
		log.Error().Err(err).Str("message_id", d.MessageId).Msg("Envelope ilegível, descartando")
		// JSON inválido nunca vai melhorar num retry
		if err := d.Nack(false, false); err != nil {
			log.Error().Err(err).Msg("Erro ao enviar Nack de descarte")
		}
		return
	}

	entry := mongodb.AuditLog{
		// MessageId do publisher vira o _id: redelivery não duplica trilha
		ID:         d.MessageId,
		Event:      envelope.Name,
		TransferID: envelope.Payload.TransferID,
		FromWallet: envelope.Payload.FromWalletID,
		ToWallet:   envelope.Payload.ToWalletID,
		Amount:     envelope.Payload.Amount,
		Currency:   envelope.Payload.Currency,
		Status:     envelope.Payload.Status,
		OccurredAt: envelope.OccurredAt,
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := auditRepo.Save(saveCtx, entry); err != nil {
		log.Error().Err(err).Str("transfer_id", entry.TransferID).Msg("Erro ao gravar trilha de auditoria")
		// Mongo pode voltar: devolve para a fila
		if err := d.Nack(false, true); err != nil {
			log.Error().Err(err).Msg("Erro ao enviar Nack com requeue")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Msg("Erro ao enviar Ack")
		return
	}
	log.Info().Str("event", envelope.Name).Str("transfer_id", entry.TransferID).Msg("Evento auditado")
}

func consume(msgs <-chan amqp.Delivery, notifyClose <-chan *amqp.Error, auditRepo *mongodb.AuditRepository) {
	for {
		select {
		case err := <-notifyClose:
			if err != nil {
				log.Error().Err(err).Msg("Canal RabbitMQ fechado, encerrando worker")
				// Sai com erro para o orquestrador reiniciar o processo
				os.Exit(1)
			}
			return
		case d, ok := <-msgs:
			if !ok {
				log.Error().Msg("Stream de mensagens encerrado")
				os.Exit(1)
			}
			handleDelivery(d, auditRepo)
		}
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	mongoClient := mustConnectMongo()
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Erro ao desconectar Mongo")
		}
	}()
	auditRepo := mongodb.NewAuditRepository(mongoClient, auditDatabase)

	rabbitURL := "amqp://" + envOr("RABBITMQ_USER", "guest") + ":" + envOr("RABBITMQ_PASS", "guest") +
		"@" + envOr("RABBITMQ_HOST", "localhost") + ":5672/"
	conn, err := amqp.DialConfig(rabbitURL, amqp.Config{
		Properties: amqp.Table{
			"connection_name": "payflow-audit-worker",
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar no RabbitMQ")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar conexão RabbitMQ")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao abrir canal")
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar canal RabbitMQ")
		}
	}()

	// Prefetch 1: uma mensagem por vez, Ack antes da próxima
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatal().Err(err).Msg("Erro ao configurar QoS")
	}

	q, err := declareAuditTopology(ch)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao montar topologia de auditoria")
	}

	// Ack manual: só confirmamos depois do Mongo gravar
	msgs, err := ch.Consume(q.Name, "audit-worker", false, false, false, false, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao registrar consumidor")
	}

	notifyClose := make(chan *amqp.Error)
	ch.NotifyClose(notifyClose)

	log.Info().Str("queue", q.Name).Msg("Worker de auditoria aguardando eventos")
	go consume(msgs, notifyClose, auditRepo)

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	log.Info().Msg("Encerrando worker de auditoria")
}
