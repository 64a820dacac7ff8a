package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// eventEnvelope é o formato no fio. O consumer lê Name para rotear e
// OccurredAt para ordenar; Payload é opaco até lá.
type eventEnvelope struct {
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Publisher envia eventos de domínio para um topic exchange.
// O Name do evento vira a routing key, então "transfer.created" casa
// com bindings tipo "transfer.*".
type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{channel: ch, exchange: exchange}
}

func (p *Publisher) Publish(ctx context.Context, event gateway.DomainEvent) error {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(eventEnvelope{
		Name:       event.Name,
		OccurredAt: occurredAt,
		Payload:    event.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event.Name, err)
	}

	// MessageId único permite dedupe no consumer em caso de redelivery
	messageID := uuid.NewString()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		event.Name, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    occurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent, // sobrevive a restart do broker
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %q: %w", event.Name, err)
	}

	log.Info().Str("event", event.Name).Str("message_id", messageID).Msg("Evento de domínio publicado")
	return nil
}
