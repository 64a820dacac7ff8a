package gateway

import (
	"context"
	"time"
)

// DomainEvent é o envelope de tudo que o serviço anuncia para o mundo.
// O Name segue o formato "recurso.acao" (ex: "transfer.created") e vira
// a routing key no broker.
type DomainEvent struct {
	Name       string
	OccurredAt time.Time
	Payload    any
}

// EventPublisher publica eventos de domínio já comitados.
// Publicar NUNCA pode desfazer dinheiro: falha aqui é log, não rollback.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}
