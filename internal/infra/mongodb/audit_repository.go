package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const auditCollection = "transfer_audit"

// AuditLog é o documento de trilha: uma entrada por evento consumido.
// O ID vem do MessageId do broker, então redelivery vira erro de chave
// duplicada em vez de documento duplicado.
type AuditLog struct {
	ID          string    `bson:"_id,omitempty"`
	Event       string    `bson:"event"`
	TransferID  string    `bson:"transfer_id"`
	FromWallet  int64     `bson:"from_wallet"`
	ToWallet    int64     `bson:"to_wallet"`
	Amount      int64     `bson:"amount"`
	Currency    string    `bson:"currency"`
	Status      string    `bson:"status"`
	OccurredAt  time.Time `bson:"occurred_at"`
	ProcessedAt time.Time `bson:"processed_at"`
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	return &AuditRepository{
		collection: client.Database(dbName).Collection(auditCollection),
	}
}

func (r *AuditRepository) Save(ctx context.Context, entry AuditLog) error {
	entry.ProcessedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		// Redelivery do broker: a entrada já existe, nada a fazer
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
