package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
)

// TransferRepository grava o histórico de transferências.
// Create preenche ID e CreatedAt gerados pelo banco de volta na entidade.
type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.Transfer) error
	// WithTx segue o mesmo padrão da Wallet para participar da transação atômica
	WithTx(tx TransactionObject) TransferRepository
}
