package gateway

import (
	"context"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
)

// CreateWalletParams concentra o que precisamos para abrir uma carteira.
type CreateWalletParams struct {
	OwnerName      string
	Currency       string
	InitialBalance int64
}

// WalletRepository é a porta de persistência de carteiras.
// O usecase enxerga só este contrato; Postgres mora em internal/infra.
type WalletRepository interface {
	Create(ctx context.Context, params CreateWalletParams) (*domain.Wallet, error)
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)

	// GetForUpdate trava a linha da carteira (SELECT ... FOR UPDATE) até o
	// fim da transação corrente. Só faz sentido chamado dentro de um Run.
	GetForUpdate(ctx context.Context, id int64) (*domain.Wallet, error)

	// Debit e Credit são atômicos: o guard de saldo/status roda no próprio SQL.
	Debit(ctx context.Context, id int64, amount int64) error
	Credit(ctx context.Context, id int64, amount int64) error

	// WithTx devolve uma cópia do repositório amarrada à transação aberta
	// pelo TransactionManager, para participar do mesmo BEGIN...COMMIT.
	WithTx(tx TransactionObject) WalletRepository
}
