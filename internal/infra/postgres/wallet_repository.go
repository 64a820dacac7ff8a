package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/postgres/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WalletRepository implementa gateway.WalletRepository em cima do sqlc.
type WalletRepository struct {
	pool    *pgxpool.Pool
	queries *db.Queries
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{
		pool:    pool,
		queries: db.New(pool),
	}
}

// Create abre a carteira já com dono, moeda e saldo inicial.
func (r *WalletRepository) Create(ctx context.Context, params gateway.CreateWalletParams) (*domain.Wallet, error) {
	row, err := r.queries.CreateWallet(ctx, db.CreateWalletParams{
		OwnerName: params.OwnerName,
		Currency:  params.Currency,
		Balance:   params.InitialBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return toDomainWallet(row), nil
}

func (r *WalletRepository) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	row, err := r.queries.GetWallet(ctx, id)
	if err != nil {
		// pgx usa pgx.ErrNoRows, não o sql.ErrNoRows do database/sql
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return toDomainWallet(row), nil
}

// GetForUpdate segura a linha até o fim da transação corrente.
// Quem chamar isso fora de um Run vai travar a linha pelo tempo do
// auto-commit, o que é inútil mas inofensivo.
func (r *WalletRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Wallet, error) {
	row, err := r.queries.GetWalletForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return toDomainWallet(row), nil
}

// Debit desconta com guard de saldo E status no próprio UPDATE.
func (r *WalletRepository) Debit(ctx context.Context, id int64, amount int64) error {
	rowsAffected, err := r.queries.DebitWallet(ctx, db.DebitWalletParams{
		Amount: amount,
		ID:     id,
	})
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	// Zero linhas: saldo não cobre ou a carteira não está ativa.
	// O status já foi validado sob lock pelo BindParticipants, então o que
	// sobra aqui é saldo insuficiente.
	if rowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// Credit só entra em carteira ativa; o guard de status roda no UPDATE.
func (r *WalletRepository) Credit(ctx context.Context, id int64, amount int64) error {
	rowsAffected, err := r.queries.CreditWallet(ctx, db.CreditWalletParams{
		Amount: amount,
		ID:     id,
	})
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	// A carteira existe (foi travada antes), então zero linhas aqui
	// significa status diferente de 'active'.
	if rowsAffected == 0 {
		return domain.ErrWalletFrozen
	}

	return nil
}

// WithTx devolve uma cópia cujas queries rodam dentro da transação dada.
func (r *WalletRepository) WithTx(tx gateway.TransactionObject) gateway.WalletRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &WalletRepository{
		pool:    r.pool,
		queries: r.queries.WithTx(pgTx),
	}
}

// toDomainWallet converte a linha do sqlc (pgtype) para a entidade pura.
func toDomainWallet(w db.Wallet) *domain.Wallet {
	return &domain.Wallet{
		ID:        w.ID,
		OwnerName: w.OwnerName,
		Currency:  w.Currency,
		Balance:   w.Balance,
		Status:    w.Status,
		Version:   w.Version,
		CreatedAt: w.CreatedAt.Time,
		UpdatedAt: w.UpdatedAt.Time,
	}
}
