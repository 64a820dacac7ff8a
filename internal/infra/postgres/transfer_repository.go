package postgres

import (
	"context"
	"fmt"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/infra/postgres/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransferRepository struct {
	pool    *pgxpool.Pool
	queries *db.Queries
}

func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{
		pool:    pool,
		queries: db.New(pool),
	}
}

// Create insere o registro e devolve na própria entidade o ID (uuid do banco)
// e o CreatedAt gerados pelo insert.
func (r *TransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	row, err := r.queries.CreateTransfer(ctx, db.CreateTransferParams{
		FromWalletID: transfer.FromWalletID,
		ToWalletID:   transfer.ToWalletID,
		Amount:       transfer.Amount,
		Currency:     transfer.Currency,
		Status:       transfer.Status,
		Description:  textToPgType(optionalText(transfer.Description)),
		// A constraint parcial do banco garante unicidade só quando a chave existe
		IdempotencyKey: textToPgType(transfer.IdempotencyKey),
	})
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	transfer.ID = row.ID.String()
	transfer.CreatedAt = row.CreatedAt.Time
	return nil
}

func (r *TransferRepository) WithTx(tx gateway.TransactionObject) gateway.TransferRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &TransferRepository{
		pool:    r.pool,
		queries: r.queries.WithTx(pgTx),
	}
}

// optionalText trata string vazia como NULL no banco.
func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func textToPgType(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}
