package postgres

import (
	"context"
	"fmt"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// txBeginner é o contrato mínimo que o Uow precisa do pool.
// *pgxpool.Pool satisfaz; os testes usam um stub.
type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Uow implementa gateway.TransactionManager
type Uow struct {
	pool        txBeginner
	defaultOpts pgx.TxOptions
}

func NewUow(pool *pgxpool.Pool) *Uow {
	return &Uow{
		pool: pool,
		// ReadCommitted é o default do Postgres; quem precisar de mais
		// proteção usa RunWithOptions com Serializable.
		defaultOpts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
}

// Run executa uma função dentro de uma transação ACID.
// Se a função retornar erro (ou der panic), faz Rollback. Se sucesso, Commit.
func (u *Uow) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.run(ctx, u.defaultOpts, fn)
}

// RunWithOptions é o Run com isolamento/read-only escolhidos pelo caller.
func (u *Uow) RunWithOptions(ctx context.Context, opts gateway.TxOptions, fn func(ctx context.Context) error) error {
	return u.run(ctx, toPgxTxOptions(opts, u.defaultOpts), fn)
}

func (u *Uow) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	// Se o contexto já carrega uma transação, quem abriu é o dono do
	// Commit/Rollback. Rodamos fn direto para não abrir BEGIN aninhado.
	if gateway.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", gateway.ErrBeginTx, err)
	}

	// done marca que o caminho normal já resolveu a transação (commit ou
	// rollback). Se fn der panic, done continua false e o defer garante o
	// rollback ANTES do panic original continuar subindo para o caller.
	done := false
	defer func() {
		if done {
			return
		}
		// WithoutCancel: o rollback precisa rodar mesmo que o deadline do
		// caller já tenha estourado, senão a conexão volta suja pro pool.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			// Não podemos substituir o panic original por um erro de
			// rollback, então aqui a falha vira apenas log.
			log.Error().Err(rbErr).Msg("Rollback falhou durante panic na unidade de trabalho")
		}
	}()

	// Injeta a transação. Os repositórios se ligam a ela via WithTx.
	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, tx)

	if err := fn(ctxWithTx); err != nil {
		done = true
		// Mesmo raciocínio do defer: um ctx cancelado não pode impedir o
		// rollback de limpar a transação.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			// Rollback também falhou: o estado do banco é desconhecido.
			// Devolvemos as duas causas para o caller distinguir.
			return fmt.Errorf("%w: %w (original: %w)", gateway.ErrRollbackTx, rbErr, err)
		}
		return err
	}

	done = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", gateway.ErrCommitTx, err)
	}
	return nil
}

// toPgxTxOptions traduz as opções abstratas do gateway para o pgx.
func toPgxTxOptions(opts gateway.TxOptions, defaults pgx.TxOptions) pgx.TxOptions {
	out := defaults
	switch opts.IsoLevel {
	case gateway.IsoLevelReadCommitted:
		out.IsoLevel = pgx.ReadCommitted
	case gateway.IsoLevelRepeatableRead:
		out.IsoLevel = pgx.RepeatableRead
	case gateway.IsoLevelSerializable:
		out.IsoLevel = pgx.Serializable
	}
	if opts.ReadOnly {
		out.AccessMode = pgx.ReadOnly
	}
	return out
}
