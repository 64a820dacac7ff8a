package gateway

import (
	"context"
	"errors"
)

// TransactionObject é o "crachá" opaco que carrega a transação do banco
type TransactionObject interface{}

// IsoLevel define o nível de isolamento da transação sem acoplar o usecase
// ao driver do banco. O mapeamento para o driver acontece na camada de infra.
type IsoLevel string

const (
	IsoLevelReadCommitted  IsoLevel = "read committed"
	IsoLevelRepeatableRead IsoLevel = "repeatable read"
	IsoLevelSerializable   IsoLevel = "serializable"
)

// TxOptions configura a transação que o TransactionManager vai abrir.
// Campos vazios usam o default do manager (ReadCommitted, leitura/escrita).
type TxOptions struct {
	IsoLevel IsoLevel
	ReadOnly bool
}

// Erros sentinela do ciclo de vida da transação.
// O caller usa errors.Is para distinguir "begin falhou" de "commit falhou"
// de "o rollback também falhou e o estado do banco é desconhecido".
var (
	ErrBeginTx    = errors.New("failed to begin transaction")
	ErrCommitTx   = errors.New("failed to commit transaction")
	ErrRollbackTx = errors.New("failed to rollback transaction")
)

// TransactionManager define quem sabe iniciar/comitar transações (UoW).
//
// Contrato do Run:
//   - fn retornou nil -> Commit (uma única vez).
//   - fn retornou erro -> Rollback e o erro original é devolvido.
//     Se o Rollback também falhar, o erro devolvido carrega as duas causas.
//   - fn deu panic -> Rollback e o panic original continua subindo intacto.
//   - Se o ctx já carrega uma transação aberta, fn roda dentro dela e o
//     Begin/Commit/Rollback fica por conta do Run mais externo (sem nesting).
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
	RunWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error
}

// TransactionKeyType evita colisão de chaves no contexto
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"

// TxFromContext recupera o "crachá" da transação injetado pelo Run.
// Retorna nil se o contexto não estiver dentro de uma transação.
func TxFromContext(ctx context.Context) TransactionObject {
	return ctx.Value(TransactionKey)
}
