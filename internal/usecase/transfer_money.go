package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/rs/zerolog/log"
)

// TransferMoneyInput carrega o pedido de transferência já destacado do HTTP.
type TransferMoneyInput struct {
	FromWalletID   int64
	ToWalletID     int64
	Amount         int64 // centavos
	Description    string
	IdempotencyKey *string
}

type TransferMoneyOutput struct {
	TransferID string
	Status     string
	Currency   string
}

// transferCreatedPayload é o corpo do evento "transfer.created".
type transferCreatedPayload struct {
	TransferID   string `json:"transfer_id"`
	FromWalletID int64  `json:"from_wallet_id"`
	ToWalletID   int64  `json:"to_wallet_id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type TransferMoneyUseCase struct {
	walletRepository   gateway.WalletRepository
	transferRepository gateway.TransferRepository
	transactionManager gateway.TransactionManager
	eventPublisher     gateway.EventPublisher
}

func NewTransferMoney(
	walletRepo gateway.WalletRepository,
	transferRepo gateway.TransferRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *TransferMoneyUseCase {
	return &TransferMoneyUseCase{
		walletRepository:   walletRepo,
		transferRepository: transferRepo,
		transactionManager: txManager,
		eventPublisher:     publisher,
	}
}

// Execute move o dinheiro numa única transação: trava as duas carteiras,
// valida as regras de negócio sob o lock, debita, credita e grava o
// histórico. Qualquer erro no meio desfaz tudo.
func (u *TransferMoneyUseCase) Execute(ctx context.Context, input TransferMoneyInput) (*TransferMoneyOutput, error) {
	// O que dá para validar sem banco, validamos antes do BEGIN
	transfer, err := domain.NewTransfer(input.FromWalletID, input.ToWalletID, input.Amount, input.Description, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	err = u.transactionManager.Run(ctx, func(txCtx context.Context) error {
		txObj := gateway.TxFromContext(txCtx)
		if txObj == nil {
			return fmt.Errorf("transaction missing from context")
		}

		walletRepoTx := u.walletRepository.WithTx(txObj)
		transferRepoTx := u.transferRepository.WithTx(txObj)

		// Lock pessimista sempre na mesma ordem (menor ID primeiro) para
		// que A->B e B->A concorrentes não entrem em deadlock.
		firstID, secondID := input.FromWalletID, input.ToWalletID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		firstWallet, err := walletRepoTx.GetForUpdate(txCtx, firstID)
		if err != nil {
			return fmt.Errorf("falha ao travar carteira %d: %w", firstID, err)
		}
		secondWallet, err := walletRepoTx.GetForUpdate(txCtx, secondID)
		if err != nil {
			return fmt.Errorf("falha ao travar carteira %d: %w", secondID, err)
		}

		// Desfaz a ordenação do lock para saber quem é origem e destino
		fromWallet, toWallet := firstWallet, secondWallet
		if firstID != input.FromWalletID {
			fromWallet, toWallet = secondWallet, firstWallet
		}

		// Congelamento e moeda são checados AQUI, com as linhas travadas:
		// ninguém congela a carteira entre a checagem e o débito.
		if err := transfer.BindParticipants(fromWallet, toWallet); err != nil {
			return err
		}

		// O saldo é verificado atomicamente dentro do próprio UPDATE
		if err := walletRepoTx.Debit(txCtx, input.FromWalletID, input.Amount); err != nil {
			return fmt.Errorf("falha no débito (origem %d): %w", input.FromWalletID, err)
		}

		if err := walletRepoTx.Credit(txCtx, input.ToWalletID, input.Amount); err != nil {
			return fmt.Errorf("falha no crédito (destino %d): %w", input.ToWalletID, err)
		}

		transfer.Complete()
		if err := transferRepoTx.Create(txCtx, transfer); err != nil {
			return fmt.Errorf("falha ao salvar histórico da transferência: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// O evento só sai DEPOIS do commit: nunca anunciamos dinheiro que não andou.
	if u.eventPublisher != nil {
		event := gateway.DomainEvent{
			Name:       "transfer.created",
			OccurredAt: time.Now().UTC(),
			Payload: transferCreatedPayload{
				TransferID:   transfer.ID,
				FromWalletID: transfer.FromWalletID,
				ToWalletID:   transfer.ToWalletID,
				Amount:       transfer.Amount,
				Currency:     transfer.Currency,
				Status:       transfer.Status,
			},
		}
		if err := u.eventPublisher.Publish(ctx, event); err != nil {
			// Falha no broker não desfaz a transferência; fica no log
			log.Error().Err(err).Str("transfer_id", transfer.ID).Msg("Falha ao publicar evento de transferência")
		}
	}

	return &TransferMoneyOutput{
		TransferID: transfer.ID,
		Status:     transfer.Status,
		Currency:   transfer.Currency,
	}, nil
}
