package domain

import "time"

// Status possíveis de uma transferência.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// Transfer representa a movimentação de dinheiro entre duas carteiras.
// A moeda é herdada da carteira de origem em BindParticipants.
type Transfer struct {
	ID             string
	FromWalletID   int64
	ToWalletID     int64
	Amount         int64
	Currency       string
	Status         string
	Description    string
	IdempotencyKey *string
	CreatedAt      time.Time
}

// NewTransfer valida o que dá para validar sem olhar o banco.
// O ID e o CreatedAt são preenchidos pelo repositório na hora do insert.
func NewTransfer(fromWalletID, toWalletID, amount int64, description string, idempotencyKey *string) (*Transfer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromWalletID == toWalletID {
		return nil, ErrSameWallet
	}
	return &Transfer{
		FromWalletID:   fromWalletID,
		ToWalletID:     toWalletID,
		Amount:         amount,
		Status:         TransferStatusPending,
		Description:    description,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// BindParticipants valida as duas carteiras já travadas pelo lock pessimista
// e herda a moeda da origem. É aqui que congelamento e mistura de moedas
// barram a transferência, antes de qualquer débito.
func (t *Transfer) BindParticipants(from, to *Wallet) error {
	if !from.Active() || !to.Active() {
		return ErrWalletFrozen
	}
	if from.Currency != to.Currency {
		return ErrCurrencyMismatch
	}
	t.Currency = from.Currency
	return nil
}

// Complete marca a transferência como concluída após o débito/crédito.
func (t *Transfer) Complete() {
	t.Status = TransferStatusCompleted
}
