package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransfer(t *testing.T) {
	key := "abc-123"

	t.Run("transferência válida nasce pendente", func(t *testing.T) {
		transfer, err := NewTransfer(1, 2, 1000, "aluguel", &key)

		require.NoError(t, err)
		assert.Equal(t, TransferStatusPending, transfer.Status)
		assert.Equal(t, int64(1), transfer.FromWalletID)
		assert.Equal(t, int64(2), transfer.ToWalletID)
		assert.Equal(t, "aluguel", transfer.Description)
		assert.Equal(t, &key, transfer.IdempotencyKey)
		assert.Empty(t, transfer.Currency, "a moeda só é conhecida depois do BindParticipants")
	})

	t.Run("valor inválido", func(t *testing.T) {
		_, err := NewTransfer(1, 2, 0, "", nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = NewTransfer(1, 2, -100, "", nil)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("mesma carteira de origem e destino", func(t *testing.T) {
		_, err := NewTransfer(7, 7, 100, "", nil)
		assert.ErrorIs(t, err, ErrSameWallet)
	})
}

func TestTransferBindParticipants(t *testing.T) {
	newWallet := func(id int64, currency, status string) *Wallet {
		return &Wallet{ID: id, Currency: currency, Balance: 1000, Status: status}
	}

	t.Run("herda a moeda da origem", func(t *testing.T) {
		transfer, err := NewTransfer(1, 2, 100, "", nil)
		require.NoError(t, err)

		err = transfer.BindParticipants(
			newWallet(1, "BRL", WalletStatusActive),
			newWallet(2, "BRL", WalletStatusActive),
		)

		require.NoError(t, err)
		assert.Equal(t, "BRL", transfer.Currency)
	})

	t.Run("origem congelada", func(t *testing.T) {
		transfer, _ := NewTransfer(1, 2, 100, "", nil)
		err := transfer.BindParticipants(
			newWallet(1, "BRL", WalletStatusFrozen),
			newWallet(2, "BRL", WalletStatusActive),
		)
		assert.ErrorIs(t, err, ErrWalletFrozen)
	})

	t.Run("destino congelado", func(t *testing.T) {
		transfer, _ := NewTransfer(1, 2, 100, "", nil)
		err := transfer.BindParticipants(
			newWallet(1, "BRL", WalletStatusActive),
			newWallet(2, "BRL", WalletStatusFrozen),
		)
		assert.ErrorIs(t, err, ErrWalletFrozen)
	})

	t.Run("moedas diferentes", func(t *testing.T) {
		transfer, _ := NewTransfer(1, 2, 100, "", nil)
		err := transfer.BindParticipants(
			newWallet(1, "BRL", WalletStatusActive),
			newWallet(2, "USD", WalletStatusActive),
		)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
		assert.Empty(t, transfer.Currency)
	})
}

func TestTransferComplete(t *testing.T) {
	transfer, err := NewTransfer(1, 2, 100, "", nil)
	require.NoError(t, err)

	transfer.Complete()
	assert.Equal(t, TransferStatusCompleted, transfer.Status)
}
