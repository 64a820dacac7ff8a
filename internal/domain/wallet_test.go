package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeWallet(balance int64) *Wallet {
	return &Wallet{ID: 1, OwnerName: "Maria", Currency: "BRL", Balance: balance, Status: WalletStatusActive}
}

func TestWalletDebit(t *testing.T) {
	tests := []struct {
		name        string
		wallet      *Wallet
		amount      int64
		wantErr     error
		wantBalance int64
	}{
		{name: "saldo suficiente", wallet: activeWallet(1000), amount: 400, wantBalance: 600},
		{name: "saldo exato", wallet: activeWallet(1000), amount: 1000, wantBalance: 0},
		{name: "saldo insuficiente", wallet: activeWallet(100), amount: 101, wantErr: ErrInsufficientFunds, wantBalance: 100},
		{name: "valor zero", wallet: activeWallet(100), amount: 0, wantErr: ErrInvalidAmount, wantBalance: 100},
		{name: "valor negativo", wallet: activeWallet(100), amount: -10, wantErr: ErrInvalidAmount, wantBalance: 100},
		{
			name:        "carteira congelada não paga",
			wallet:      &Wallet{ID: 1, Currency: "BRL", Balance: 1000, Status: WalletStatusFrozen},
			amount:      100,
			wantErr:     ErrWalletFrozen,
			wantBalance: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wallet.Debit(tt.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, tt.wallet.Balance, "o saldo não pode mudar quando o débito falha")
		})
	}
}

func TestWalletCredit(t *testing.T) {
	w := activeWallet(500)

	require.NoError(t, w.Credit(250))
	assert.Equal(t, int64(750), w.Balance)

	assert.ErrorIs(t, w.Credit(0), ErrInvalidAmount)
	assert.ErrorIs(t, w.Credit(-5), ErrInvalidAmount)
	assert.Equal(t, int64(750), w.Balance)
}

func TestWalletCredit_FrozenDoesNotReceive(t *testing.T) {
	w := &Wallet{ID: 2, Currency: "BRL", Balance: 100, Status: WalletStatusFrozen}

	assert.ErrorIs(t, w.Credit(50), ErrWalletFrozen)
	assert.Equal(t, int64(100), w.Balance)
}

func TestWalletCanPay(t *testing.T) {
	w := activeWallet(100)
	assert.True(t, w.CanPay(100))
	assert.False(t, w.CanPay(101))

	w.Status = WalletStatusFrozen
	assert.False(t, w.CanPay(1), "carteira congelada nunca pode pagar")
}
