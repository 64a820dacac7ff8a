package domain

import (
	"time"
)

// Status possíveis de uma carteira. Carteira congelada (compliance,
// suspeita de fraude) não movimenta dinheiro em NENHUMA direção.
const (
	WalletStatusActive = "active"
	WalletStatusFrozen = "frozen"
)

// Wallet é a conta interna de um usuário do PayFlow.
// Entidade pura: não conhece JSON, SQL nem driver nenhum.
type Wallet struct {
	ID        int64
	OwnerName string
	Currency  string // ISO 4217 (BRL, USD, EUR...)
	Balance   int64  // Sempre em centavos, nunca float
	Status    string
	Version   int32 // Reservado para lock otimista, se um dia precisarmos
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) Active() bool {
	return w.Status == WalletStatusActive
}

// CanPay responde se a carteira cobre o valor sem ficar negativa.
// É um pré-cheque barato; a garantia final é o guard de saldo no SQL.
func (w *Wallet) CanPay(amount int64) bool {
	return w.Active() && w.Balance >= amount
}

// Debit tira dinheiro da carteira respeitando status e saldo.
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !w.Active() {
		return ErrWalletFrozen
	}
	if w.Balance < amount {
		return ErrInsufficientFunds
	}
	w.Balance -= amount
	return nil
}

// Credit coloca dinheiro na carteira. Congelada também não recebe,
// senão viraria rota de lavagem com a conta travada.
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !w.Active() {
		return ErrWalletFrozen
	}
	w.Balance += amount
	return nil
}
