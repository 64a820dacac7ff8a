package domain

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("transfer amount must be greater than zero")
	ErrSameWallet        = errors.New("source and destination wallets must be different")
	ErrWalletFrozen      = errors.New("wallet is frozen")
	ErrCurrencyMismatch  = errors.New("wallets use different currencies")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrTransferNotFound  = errors.New("transfer not found")
	ErrIdempotencyKey    = errors.New("idempotency key conflict")
)
