package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
)

// defaultCurrency vale quando o cliente não manda moeda nenhuma.
const defaultCurrency = "BRL"

type CreateWalletInput struct {
	OwnerName      string
	Currency       string
	InitialBalance int64
}

type CreateWalletOutput struct {
	ID       int64
	Owner    string
	Currency string
	Balance  int64
	Status   string
}

type CreateWalletUseCase struct {
	walletRepo gateway.WalletRepository
}

func NewCreateWallet(walletRepo gateway.WalletRepository) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		walletRepo: walletRepo,
	}
}

// Execute abre a carteira. Um insert só, sem transação: o banco já
// garante a atomicidade e os defaults (status ativo, versão zero).
func (uc *CreateWalletUseCase) Execute(ctx context.Context, input CreateWalletInput) (*CreateWalletOutput, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	wallet, err := uc.walletRepo.Create(ctx, gateway.CreateWalletParams{
		OwnerName:      strings.TrimSpace(input.OwnerName),
		Currency:       currency,
		InitialBalance: input.InitialBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar carteira: %w", err)
	}

	return &CreateWalletOutput{
		ID:       wallet.ID,
		Owner:    wallet.OwnerName,
		Currency: wallet.Currency,
		Balance:  wallet.Balance,
		Status:   wallet.Status,
	}, nil
}
