package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
)

type GetWalletOutput struct {
	ID        int64  `json:"id"`
	Owner     string `json:"owner"`
	Currency  string `json:"currency"`
	Balance   int64  `json:"balance"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

type GetWalletUseCase struct {
	walletRepository gateway.WalletRepository
}

func NewGetWallet(walletRepo gateway.WalletRepository) *GetWalletUseCase {
	return &GetWalletUseCase{
		walletRepository: walletRepo,
	}
}

func (u *GetWalletUseCase) Execute(ctx context.Context, walletID int64) (*GetWalletOutput, error) {
	wallet, err := u.walletRepository.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao buscar carteira: %w", err)
	}

	return &GetWalletOutput{
		ID:        wallet.ID,
		Owner:     wallet.OwnerName,
		Currency:  wallet.Currency,
		Balance:   wallet.Balance,
		Status:    wallet.Status,
		UpdatedAt: wallet.UpdatedAt.Format(time.RFC3339),
	}, nil
}
