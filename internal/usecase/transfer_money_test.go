package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTxManager imita o Uow de verdade: injeta um "crachá" no contexto e
// devolve o erro de fn (o rollback/commit real é testado no pacote postgres).
type fakeTxManager struct {
	runs      int
	commitErr error
}

func (m *fakeTxManager) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	ctxWithTx := context.WithValue(ctx, gateway.TransactionKey, "fake-tx")
	if err := fn(ctxWithTx); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	return nil
}

func (m *fakeTxManager) RunWithOptions(ctx context.Context, _ gateway.TxOptions, fn func(ctx context.Context) error) error {
	return m.Run(ctx, fn)
}

type fakeWalletRepo struct {
	// wallets permite congelar ou trocar a moeda de uma carteira específica
	wallets   map[int64]*domain.Wallet
	lockErr   error
	debitErr  error
	creditErr error

	lockedIDs []int64
	debited   map[int64]int64
	credited  map[int64]int64
	boundToTx bool
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets:  map[int64]*domain.Wallet{},
		debited:  map[int64]int64{},
		credited: map[int64]int64{},
	}
}

func (r *fakeWalletRepo) walletOrDefault(id int64) *domain.Wallet {
	if w, ok := r.wallets[id]; ok {
		return w
	}
	return &domain.Wallet{ID: id, OwnerName: "Fulano", Currency: "BRL", Balance: 1000, Status: domain.WalletStatusActive}
}

func (r *fakeWalletRepo) Create(_ context.Context, params gateway.CreateWalletParams) (*domain.Wallet, error) {
	return &domain.Wallet{
		ID:        1,
		OwnerName: params.OwnerName,
		Currency:  params.Currency,
		Balance:   params.InitialBalance,
		Status:    domain.WalletStatusActive,
	}, nil
}

func (r *fakeWalletRepo) GetByID(_ context.Context, id int64) (*domain.Wallet, error) {
	return r.walletOrDefault(id), nil
}

func (r *fakeWalletRepo) GetForUpdate(_ context.Context, id int64) (*domain.Wallet, error) {
	if r.lockErr != nil {
		return nil, r.lockErr
	}
	r.lockedIDs = append(r.lockedIDs, id)
	return r.walletOrDefault(id), nil
}

func (r *fakeWalletRepo) Debit(_ context.Context, id int64, amount int64) error {
	if r.debitErr != nil {
		return r.debitErr
	}
	r.debited[id] += amount
	return nil
}

func (r *fakeWalletRepo) Credit(_ context.Context, id int64, amount int64) error {
	if r.creditErr != nil {
		return r.creditErr
	}
	r.credited[id] += amount
	return nil
}

func (r *fakeWalletRepo) WithTx(_ gateway.TransactionObject) gateway.WalletRepository {
	r.boundToTx = true
	return r
}

type fakeTransferRepo struct {
	createErr error
	created   *domain.Transfer
	boundToTx bool
}

func (r *fakeTransferRepo) Create(_ context.Context, transfer *domain.Transfer) error {
	if r.createErr != nil {
		return r.createErr
	}
	transfer.ID = "9f3a2c1e-0000-0000-0000-000000000001"
	r.created = transfer
	return nil
}

func (r *fakeTransferRepo) WithTx(_ gateway.TransactionObject) gateway.TransferRepository {
	r.boundToTx = true
	return r
}

type fakePublisher struct {
	publishErr error
	events     []gateway.DomainEvent
}

func (p *fakePublisher) Publish(_ context.Context, event gateway.DomainEvent) error {
	p.events = append(p.events, event)
	return p.publishErr
}

func TestTransferMoney_Success(t *testing.T) {
	walletRepo := newFakeWalletRepo()
	transferRepo := &fakeTransferRepo{}
	txManager := &fakeTxManager{}
	publisher := &fakePublisher{}

	uc := NewTransferMoney(walletRepo, transferRepo, txManager, publisher)

	output, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 2,
		ToWalletID:   1,
		Amount:       500,
		Description:  "aluguel",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, output.Status)
	assert.Equal(t, "BRL", output.Currency, "a moeda vem da carteira de origem")
	assert.NotEmpty(t, output.TransferID)

	assert.Equal(t, 1, txManager.runs, "toda a movimentação roda dentro de UM Run")
	assert.True(t, walletRepo.boundToTx, "repositório de carteira deve participar da transação")
	assert.True(t, transferRepo.boundToTx, "repositório de transferência deve participar da transação")

	// Lock ordenado: mesmo com origem=2 e destino=1, o ID menor trava primeiro
	assert.Equal(t, []int64{1, 2}, walletRepo.lockedIDs)

	assert.Equal(t, int64(500), walletRepo.debited[2])
	assert.Equal(t, int64(500), walletRepo.credited[1])

	require.NotNil(t, transferRepo.created)
	assert.Equal(t, "aluguel", transferRepo.created.Description)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "transfer.created", event.Name)
	payload, ok := event.Payload.(transferCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(2), payload.FromWalletID)
	assert.Equal(t, int64(500), payload.Amount)
	assert.Equal(t, "BRL", payload.Currency)
}

func TestTransferMoney_DomainValidationSkipsTransaction(t *testing.T) {
	tests := []struct {
		name    string
		input   TransferMoneyInput
		wantErr error
	}{
		{
			name:    "valor zero",
			input:   TransferMoneyInput{FromWalletID: 1, ToWalletID: 2, Amount: 0},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "mesma carteira",
			input:   TransferMoneyInput{FromWalletID: 3, ToWalletID: 3, Amount: 100},
			wantErr: domain.ErrSameWallet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txManager := &fakeTxManager{}
			uc := NewTransferMoney(newFakeWalletRepo(), &fakeTransferRepo{}, txManager, &fakePublisher{})

			_, err := uc.Execute(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, txManager.runs, "validação de domínio não pode abrir transação")
		})
	}
}

func TestTransferMoney_FrozenWalletBlocksBeforeDebit(t *testing.T) {
	walletRepo := newFakeWalletRepo()
	walletRepo.wallets[2] = &domain.Wallet{ID: 2, OwnerName: "Congelado", Currency: "BRL", Balance: 1000, Status: domain.WalletStatusFrozen}
	publisher := &fakePublisher{}

	uc := NewTransferMoney(walletRepo, &fakeTransferRepo{}, &fakeTxManager{}, publisher)

	_, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       100,
	})

	assert.ErrorIs(t, err, domain.ErrWalletFrozen)
	assert.Empty(t, walletRepo.debited, "carteira congelada barra antes de qualquer débito")
	assert.Empty(t, publisher.events)
}

func TestTransferMoney_CurrencyMismatch(t *testing.T) {
	walletRepo := newFakeWalletRepo()
	walletRepo.wallets[2] = &domain.Wallet{ID: 2, OwnerName: "Gringo", Currency: "USD", Balance: 1000, Status: domain.WalletStatusActive}

	uc := NewTransferMoney(walletRepo, &fakeTransferRepo{}, &fakeTxManager{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       100,
	})

	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
	assert.Empty(t, walletRepo.debited)
}

func TestTransferMoney_InsufficientFunds(t *testing.T) {
	walletRepo := newFakeWalletRepo()
	walletRepo.debitErr = domain.ErrInsufficientFunds
	publisher := &fakePublisher{}

	uc := NewTransferMoney(walletRepo, &fakeTransferRepo{}, &fakeTxManager{}, publisher)

	_, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       99999,
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Empty(t, publisher.events, "transferência que falhou não gera evento")
}

func TestTransferMoney_CommitFailure(t *testing.T) {
	commitErr := errors.New("commit went away")
	txManager := &fakeTxManager{commitErr: commitErr}
	publisher := &fakePublisher{}

	uc := NewTransferMoney(newFakeWalletRepo(), &fakeTransferRepo{}, txManager, publisher)

	_, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       100,
	})

	assert.ErrorIs(t, err, commitErr)
	assert.Empty(t, publisher.events, "sem commit, sem evento")
}

func TestTransferMoney_PublishFailureDoesNotFailTransfer(t *testing.T) {
	publisher := &fakePublisher{publishErr: errors.New("rabbit down")}

	uc := NewTransferMoney(newFakeWalletRepo(), &fakeTransferRepo{}, &fakeTxManager{}, publisher)

	output, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       100,
	})

	require.NoError(t, err, "falha no RabbitMQ não desfaz dinheiro já comitado")
	assert.Equal(t, domain.TransferStatusCompleted, output.Status)
}

func TestTransferMoney_NilPublisher(t *testing.T) {
	uc := NewTransferMoney(newFakeWalletRepo(), &fakeTransferRepo{}, &fakeTxManager{}, nil)

	output, err := uc.Execute(context.Background(), TransferMoneyInput{
		FromWalletID: 1,
		ToWalletID:   2,
		Amount:       100,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatusCompleted, output.Status)
}
