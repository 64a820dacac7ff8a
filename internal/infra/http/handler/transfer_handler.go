package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/usecase"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// TransferHandler expõe as operações de transferência via HTTP
type TransferHandler struct {
	transferUseCase *usecase.TransferMoneyUseCase
	validate        *validator.Validate
}

func NewTransferHandler(uc *usecase.TransferMoneyUseCase) *TransferHandler {
	return &TransferHandler{
		transferUseCase: uc,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
	}
}

type CreateTransferRequest struct {
	FromWalletID int64  `json:"from_wallet_id" validate:"required,gt=0"`
	ToWalletID   int64  `json:"to_wallet_id" validate:"required,gt=0,nefield=FromWalletID"`
	Amount       int64  `json:"amount" validate:"required,gt=0"` // centavos
	Description  string `json:"description" validate:"omitempty,max=140"`
}

type CreateTransferResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
	Currency   string `json:"currency"`
}

// Create processa a requisição de transferência
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	// Validação estrutural antes de chegar no UseCase
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido: "+err.Error())
		return
	}

	var idempotencyKeyPtr *string
	if idempotencyKey := r.Header.Get("Idempotency-Key"); idempotencyKey != "" {
		idempotencyKeyPtr = &idempotencyKey
	}

	output, err := h.transferUseCase.Execute(ctx, usecase.TransferMoneyInput{
		FromWalletID:   req.FromWalletID,
		ToWalletID:     req.ToWalletID,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: idempotencyKeyPtr,
	})
	if err != nil {
		// Erros de domínio viram status codes; o resto é 500
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			respondError(w, http.StatusNotFound, "Carteira não encontrada")
		case errors.Is(err, domain.ErrInsufficientFunds):
			respondError(w, http.StatusUnprocessableEntity, "Saldo insuficiente")
		case errors.Is(err, domain.ErrWalletFrozen):
			respondError(w, http.StatusUnprocessableEntity, "Carteira congelada não pode movimentar")
		case errors.Is(err, domain.ErrCurrencyMismatch):
			respondError(w, http.StatusUnprocessableEntity, "Carteiras de moedas diferentes")
		case errors.Is(err, domain.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Valor inválido")
		case errors.Is(err, domain.ErrSameWallet):
			respondError(w, http.StatusBadRequest, "Carteiras de origem e destino devem ser diferentes")
		default:
			log.Error().Err(err).Msg("Erro interno ao processar transferência")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreateTransferResponse{
		TransferID: output.TransferID,
		Status:     output.Status,
		Currency:   output.Currency,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
