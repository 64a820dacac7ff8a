package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/domain"
	"github.com/Guilherme-G-Cadilhe/Go-PayFlow-Payments-API-Microservices/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type WalletHandler struct {
	createWalletUC *usecase.CreateWalletUseCase
	getWalletUC    *usecase.GetWalletUseCase
	validate       *validator.Validate
}

func NewWalletHandler(createWalletUC *usecase.CreateWalletUseCase, getWalletUC *usecase.GetWalletUseCase) *WalletHandler {
	return &WalletHandler{
		createWalletUC: createWalletUC,
		getWalletUC:    getWalletUC,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

type CreateWalletRequest struct {
	OwnerName      string `json:"owner_name" validate:"required,min=2,max=120"`
	Currency       string `json:"currency" validate:"omitempty,len=3,alpha"` // ISO 4217, default BRL
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
}

type CreateWalletResponse struct {
	ID       int64  `json:"id"`
	Owner    string `json:"owner"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
	Status   string `json:"status"`
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido: "+err.Error())
		return
	}

	output, err := h.createWalletUC.Execute(r.Context(), usecase.CreateWalletInput{
		OwnerName:      req.OwnerName,
		Currency:       req.Currency,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		log.Error().Err(err).Msg("Falha ao criar carteira")
		respondError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	respondJSON(w, http.StatusCreated, CreateWalletResponse{
		ID:       output.ID,
		Owner:    output.Owner,
		Currency: output.Currency,
		Balance:  output.Balance,
		Status:   output.Status,
	})
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	// chi.URLParam extrai o {id} da rota
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	output, err := h.getWalletUC.Execute(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			respondError(w, http.StatusNotFound, "Carteira não encontrada")
			return
		}
		log.Error().Err(err).Msg("Falha ao buscar carteira")
		respondError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	respondJSON(w, http.StatusOK, output)
}
