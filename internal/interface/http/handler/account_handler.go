package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/ledger-service/internal/application/service"
	"github.com/gigmile/ledger-service/internal/interface/http/dto"
	"github.com/gigmile/ledger-service/internal/interface/http/middleware"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewAccountHandler(accountService *service.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetAccount returns the resolved customer. Answers 201 like the original API.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewCustomerResponse(customer))
}

// CreateAccount registers a customer; not gated by identity resolution
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	_, err := h.accountService.CreateAccount(r.Context(), service.CreateAccountRequest{
		Name: req.Name,
		CPF:  req.GetCPF(),
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondEmpty(w, http.StatusCreated)
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	if _, err := h.accountService.UpdateAccount(r.Context(), customer.CPF, req.Name); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondEmpty(w, http.StatusCreated)
}

// DeleteAccount removes the resolved customer and answers the remaining ones
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	remaining, err := h.accountService.DeleteAccount(r.Context(), customer.CPF)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponses(remaining))
}
