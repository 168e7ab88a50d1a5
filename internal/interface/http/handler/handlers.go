package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gigmile/ledger-service/internal/application/service"
	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/gigmile/ledger-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

type Handlers struct {
	Account   *AccountHandler
	Statement *StatementHandler
	Health    *HealthHandler
}

func NewHandlers(accountService *service.AccountService, logger *zap.Logger) *Handlers {
	return &Handlers{
		Account:   NewAccountHandler(accountService, logger),
		Statement: NewStatementHandler(accountService, logger),
		Health:    &HealthHandler{},
	}
}

type HealthHandler struct{}

// HealthCheck handles health check endpoint
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
	}

	if err != nil && err.Error() != message {
		response.Message = err.Error()
	}

	respondJSON(w, status, response)
}

// respondDomainError maps domain sentinels onto status codes and wire messages
func respondDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
	case errors.Is(err, domain.ErrCustomerAlreadyExists):
		respondError(w, http.StatusBadRequest, "Customer already exists", nil)
	case errors.Is(err, domain.ErrInsufficientFunds):
		respondError(w, http.StatusBadRequest, "Insufficient funds", nil)
	case errors.Is(err, domain.ErrDuplicateRequest):
		respondError(w, http.StatusConflict, "duplicate request", nil)
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCPF),
		errors.Is(err, domain.ErrInvalidDate):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		logger.Error("unexpected error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
