package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gigmile/ledger-service/internal/application/service"
	"github.com/gigmile/ledger-service/internal/interface/http/dto"
	"github.com/gigmile/ledger-service/internal/interface/http/middleware"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type StatementHandler struct {
	accountService *service.AccountService
	logger         *zap.Logger
}

func NewStatementHandler(accountService *service.AccountService, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetBalance answers the balance as a bare JSON number
func (h *StatementHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, dto.Number(h.accountService.Balance(customer)))
}

func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewOperationResponses(customer.Statement))
}

// GetStatementByDate handles GET /statement/date?date=YYYY-MM-DD
func (h *StatementHandler) GetStatementByDate(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	date := r.URL.Query().Get("date")
	statement, err := h.accountService.StatementByDate(customer, date)
	if err != nil {
		h.logger.Debug("invalid statement date",
			zap.String("cpf", customer.CPF),
			zap.String("date", date),
		)
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewOperationResponses(statement))
}

func (h *StatementHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	_, err := h.accountService.Deposit(r.Context(), service.DepositRequest{
		CPF:            customer.CPF,
		Description:    req.Description,
		Amount:         *req.Amount,
		IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondEmpty(w, http.StatusCreated)
}

// Withdraw rejects amounts above the balance with 400 and appends nothing
func (h *StatementHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	customer, ok := middleware.CustomerFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "Customer not found", nil)
		return
	}

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	_, err := h.accountService.Withdraw(r.Context(), service.WithdrawRequest{
		CPF:            customer.CPF,
		Amount:         *req.Amount,
		IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondEmpty(w, http.StatusCreated)
}
