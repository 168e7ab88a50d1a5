package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	Name         string `json:"name"`
	CPF          string `json:"cpf"`
	IdentityCode string `json:"identity_code"`
}

// GetCPF prefers cpf and falls back to identity_code
func (r *CreateAccountRequest) GetCPF() string {
	if r.CPF != "" {
		return r.CPF
	}
	return r.IdentityCode
}

func (r *CreateAccountRequest) Validate() error {
	if strings.TrimSpace(r.GetCPF()) == "" {
		return errors.New("cpf is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateAccountRequest struct {
	Name string `json:"name"`
}

func (r *UpdateAccountRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Amount is a pointer so an absent amount can be told apart from 0
type DepositRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	return validateAmount(r.Amount)
}

type WithdrawRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

func (r *WithdrawRequest) Validate() error {
	return validateAmount(r.Amount)
}

func validateAmount(amount *decimal.Decimal) error {
	if amount == nil {
		return errors.New("amount is required")
	}
	if amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	return nil
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type OperationResponse struct {
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Amount      json.Number `json:"amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

type CustomerResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	CPF          string              `json:"cpf"`
	IdentityCode string              `json:"identity_code"`
	Statement    []OperationResponse `json:"statement"`
}

// Number renders a decimal as a bare JSON number without float rounding
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func NewOperationResponses(statement []domain.Operation) []OperationResponse {
	response := make([]OperationResponse, len(statement))
	for i, op := range statement {
		response[i] = OperationResponse{
			Type:        string(op.Type),
			Description: op.Description,
			Amount:      Number(op.Amount),
			CreatedAt:   op.CreatedAt,
		}
	}
	return response
}

func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           customer.ID,
		Name:         customer.Name,
		CPF:          customer.CPF,
		IdentityCode: customer.CPF,
		Statement:    NewOperationResponses(customer.Statement),
	}
}

func NewCustomerResponses(customers []*domain.Customer) []CustomerResponse {
	response := make([]CustomerResponse, len(customers))
	for i, customer := range customers {
		response[i] = NewCustomerResponse(customer)
	}
	return response
}
