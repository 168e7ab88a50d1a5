package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidCPF            = errors.New("invalid cpf")
	ErrInvalidDate           = errors.New("invalid date")
	ErrDuplicateRequest      = errors.New("duplicate request")
)

type OperationType string

const (
	OperationTypeCredit OperationType = "credit"
	OperationTypeDebit  OperationType = "debit"
)

// Operation is a single statement entry. Entries are never changed once appended.
type Operation struct {
	Type        OperationType
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// Customer represents the account holder and owns its statement
type Customer struct {
	ID        string
	Name      string
	CPF       string
	Statement []Operation
}

// NewCustomer registers a holder with an empty statement
func NewCustomer(name, cpf string) (*Customer, error) {
	if strings.TrimSpace(cpf) == "" {
		return nil, ErrInvalidCPF
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	return &Customer{
		ID:        uuid.New().String(),
		Name:      name,
		CPF:       cpf,
		Statement: []Operation{},
	}, nil
}

// Rename replaces the display name. The CPF is immutable.
func (c *Customer) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	c.Name = name
	return nil
}

// Deposit appends a credit operation stamped with at
func (c *Customer) Deposit(description string, amount decimal.Decimal, at time.Time) (Operation, error) {
	if amount.IsNegative() {
		return Operation{}, ErrInvalidAmount
	}

	op := Operation{
		Type:        OperationTypeCredit,
		Description: description,
		Amount:      amount,
		CreatedAt:   at,
	}
	c.Statement = append(c.Statement, op)
	return op, nil
}

// Withdraw appends a debit operation when the balance covers amount.
// Debits carry no description.
func (c *Customer) Withdraw(amount decimal.Decimal, at time.Time) (Operation, error) {
	if amount.IsNegative() {
		return Operation{}, ErrInvalidAmount
	}

	if c.Balance().LessThan(amount) {
		return Operation{}, ErrInsufficientFunds
	}

	op := Operation{
		Type:      OperationTypeDebit,
		Amount:    amount,
		CreatedAt: at,
	}
	c.Statement = append(c.Statement, op)
	return op, nil
}

// Balance returns credits minus debits over the statement
func (c *Customer) Balance() decimal.Decimal {
	return ComputeBalance(c.Statement)
}

// Clone returns a deep copy so callers can't alias the stored statement.
func (c *Customer) Clone() *Customer {
	statement := make([]Operation, len(c.Statement))
	copy(statement, c.Statement)

	return &Customer{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Statement: statement,
	}
}
