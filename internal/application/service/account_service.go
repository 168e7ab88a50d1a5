package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ledgerOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Total number of statement operations appended",
	},
	[]string{"type"},
)

type AccountService struct {
	customerRepo    domain.CustomerRepository
	idempotencyRepo domain.IdempotencyRepository
	eventPublisher  domain.EventPublisher // Optional - can be nil
	location        *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

// NewAccountService creates the ledger service. location decides which
// calendar day an operation falls on when filtering statements.
func NewAccountService(
	customerRepo domain.CustomerRepository,
	idempotencyRepo domain.IdempotencyRepository,
	eventPublisher domain.EventPublisher,
	location *time.Location,
	logger *zap.Logger,
) *AccountService {
	if location == nil {
		location = time.Local
	}
	return &AccountService{
		customerRepo:    customerRepo,
		idempotencyRepo: idempotencyRepo,
		eventPublisher:  eventPublisher,
		location:        location,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock replaces the clock used to stamp new operations
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

type CreateAccountRequest struct {
	Name string
	CPF  string
}

type DepositRequest struct {
	CPF            string
	Description    string
	Amount         decimal.Decimal
	IdempotencyKey string
}

type WithdrawRequest struct {
	CPF            string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// FindCustomer resolves a CPF to its customer
func (s *AccountService) FindCustomer(ctx context.Context, cpf string) (*domain.Customer, error) {
	return s.customerRepo.FindByCPF(ctx, cpf)
}

func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(req.Name, req.CPF)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Insert(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrCustomerAlreadyExists) {
			s.logger.Info("customer already exists", zap.String("cpf", req.CPF))
			return nil, err
		}
		s.logger.Error("failed to create customer", zap.Error(err), zap.String("cpf", req.CPF))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID),
		zap.String("cpf", customer.CPF),
	)

	s.publish(domain.NewAccountEvent(domain.EventTypeAccountCreated, customer))

	return customer, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, cpf, name string) (*domain.Customer, error) {
	customer, err := s.customerRepo.Update(ctx, cpf, func(c *domain.Customer) error {
		return c.Rename(name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", zap.String("cpf", cpf))
	s.publish(domain.NewAccountEvent(domain.EventTypeAccountUpdated, customer))

	return customer, nil
}

// DeleteAccount removes the customer and returns the ones left, in insertion order
func (s *AccountService) DeleteAccount(ctx context.Context, cpf string) ([]*domain.Customer, error) {
	customer, err := s.customerRepo.FindByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Remove(ctx, cpf); err != nil {
		return nil, err
	}

	s.logger.Info("customer deleted",
		zap.String("customer_id", customer.ID),
		zap.String("cpf", cpf),
	)
	s.publish(domain.NewAccountEvent(domain.EventTypeAccountDeleted, customer))

	remaining, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return remaining, nil
}

func (s *AccountService) Balance(customer *domain.Customer) decimal.Decimal {
	return domain.ComputeBalance(customer.Statement)
}

// StatementByDate parses date (YYYY-MM-DD) in the ledger location and filters the statement by it
func (s *AccountService) StatementByDate(customer *domain.Customer, date string) ([]domain.Operation, error) {
	day, err := domain.ParseStatementDate(date, s.location)
	if err != nil {
		return nil, err
	}
	return domain.FilterByDate(customer.Statement, day), nil
}

func (s *AccountService) Deposit(ctx context.Context, req DepositRequest) (*domain.Operation, error) {
	return s.appendOperation(ctx, req.CPF, req.IdempotencyKey, func(c *domain.Customer, at time.Time) (domain.Operation, error) {
		return c.Deposit(req.Description, req.Amount, at)
	})
}

// Withdraw appends a debit. The balance check and the append happen under the
// store lock, so two concurrent withdrawals can't overdraw the account.
func (s *AccountService) Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Operation, error) {
	return s.appendOperation(ctx, req.CPF, req.IdempotencyKey, func(c *domain.Customer, at time.Time) (domain.Operation, error) {
		return c.Withdraw(req.Amount, at)
	})
}

func (s *AccountService) appendOperation(
	ctx context.Context,
	cpf string,
	idempotencyKey string,
	apply func(c *domain.Customer, at time.Time) (domain.Operation, error),
) (*domain.Operation, error) {
	if idempotencyKey != "" {
		reserved, err := s.idempotencyRepo.Reserve(ctx, s.scopedKey(cpf, idempotencyKey))
		if err != nil {
			s.logger.Error("failed to reserve idempotency key",
				zap.Error(err),
				zap.String("cpf", cpf),
			)
			return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
		}
		if !reserved {
			s.logger.Info("duplicate request detected",
				zap.String("cpf", cpf),
				zap.String("idempotency_key", idempotencyKey),
			)
			return nil, domain.ErrDuplicateRequest
		}
	}

	var op domain.Operation
	customer, err := s.customerRepo.Update(ctx, cpf, func(c *domain.Customer) error {
		var applyErr error
		op, applyErr = apply(c, s.now())
		return applyErr
	})
	if err != nil {
		if idempotencyKey != "" {
			if releaseErr := s.idempotencyRepo.Release(ctx, s.scopedKey(cpf, idempotencyKey)); releaseErr != nil {
				s.logger.Warn("failed to release idempotency key", zap.Error(releaseErr))
			}
		}
		s.logger.Info("operation rejected",
			zap.Error(err),
			zap.String("cpf", cpf),
		)
		return nil, err
	}

	ledgerOperations.WithLabelValues(string(op.Type)).Inc()

	s.logger.Info("operation appended",
		zap.String("cpf", cpf),
		zap.String("type", string(op.Type)),
		zap.String("amount", op.Amount.String()),
		zap.String("balance", customer.Balance().String()),
	)

	s.publish(domain.NewStatementEvent(customer, op))

	return &op, nil
}

func (s *AccountService) scopedKey(cpf, key string) string {
	return fmt.Sprintf("%s:%s", cpf, key)
}

// publish sends the event in the background; failures never fail the request
func (s *AccountService) publish(event domain.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish ledger event",
				zap.Error(err),
				zap.String("event_type", event.GetEventType()),
				zap.String("event_id", event.GetEventID()),
			)
			return
		}

		s.logger.Debug("ledger event published",
			zap.String("event_type", event.GetEventType()),
			zap.String("event_id", event.GetEventID()),
		)
	}()
}
