package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigmile/ledger-service/internal/domain"
	memoryrepository "github.com/gigmile/ledger-service/internal/infrastructure/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByCPF(ctx context.Context, cpf string) (*domain.Customer, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Insert(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, cpf string, fn func(customer *domain.Customer) error) (*domain.Customer, error) {
	args := m.Called(ctx, cpf, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Remove(ctx context.Context, cpf string) error {
	args := m.Called(ctx, cpf)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Customer), args.Error(1)
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository
type MockIdempotencyRepository struct {
	mock.Mock
}

func (m *MockIdempotencyRepository) Reserve(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyRepository) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newMemoryService(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(
		memoryrepository.NewCustomerRepository(),
		memoryrepository.NewIdempotencyRepository(time.Hour),
		nil,
		time.UTC,
		zap.NewNop(),
	)
}

func TestCreateAccount_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newMemoryService(t)

	// Act
	customer, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, customer.ID)
	found, err := service.FindCustomer(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
	assert.Empty(t, found.Statement)
}

func TestCreateAccount_AlreadyExists(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewAccountService(mockCustomerRepo, new(MockIdempotencyRepository), nil, time.UTC, zap.NewNop())

	mockCustomerRepo.On("Insert", ctx, mock.AnythingOfType("*domain.Customer")).Return(domain.ErrCustomerAlreadyExists)

	// Act
	customer, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrCustomerAlreadyExists)
	assert.Nil(t, customer)
	mockCustomerRepo.AssertExpectations(t)
}

func TestCreateAccount_DuplicateDoesNotMutateStore(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	_, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	require.NoError(t, err)

	_, err = service.CreateAccount(ctx, CreateAccountRequest{Name: "Bob", CPF: "111"})

	assert.ErrorIs(t, err, domain.ErrCustomerAlreadyExists)
	found, _ := service.FindCustomer(ctx, "111")
	assert.Equal(t, "Alice", found.Name)
}

func TestCreateAccount_InvalidInput(t *testing.T) {
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewAccountService(mockCustomerRepo, nil, nil, time.UTC, zap.NewNop())

	_, err := service.CreateAccount(context.Background(), CreateAccountRequest{Name: "Alice"})

	assert.ErrorIs(t, err, domain.ErrInvalidCPF)
	mockCustomerRepo.AssertNotCalled(t, "Insert")
}

func TestCreateAccount_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewAccountService(mockCustomerRepo, nil, nil, time.UTC, zap.NewNop())
	mockCustomerRepo.On("Insert", ctx, mock.Anything).Return(errors.New("disk on fire"))

	_, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create customer")
}

func TestDepositThenBalance(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newMemoryService(t)
	_, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	require.NoError(t, err)

	// Act
	op, err := service.Deposit(ctx, DepositRequest{CPF: "111", Description: "salary", Amount: decimal.NewFromInt(1000)})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.OperationTypeCredit, op.Type)
	customer, _ := service.FindCustomer(ctx, "111")
	assert.True(t, decimal.NewFromInt(1000).Equal(service.Balance(customer)))
}

func TestDepositThenWithdraw(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	_, _ = service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	_, err := service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	op, err := service.Withdraw(ctx, WithdrawRequest{CPF: "111", Amount: decimal.NewFromInt(400)})

	require.NoError(t, err)
	assert.Equal(t, domain.OperationTypeDebit, op.Type)
	customer, _ := service.FindCustomer(ctx, "111")
	assert.True(t, decimal.NewFromInt(600).Equal(service.Balance(customer)))
}

func TestWithdraw_InsufficientFundsAppendsNothing(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	_, _ = service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	_, _ = service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(1000)})

	op, err := service.Withdraw(ctx, WithdrawRequest{CPF: "111", Amount: decimal.NewFromInt(2000)})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Nil(t, op)
	customer, _ := service.FindCustomer(ctx, "111")
	assert.Len(t, customer.Statement, 1)
	assert.True(t, decimal.NewFromInt(1000).Equal(service.Balance(customer)))
}

func TestDeposit_UnknownCustomer(t *testing.T) {
	service := newMemoryService(t)

	_, err := service.Deposit(context.Background(), DepositRequest{CPF: "nope", Amount: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeposit_UsesServiceClock(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	fixed := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }
	_, _ = service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	op, err := service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(5)})

	require.NoError(t, err)
	assert.Equal(t, fixed, op.CreatedAt)
}

func TestDeposit_DuplicateIdempotencyKey(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockCustomerRepo := new(MockCustomerRepository)
	mockIdempotencyRepo := new(MockIdempotencyRepository)
	service := NewAccountService(mockCustomerRepo, mockIdempotencyRepo, nil, time.UTC, zap.NewNop())

	mockIdempotencyRepo.On("Reserve", ctx, "111:req-1").Return(false, nil)

	// Act
	op, err := service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(10), IdempotencyKey: "req-1"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assert.Nil(t, op)
	mockIdempotencyRepo.AssertExpectations(t)
	mockCustomerRepo.AssertNotCalled(t, "Update")
}

func TestWithdraw_ReleasesIdempotencyKeyOnFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockCustomerRepo := new(MockCustomerRepository)
	mockIdempotencyRepo := new(MockIdempotencyRepository)
	service := NewAccountService(mockCustomerRepo, mockIdempotencyRepo, nil, time.UTC, zap.NewNop())

	mockIdempotencyRepo.On("Reserve", ctx, "111:req-2").Return(true, nil)
	mockCustomerRepo.On("Update", ctx, "111", mock.Anything).Return(nil, domain.ErrInsufficientFunds)
	mockIdempotencyRepo.On("Release", ctx, "111:req-2").Return(nil)

	// Act
	_, err := service.Withdraw(ctx, WithdrawRequest{CPF: "111", Amount: decimal.NewFromInt(10), IdempotencyKey: "req-2"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	mockCustomerRepo.AssertExpectations(t)
	mockIdempotencyRepo.AssertExpectations(t)
}

func TestDeposit_IdempotencyReserveFailure(t *testing.T) {
	ctx := context.Background()
	mockCustomerRepo := new(MockCustomerRepository)
	mockIdempotencyRepo := new(MockIdempotencyRepository)
	service := NewAccountService(mockCustomerRepo, mockIdempotencyRepo, nil, time.UTC, zap.NewNop())

	mockIdempotencyRepo.On("Reserve", ctx, "111:req-3").Return(false, errors.New("redis down"))

	_, err := service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(10), IdempotencyKey: "req-3"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reserve idempotency key")
	mockCustomerRepo.AssertNotCalled(t, "Update")
}

func TestDeposit_SameKeyAppendsOnce(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	_, _ = service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	req := DepositRequest{CPF: "111", Amount: decimal.NewFromInt(10), IdempotencyKey: "abc"}

	_, err := service.Deposit(ctx, req)
	require.NoError(t, err)
	_, err = service.Deposit(ctx, req)

	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	customer, _ := service.FindCustomer(ctx, "111")
	assert.Len(t, customer.Statement, 1)
}

func TestUpdateAccount(t *testing.T) {
	ctx := context.Background()
	service := newMemoryService(t)
	_, _ = service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	updated, err := service.UpdateAccount(ctx, "111", "Alicia")

	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "111", updated.CPF)
}

func TestDeleteAccount_ReturnsRemaining(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service := newMemoryService(t)
	for _, c := range []CreateAccountRequest{{"Alice", "111"}, {"Bob", "222"}, {"Carol", "333"}} {
		_, err := service.CreateAccount(ctx, c)
		require.NoError(t, err)
	}

	// Act
	remaining, err := service.DeleteAccount(ctx, "222")

	// Assert
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "111", remaining[0].CPF)
	assert.Equal(t, "333", remaining[1].CPF)
	_, err = service.FindCustomer(ctx, "222")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestStatementByDate(t *testing.T) {
	service := newMemoryService(t)
	day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	customer := &domain.Customer{
		CPF: "111",
		Statement: []domain.Operation{
			{Type: domain.OperationTypeCredit, Amount: decimal.NewFromInt(1), CreatedAt: day.Add(time.Hour)},
			{Type: domain.OperationTypeCredit, Amount: decimal.NewFromInt(2), CreatedAt: day.Add(30 * time.Hour)},
		},
	}

	filtered, err := service.StatementByDate(customer, "2024-03-15")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.True(t, decimal.NewFromInt(1).Equal(filtered[0].Amount))

	_, err = service.StatementByDate(customer, "15-03-2024")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestMutationsPublishEvents(t *testing.T) {
	// Arrange
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	published := make(chan string, 10)
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published <- args.Get(1).(domain.DomainEvent).GetEventType()
		}).
		Return(nil)

	service := NewAccountService(
		memoryrepository.NewCustomerRepository(),
		memoryrepository.NewIdempotencyRepository(time.Hour),
		publisher,
		time.UTC,
		zap.NewNop(),
	)

	// Act
	_, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})
	require.NoError(t, err)
	_, err = service.Deposit(ctx, DepositRequest{CPF: "111", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	// Assert
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case eventType := <-published:
			seen[eventType] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	assert.True(t, seen[domain.EventTypeAccountCreated])
	assert.True(t, seen[domain.EventTypeStatementCredited])
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockEventPublisher)
	done := make(chan struct{}, 1)
	publisher.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { done <- struct{}{} }).
		Return(errors.New("redis down"))

	service := NewAccountService(memoryrepository.NewCustomerRepository(), nil, publisher, time.UTC, zap.NewNop())

	_, err := service.CreateAccount(ctx, CreateAccountRequest{Name: "Alice", CPF: "111"})

	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish was never attempted")
	}
}
