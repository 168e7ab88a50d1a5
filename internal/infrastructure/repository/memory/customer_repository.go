package memoryrepository

import (
	"context"
	"sync"

	"github.com/gigmile/ledger-service/internal/domain"
)

// CustomerRepository keeps customers for the process lifetime, indexed by CPF.
// order records insertion order for listings.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	order     []string
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[string]*domain.Customer),
		order:     make([]string, 0),
	}
}

func (r *CustomerRepository) FindByCPF(ctx context.Context, cpf string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[cpf]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return customer.Clone(), nil
}

func (r *CustomerRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.customers[cpf]
	return ok, nil
}

// Insert fails with ErrCustomerAlreadyExists when the CPF is taken
func (r *CustomerRepository) Insert(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.CPF]; ok {
		return domain.ErrCustomerAlreadyExists
	}

	r.customers[customer.CPF] = customer.Clone()
	r.order = append(r.order, customer.CPF)
	return nil
}

// Update runs fn on a working copy under the write lock and commits it only
// when fn succeeds.
func (r *CustomerRepository) Update(ctx context.Context, cpf string, fn func(customer *domain.Customer) error) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.customers[cpf]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}

	working := stored.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	// identity fields are not mutable through Update
	working.ID = stored.ID
	working.CPF = stored.CPF

	r.customers[cpf] = working
	return working.Clone(), nil
}

func (r *CustomerRepository) Remove(ctx context.Context, cpf string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[cpf]; !ok {
		return domain.ErrCustomerNotFound
	}

	delete(r.customers, cpf)
	for i, c := range r.order {
		if c == cpf {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all customers in insertion order
func (r *CustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*domain.Customer, 0, len(r.order))
	for _, cpf := range r.order {
		customers = append(customers, r.customers[cpf].Clone())
	}
	return customers, nil
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)
