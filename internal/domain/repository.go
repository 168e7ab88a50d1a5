package domain

import "context"

// CustomerRepository is the ledger store. Implementations hand out copies;
// mutations go through Update so check-then-write sequences stay atomic.
type CustomerRepository interface {
	FindByCPF(ctx context.Context, cpf string) (*Customer, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	Insert(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, cpf string, fn func(customer *Customer) error) (*Customer, error)
	Remove(ctx context.Context, cpf string) error
	List(ctx context.Context) ([]*Customer, error)
}

type IdempotencyRepository interface {
	// Reserve returns false when key was already reserved
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
