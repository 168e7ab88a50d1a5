package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gigmile/ledger-service/internal/domain"
	"github.com/gigmile/ledger-service/internal/interface/http/dto"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type contextKey string

const ContextCustomer contextKey = "customer"

// CustomerResolver looks a customer up by CPF
type CustomerResolver interface {
	FindCustomer(ctx context.Context, cpf string) (*domain.Customer, error)
}

// ResolveCustomer reads the CPF from header and puts the matching customer in
// the request context. Unknown CPFs are answered with 400 and next is never called.
func ResolveCustomer(resolver CustomerResolver, header string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cpf := r.Header.Get(header)

			customer, err := resolver.FindCustomer(r.Context(), cpf)
			if err != nil {
				if errors.Is(err, domain.ErrCustomerNotFound) {
					logger.Debug("customer not found", zap.String("cpf", cpf))
					render.Status(r, http.StatusBadRequest)
					render.JSON(w, r, dto.ErrorResponse{Error: "Customer not found"})
					return
				}

				logger.Error("failed to resolve customer", zap.Error(err), zap.String("cpf", cpf))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, dto.ErrorResponse{Error: "internal server error"})
				return
			}

			ctx := context.WithValue(r.Context(), ContextCustomer, customer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CustomerFromContext(ctx context.Context) (*domain.Customer, bool) {
	customer, ok := ctx.Value(ContextCustomer).(*domain.Customer)
	return customer, ok && customer != nil
}
