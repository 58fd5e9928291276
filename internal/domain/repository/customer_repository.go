package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error)
	List(ctx context.Context, search string, onlyActive bool) ([]*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, id string) error
	// AddPurchase incrementa los contadores de compras del cliente.
	AddPurchase(ctx context.Context, id string, amount decimal.Decimal) error
}
