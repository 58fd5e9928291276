package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ProductID string
	Type      string
	UserID    string
	From      *time.Time
	To        *time.Time
	Search    string // sobre la descripción
	OrderBy   string // "created_at" (default, descendente) o "quantity"
	ListParams
}

// StockMovementRepository persistencia append-only de movimientos. No existe Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	// SumByProduct suma firmada (in - out) de todos los movimientos del producto.
	SumByProduct(ctx context.Context, productID string) (int, error)
}
