// Package inventory contiene el libro de movimientos de stock y los casos de uso que lo usan
// (ajustes manuales, recepción de mercadería, reposición).
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// MovementInput datos de un movimiento a registrar.
type MovementInput struct {
	ProductID     string
	Type          string // entity.MovementTypeIn | entity.MovementTypeOut
	Quantity      int
	Description   string
	UserID        *string
	ReferenceType string
	ReferenceID   string
}

// Ledger libro de movimientos de stock. Es el único componente que modifica products.stock:
// cada movimiento se inserta y aplica al stock dentro de la transacción del caller.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el libro con el reloj del sistema.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// RecordMovement inserta el movimiento y ajusta el stock en la misma transacción.
// Una salida sin stock suficiente no modifica nada y devuelve *domain.InsufficientStockError.
func (l *Ledger) RecordMovement(ctx context.Context, tx repository.Tx, in MovementInput) (*entity.StockMovement, int, error) {
	if in.Quantity <= 0 {
		return nil, 0, domain.NewValidationError("quantity", "La cantidad debe ser mayor a cero")
	}
	if !entity.IsValidMovementType(in.Type) {
		return nil, 0, domain.NewValidationError("type", fmt.Sprintf("Tipo de movimiento inválido: %q", in.Type))
	}
	if in.ProductID == "" {
		return nil, 0, domain.NewValidationError("product_id", "El producto es obligatorio")
	}

	var (
		newStock int
		ok       bool
		err      error
	)
	if in.Type == entity.MovementTypeIn {
		newStock, ok, err = tx.Stock().Increase(ctx, in.ProductID, in.Quantity)
	} else {
		newStock, ok, err = tx.Stock().DecreaseIfAvailable(ctx, in.ProductID, in.Quantity)
	}
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		product, err := tx.Products().GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, domain.NewNotFound("producto", in.ProductID)
		}
		return nil, 0, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   in.Quantity,
		}
	}

	m := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		Description:   in.Description,
		UserID:        in.UserID,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedAt:     l.now(),
	}
	if m.ReferenceType == "" {
		m.ReferenceType = entity.ReferenceManual
	}
	if err := tx.Movements().Create(ctx, m); err != nil {
		return nil, 0, err
	}
	return m, newStock, nil
}

// StockBelowMinimum productos activos con stock <= stock mínimo, ordenados por nombre.
func (l *Ledger) StockBelowMinimum(ctx context.Context, products repository.ProductRepository) ([]*entity.Product, error) {
	return products.BelowMinimum(ctx)
}
