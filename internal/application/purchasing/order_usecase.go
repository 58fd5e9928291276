// Package purchasing casos de uso de compras: órdenes de compra y facturas de proveedores.
package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// OrderUseCase alta, consulta y cambios de estado de órdenes de compra.
type OrderUseCase struct {
	txRunner repository.TxRunner
	orders   repository.PurchaseOrderRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner repository.TxRunner, orders repository.PurchaseOrderRepository, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{txRunner: txRunner, orders: orders, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	return uc
}

// Create registra la orden en estado pending con total estimado = Σ cantidad × precio.
// Sin número se asigna el siguiente OC-NNNNNN.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "El proveedor es obligatorio")
	}
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "La orden debe tener al menos una línea")
	}

	today := uc.now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		Number:       strings.TrimSpace(in.Number),
		SupplierID:   in.SupplierID,
		OrderDate:    today,
		ExpectedDate: today,
		Status:       entity.POStatusPending,
		Notes:        in.Notes,
	}
	if in.OrderDate != nil {
		po.OrderDate = in.OrderDate.Time
	}
	if in.ExpectedDate != nil {
		po.ExpectedDate = in.ExpectedDate.Time
	}
	if po.ExpectedDate.Before(po.OrderDate) {
		return nil, domain.NewValidationError("expected_date", "La fecha esperada no puede ser anterior a la fecha de la orden")
	}
	if userID != "" {
		po.UserID = &userID
	}

	total := decimal.Zero
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "El producto es obligatorio")
		}
		if l.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "La cantidad debe ser mayor a cero")
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].unit_price", i), "El precio no puede ser negativo")
		}
		sub := decimal.NewFromInt(int64(l.Quantity)).Mul(l.UnitPrice)
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ID:         uuid.New().String(),
			OrderID:    po.ID,
			ProductID:  l.ProductID,
			OrderedQty: l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   sub,
		})
		total = total.Add(sub)
	}
	po.EstimatedTotal = total

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		supplier, err := tx.Suppliers().GetByID(ctx, po.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NewNotFound("proveedor", po.SupplierID)
		}
		for _, l := range po.Lines {
			p, err := tx.Products().GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NewNotFound("producto", l.ProductID)
			}
		}
		if po.Number == "" {
			n, err := tx.Counters().Next(ctx, entity.SeriesPurchaseOrder)
			if err != nil {
				return err
			}
			po.Number = entity.FormatCorrelative(entity.SeriesPurchaseOrder, n)
		}
		return tx.PurchaseOrders().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order", po.Number).Str("estimated_total", po.EstimatedTotal.StringFixed(2)).Msg("orden de compra creada")
	out := dto.PurchaseOrderFromEntity(po)
	return &out, nil
}

// Get orden con sus líneas y pendientes.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.PurchaseOrderFromEntity(po)
	return &out, nil
}

// List órdenes filtradas por proveedor y estado.
func (uc *OrderUseCase) List(ctx context.Context, q dto.PurchaseOrderListQuery) ([]dto.PurchaseOrderResponse, error) {
	if q.Status != "" && !entity.IsValidPOStatus(q.Status) {
		return nil, domain.NewValidationError("status", "Estado inválido")
	}
	list, err := uc.orders.List(ctx, repository.PurchaseOrderFilter{
		SupplierID: q.SupplierID,
		Status:     q.Status,
		ListParams: repository.ListParams{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, dto.PurchaseOrderFromEntity(po))
	}
	return out, nil
}

// UpdateStatus aplica un cambio de estado permitido:
// pending -> partial|complete|cancelled, partial -> complete|cancelled.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdatePurchaseOrderStatusRequest) (*dto.PurchaseOrderResponse, error) {
	if !entity.IsValidPOStatus(in.Status) {
		return nil, domain.NewValidationError("status", "Estado inválido")
	}
	po, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !po.CanTransitionTo(in.Status) {
		return nil, &domain.InvalidStateTransitionError{Resource: "orden de compra", From: po.Status, To: in.Status}
	}
	if err := uc.orders.UpdateStatus(ctx, po.ID, in.Status); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order", po.Number).Str("from", po.Status).Str("to", in.Status).Msg("orden de compra: cambio de estado")
	po.Status = in.Status
	out := dto.PurchaseOrderFromEntity(po)
	return &out, nil
}

func (uc *OrderUseCase) load(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NewNotFound("orden de compra", id)
	}
	return po, nil
}
