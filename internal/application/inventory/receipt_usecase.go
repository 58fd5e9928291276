package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// ReceiptUseCase procesa recepciones de mercadería: actualiza costos, registra entradas de stock
// y acumula lo recibido en la orden de compra asociada. Todo en una transacción.
type ReceiptUseCase struct {
	txRunner repository.TxRunner
	ledger   *Ledger
	receipts repository.GoodsReceiptRepository
	cache    ports.Cache
	log      *logger.Logger
	markup   decimal.Decimal
	now      func() time.Time
}

// NewReceiptUseCase construye el caso de uso. markup cero usa el 30% por defecto.
func NewReceiptUseCase(
	txRunner repository.TxRunner,
	ledger *Ledger,
	receipts repository.GoodsReceiptRepository,
	cache ports.Cache,
	log *logger.Logger,
	markup decimal.Decimal,
) *ReceiptUseCase {
	if cache == nil {
		cache = ports.NoopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReceiptUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		receipts: receipts,
		cache:    cache,
		log:      log,
		markup:   markup,
		now:      time.Now,
	}
}

// Create registra la recepción completa. Cualquier error descarta todo (cabecera, líneas, costos y stock).
func (uc *ReceiptUseCase) Create(ctx context.Context, userID string, in dto.CreateGoodsReceiptRequest) (*dto.GoodsReceiptResponse, error) {
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "El proveedor es obligatorio")
	}
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("lines", "La recepción debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].product_id", i), "El producto es obligatorio")
		}
		if l.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].quantity", i), "La cantidad debe ser mayor a cero")
		}
		if l.UnitCost != nil && l.UnitCost.IsNegative() {
			return nil, domain.NewValidationError(fmt.Sprintf("lines[%d].unit_cost", i), "El costo no puede ser negativo")
		}
	}

	receipt := &entity.GoodsReceipt{
		ID:              uuid.New().String(),
		Number:          strings.TrimSpace(in.Number),
		PurchaseOrderID: in.PurchaseOrderID,
		SupplierID:      in.SupplierID,
		DeliveryNote:    in.DeliveryNote,
		Notes:           in.Notes,
		UserID:          optionalUser(userID),
		ReceivedAt:      uc.now(),
	}
	var skipped []string

	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		supplier, err := tx.Suppliers().GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.NewNotFound("proveedor", in.SupplierID)
		}
		var po *entity.PurchaseOrder
		if in.PurchaseOrderID != nil && *in.PurchaseOrderID != "" {
			if po, err = tx.PurchaseOrders().GetByID(ctx, *in.PurchaseOrderID); err != nil {
				return err
			}
			if po == nil {
				return domain.NewNotFound("orden de compra", *in.PurchaseOrderID)
			}
		} else {
			receipt.PurchaseOrderID = nil
		}

		if receipt.Number == "" {
			n, err := tx.Counters().Next(ctx, entity.SeriesGoodsReceipt)
			if err != nil {
				return err
			}
			receipt.Number = entity.FormatCorrelative(entity.SeriesGoodsReceipt, n)
		}
		if err := tx.GoodsReceipts().Create(ctx, receipt); err != nil {
			return err
		}

		for i, l := range in.Lines {
			product, err := tx.Products().GetForUpdate(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NewNotFound("producto", l.ProductID)
			}
			line := entity.GoodsReceiptLine{
				ID:         uuid.New().String(),
				ReceiptID:  receipt.ID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitCost:   l.UnitCost,
				Lot:        l.Lot,
				ExpiryDate: l.ExpiryDate.Ptr(),
			}
			if err := tx.GoodsReceipts().CreateLine(ctx, &line); err != nil {
				return fmt.Errorf("línea %d: %w", i, err)
			}
			if line.HasUnitCost() {
				cost := *line.UnitCost
				if err := tx.Products().UpdateCosting(ctx, product.ID, cost, domaininv.MarkupPrice(cost, uc.markup)); err != nil {
					return err
				}
			}
			if _, _, err := uc.ledger.RecordMovement(ctx, tx, MovementInput{
				ProductID:     l.ProductID,
				Type:          entity.MovementTypeIn,
				Quantity:      l.Quantity,
				Description:   "Recepción #" + receipt.Number,
				UserID:        receipt.UserID,
				ReferenceType: entity.ReferenceGoodsReceipt,
				ReferenceID:   receipt.ID,
			}); err != nil {
				return err
			}
			if po != nil {
				found, err := tx.PurchaseOrders().AddReceived(ctx, po.ID, l.ProductID, l.Quantity)
				if err != nil {
					return err
				}
				if !found {
					skipped = append(skipped, l.ProductID)
				}
			}
			receipt.Lines = append(receipt.Lines, line)
		}

		if po != nil {
			return refreshOrderStatus(ctx, tx, po.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(skipped) > 0 {
		uc.log.Warn().Str("receipt", receipt.Number).Strs("products", skipped).
			Msg("recepción: productos sin línea en la orden de compra")
	}
	uc.log.Info().Str("receipt", receipt.Number).Int("lines", len(receipt.Lines)).Msg("recepción registrada")
	if err := uc.cache.Delete(ctx, ports.CacheKeyProductDropdown, ports.CacheKeyDashboardSummary); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de productos y tablero")
	}

	out := dto.GoodsReceiptFromEntity(receipt)
	return &out, nil
}

// Get recepción con sus líneas.
func (uc *ReceiptUseCase) Get(ctx context.Context, id string) (*dto.GoodsReceiptResponse, error) {
	gr, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gr == nil {
		return nil, domain.NewNotFound("recepción", id)
	}
	out := dto.GoodsReceiptFromEntity(gr)
	return &out, nil
}

// List recepciones filtradas por proveedor u orden.
func (uc *ReceiptUseCase) List(ctx context.Context, supplierID, purchaseOrderID string, page dto.PageRequest) ([]dto.GoodsReceiptResponse, error) {
	list, err := uc.receipts.List(ctx, supplierID, purchaseOrderID, repository.ListParams{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.GoodsReceiptResponse, 0, len(list))
	for _, gr := range list {
		out = append(out, dto.GoodsReceiptFromEntity(gr))
	}
	return out, nil
}

// refreshOrderStatus recalcula pending/partial/complete a partir de lo recibido. Una orden cancelada no cambia.
func refreshOrderStatus(ctx context.Context, tx repository.Tx, orderID string) error {
	po, err := tx.PurchaseOrders().GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if po == nil {
		return domain.NewNotFound("orden de compra", orderID)
	}
	next := po.StatusFromLines()
	if next == po.Status {
		return nil
	}
	return tx.PurchaseOrders().UpdateStatus(ctx, po.ID, next)
}
