package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, number, supplier_id, order_date, COALESCE(expected_date, order_date), status,
	estimated_total, notes, user_id`

// PurchaseOrderRepo órdenes de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

func scanPurchaseOrder(s pgxScanner) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	if err := s.Scan(&po.ID, &po.Number, &po.SupplierID, &po.OrderDate, &po.ExpectedDate, &po.Status,
		&po.EstimatedTotal, &po.Notes, &po.UserID); err != nil {
		return nil, err
	}
	return &po, nil
}

// Create inserta cabecera y líneas. Llamar dentro de una tx.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	const q = `
		INSERT INTO purchase_orders (id, number, supplier_id, order_date, expected_date, status, estimated_total, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var expected any
	if !po.ExpectedDate.IsZero() {
		expected = po.ExpectedDate
	}
	_, err := r.q.Exec(ctx, q, po.ID, po.Number, po.SupplierID, po.OrderDate, expected, po.Status,
		po.EstimatedTotal, po.Notes, po.UserID)
	if err != nil {
		return mapWriteError("insert purchase order", "número de orden", po.Number, err)
	}
	const ql = `
		INSERT INTO purchase_order_lines (id, order_id, product_id, ordered_qty, received_qty, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, l := range po.Lines {
		if _, err := r.q.Exec(ctx, ql, l.ID, po.ID, l.ProductID, l.OrderedQty, l.ReceivedQty, l.UnitPrice, l.Subtotal); err != nil {
			return mapWriteError("insert purchase order line", "id", l.ID, err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, ordered_qty, received_qty, unit_price, subtotal
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.OrderedQty, &l.ReceivedQty, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		po.Lines = append(po.Lines, l)
	}
	return po, rows.Err()
}

// List órdenes filtradas por proveedor y estado (sin líneas).
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	p := f.ListParams.Normalize()
	q := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE ($1 = '' OR supplier_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY order_date DESC, number DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, q, f.SupplierID, f.Status, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("orden de compra", id)
	}
	return nil
}

// AddReceived suma qty a received_qty de la línea (orden, producto).
func (r *PurchaseOrderRepo) AddReceived(ctx context.Context, orderID, productID string, qty int) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE purchase_order_lines SET received_qty = received_qty + $3
		WHERE id = (
			SELECT id FROM purchase_order_lines
			WHERE order_id = $1 AND product_id = $2
			ORDER BY created_at LIMIT 1
		)`, orderID, productID, qty)
	if err != nil {
		return false, fmt.Errorf("add received quantity: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ── Recepciones ──────────────────────────────────────────────────────────────

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

const goodsReceiptColumns = `id, number, purchase_order_id, supplier_id, delivery_note, notes, user_id, received_at`

// GoodsReceiptRepo recepciones de mercadería (usable con pool o tx).
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

func scanGoodsReceipt(s pgxScanner) (*entity.GoodsReceipt, error) {
	var gr entity.GoodsReceipt
	if err := s.Scan(&gr.ID, &gr.Number, &gr.PurchaseOrderID, &gr.SupplierID, &gr.DeliveryNote, &gr.Notes,
		&gr.UserID, &gr.ReceivedAt); err != nil {
		return nil, err
	}
	return &gr, nil
}

// Create inserta la cabecera; un número repetido devuelve DuplicateKeyError.
func (r *GoodsReceiptRepo) Create(ctx context.Context, gr *entity.GoodsReceipt) error {
	const q = `INSERT INTO goods_receipts (` + goodsReceiptColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, q, gr.ID, gr.Number, gr.PurchaseOrderID, gr.SupplierID, gr.DeliveryNote, gr.Notes,
		gr.UserID, gr.ReceivedAt)
	if err != nil {
		return mapWriteError("insert goods receipt", "número de recepción", gr.Number, err)
	}
	return nil
}

// CreateLine inserta una línea de la recepción.
func (r *GoodsReceiptRepo) CreateLine(ctx context.Context, l *entity.GoodsReceiptLine) error {
	const q = `
		INSERT INTO goods_receipt_lines (id, receipt_id, product_id, quantity, unit_cost, lot, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, q, l.ID, l.ReceiptID, l.ProductID, l.Quantity, l.UnitCost, l.Lot, l.ExpiryDate); err != nil {
		return mapWriteError("insert goods receipt line", "id", l.ID, err)
	}
	return nil
}

// GetByID devuelve la recepción con sus líneas.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	gr, err := scanGoodsReceipt(r.q.QueryRow(ctx, `SELECT `+goodsReceiptColumns+` FROM goods_receipts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, receipt_id, product_id, quantity, unit_cost, lot, expiry_date
		FROM goods_receipt_lines WHERE receipt_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("get goods receipt lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.GoodsReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.Lot, &l.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan goods receipt line: %w", err)
		}
		gr.Lines = append(gr.Lines, l)
	}
	return gr, rows.Err()
}

// List recepciones filtradas por proveedor u orden (sin líneas).
func (r *GoodsReceiptRepo) List(ctx context.Context, supplierID, purchaseOrderID string, p repository.ListParams) ([]*entity.GoodsReceipt, error) {
	p = p.Normalize()
	q := `SELECT ` + goodsReceiptColumns + ` FROM goods_receipts
		WHERE ($1 = '' OR supplier_id::text = $1) AND ($2 = '' OR purchase_order_id::text = $2)
		ORDER BY received_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, q, supplierID, purchaseOrderID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceipt
	for rows.Next() {
		gr, err := scanGoodsReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, gr)
	}
	return list, rows.Err()
}
