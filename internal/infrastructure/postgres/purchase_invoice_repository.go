package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.PurchaseInvoiceRepository = (*PurchaseInvoiceRepo)(nil)

const purchaseInvoiceColumns = `id, number, supplier_id, purchase_order_id, issue_date, due_date, type, status,
	subtotal, discount, tax, total, stamp, payment_terms, notes, attachment_url, user_id, received_at, updated_at`

// PurchaseInvoiceRepo facturas de compra sobre PostgreSQL (usable con pool o tx).
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

func scanPurchaseInvoice(s pgxScanner) (*entity.PurchaseInvoice, error) {
	var p entity.PurchaseInvoice
	if err := s.Scan(&p.ID, &p.Number, &p.SupplierID, &p.PurchaseOrderID, &p.IssueDate, &p.DueDate, &p.Type,
		&p.Status, &p.Subtotal, &p.Discount, &p.Tax, &p.Total, &p.Stamp, &p.PaymentTerms, &p.Notes,
		&p.AttachmentURL, &p.UserID, &p.ReceivedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta cabecera y líneas. Llamar dentro de una tx.
func (r *PurchaseInvoiceRepo) Create(ctx context.Context, p *entity.PurchaseInvoice) error {
	const q = `
		INSERT INTO purchase_invoices (` + purchaseInvoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, q, p.ID, p.Number, p.SupplierID, p.PurchaseOrderID, p.IssueDate, p.DueDate, p.Type,
		p.Status, p.Subtotal, p.Discount, p.Tax, p.Total, p.Stamp, p.PaymentTerms, p.Notes,
		p.AttachmentURL, p.UserID, p.ReceivedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteError("insert purchase invoice", "número de factura", p.Number, err)
	}
	return r.insertLines(ctx, p)
}

func (r *PurchaseInvoiceRepo) insertLines(ctx context.Context, p *entity.PurchaseInvoice) error {
	const q = `
		INSERT INTO purchase_invoice_lines (id, invoice_id, product_id, description, quantity, unit_price, subtotal, lot, lot_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range p.Lines {
		_, err := r.q.Exec(ctx, q, l.ID, p.ID, nullIfEmpty(l.ProductID), l.Description, l.Quantity, l.UnitPrice,
			l.Subtotal, l.Lot, l.LotExpiry)
		if err != nil {
			return mapWriteError("insert purchase invoice line", "id", l.ID, err)
		}
	}
	return nil
}

// Update reescribe la cabecera y, si replaceLines, reemplaza todas las líneas.
func (r *PurchaseInvoiceRepo) Update(ctx context.Context, p *entity.PurchaseInvoice, replaceLines bool) error {
	const q = `
		UPDATE purchase_invoices SET number = $2, supplier_id = $3, purchase_order_id = $4, issue_date = $5,
			due_date = $6, type = $7, status = $8, subtotal = $9, discount = $10, tax = $11, total = $12,
			stamp = $13, payment_terms = $14, notes = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, p.ID, p.Number, p.SupplierID, p.PurchaseOrderID, p.IssueDate, p.DueDate, p.Type,
		p.Status, p.Subtotal, p.Discount, p.Tax, p.Total, p.Stamp, p.PaymentTerms, p.Notes, p.UpdatedAt)
	if err != nil {
		return mapWriteError("update purchase invoice", "número de factura", p.Number, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("factura de compra", p.ID)
	}
	if !replaceLines {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_invoice_lines WHERE invoice_id = $1`, p.ID); err != nil {
		return fmt.Errorf("delete purchase invoice lines: %w", err)
	}
	return r.insertLines(ctx, p)
}

// GetByID devuelve la factura con sus líneas.
func (r *PurchaseInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseInvoice, error) {
	return r.get(ctx, `SELECT `+purchaseInvoiceColumns+` FROM purchase_invoices WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera. Llamar dentro de una tx.
func (r *PurchaseInvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseInvoice, error) {
	return r.get(ctx, `SELECT `+purchaseInvoiceColumns+` FROM purchase_invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseInvoiceRepo) get(ctx context.Context, query, id string) (*entity.PurchaseInvoice, error) {
	p, err := scanPurchaseInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", unavailable(err))
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, COALESCE(product_id::text, ''), description, quantity, unit_price, subtotal, lot, lot_expiry
		FROM purchase_invoice_lines WHERE invoice_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseInvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.Subtotal, &l.Lot, &l.LotExpiry); err != nil {
			return nil, fmt.Errorf("scan purchase invoice line: %w", err)
		}
		p.Lines = append(p.Lines, l)
	}
	return p, rows.Err()
}

// List facturas filtradas (sin líneas). "overdue" como estado se traduce a pending con vencimiento pasado.
func (r *PurchaseInvoiceRepo) List(ctx context.Context, f repository.PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "$?", fmt.Sprintf("$%d", len(args))))
	}
	today := f.Today
	if today.IsZero() {
		today = time.Now()
	}
	if f.SupplierID != "" {
		add("supplier_id::text = $?", f.SupplierID)
	}
	switch f.Status {
	case "":
	case entity.PurchaseInvoiceStatusOverdue:
		f.Overdue = true
	default:
		add("status = $?", f.Status)
	}
	if f.Type != "" {
		add("type = $?", f.Type)
	}
	if f.IssueFrom != nil {
		add("issue_date >= $?", *f.IssueFrom)
	}
	if f.IssueTo != nil {
		add("issue_date <= $?", *f.IssueTo)
	}
	if f.DueFrom != nil {
		add("due_date >= $?", *f.DueFrom)
	}
	if f.DueTo != nil {
		add("due_date <= $?", *f.DueTo)
	}
	if f.Overdue {
		add("status = 'pending' AND due_date < $?::date", today)
	}
	if f.DueSoon {
		args = append(args, today, today.AddDate(0, 0, entity.DueSoonDays))
		conds = append(conds, fmt.Sprintf("status = 'pending' AND due_date BETWEEN $%d::date AND $%d::date", len(args)-1, len(args)))
	}
	if f.Search != "" {
		add("(number ILIKE $? OR stamp ILIKE $? OR notes ILIKE $?)", likePattern(f.Search))
	}
	query := `SELECT ` + purchaseInvoiceColumns + ` FROM purchase_invoices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	p := f.ListParams.Normalize()
	args = append(args, p.Limit, p.Offset)
	query += fmt.Sprintf(" ORDER BY issue_date DESC, number LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoice
	for rows.Next() {
		inv, err := scanPurchaseInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado (pagada / cancelada).
func (r *PurchaseInvoiceRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update purchase invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("factura de compra", id)
	}
	return nil
}

// SetAttachment guarda la URL del archivo adjunto.
func (r *PurchaseInvoiceRepo) SetAttachment(ctx context.Context, id, url string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_invoices SET attachment_url = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("set purchase invoice attachment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("factura de compra", id)
	}
	return nil
}

// Delete elimina la factura y sus líneas.
func (r *PurchaseInvoiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("factura de compra", id)
	}
	return nil
}

// Stats agregados por estado; vencidas y próximas a vencer se calculan contra today.
func (r *PurchaseInvoiceRepo) Stats(ctx context.Context, today time.Time) (*repository.PurchaseInvoiceStats, error) {
	const q = `
	SELECT
	    COUNT(*),
	    COUNT(*) FILTER (WHERE status = 'pending'),
	    COUNT(*) FILTER (WHERE status = 'paid'),
	    COUNT(*) FILTER (WHERE status = 'cancelled'),
	    COUNT(*) FILTER (WHERE status = 'pending' AND due_date < $1::date),
	    COUNT(*) FILTER (WHERE status = 'pending' AND due_date BETWEEN $1::date AND $2::date),
	    COALESCE(SUM(total) FILTER (WHERE status = 'pending'), 0),
	    COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0),
	    COALESCE(SUM(total) FILTER (WHERE status = 'pending' AND due_date < $1::date), 0),
	    COALESCE(SUM(total) FILTER (WHERE status = 'pending' AND due_date BETWEEN $1::date AND $2::date), 0)
	FROM purchase_invoices`
	var s repository.PurchaseInvoiceStats
	err := r.q.QueryRow(ctx, q, today, today.AddDate(0, 0, entity.DueSoonDays)).Scan(
		&s.Total, &s.Pending, &s.Paid, &s.Cancelled, &s.Overdue, &s.DueSoon,
		&s.PendingAmount, &s.PaidAmount, &s.OverdueAmount, &s.DueSoonAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("purchase invoice stats: %w", err)
	}
	return &s, nil
}
