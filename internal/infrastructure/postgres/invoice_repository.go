package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, date, document_type, document_number, customer_name, customer_email,
	customer_phone, customer_address, subtotal, discount_total, tax_exempt, tax_total, total, user_id, notes`

// InvoiceRepo facturas de venta sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(s pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := s.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.DocumentType, &inv.DocumentNumber, &inv.CustomerName,
		&inv.CustomerEmail, &inv.CustomerPhone, &inv.CustomerAddress, &inv.Subtotal, &inv.DiscountTotal,
		&inv.TaxExempt, &inv.TaxTotal, &inv.Total, &inv.UserID, &inv.Notes); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserta la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const q = `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, q, inv.ID, inv.Number, inv.Date, inv.DocumentType, inv.DocumentNumber, inv.CustomerName,
		inv.CustomerEmail, inv.CustomerPhone, inv.CustomerAddress, inv.Subtotal, inv.DiscountTotal,
		inv.TaxExempt, inv.TaxTotal, inv.Total, inv.UserID, inv.Notes)
	if err != nil {
		return mapWriteError("insert invoice", "número de factura", inv.Number, err)
	}
	return nil
}

// CreateLine inserta una línea de factura.
func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	const q = `
		INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, q, l.ID, l.InvoiceID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal); err != nil {
		return mapWriteError("insert invoice line", "id", l.ID, err)
	}
	return nil
}

// GetByID devuelve la factura con sus líneas.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, unit_price, subtotal
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	return inv, rows.Err()
}

// List facturas por rango de fechas y búsqueda, las más recientes primero (sin líneas).
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var (
		conds []string
		args  []any
	)
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date < $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(number ILIKE $%d OR customer_name ILIKE $%d OR document_number ILIKE $%d)", n, n, n))
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	p := f.ListParams.Normalize()
	args = append(args, p.Limit, p.Offset)
	query += fmt.Sprintf(" ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// SalesBetween cantidad y total facturado en [from, to).
func (r *InvoiceRepo) SalesBetween(ctx context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(total), 0) FROM invoices WHERE date >= $1 AND date < $2`
	var (
		count int
		total decimal.Decimal
	)
	if err := r.q.QueryRow(ctx, q, from, to).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("sales between: %w", err)
	}
	return count, total, nil
}
