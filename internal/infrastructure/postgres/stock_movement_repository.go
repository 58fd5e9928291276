package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persistencia append-only de movimientos (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	const q = `
		INSERT INTO stock_movements (id, product_id, type, quantity, description, user_id, reference_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, q, m.ID, m.ProductID, m.Type, m.Quantity, m.Description, m.UserID,
		m.ReferenceType, m.ReferenceID, m.CreatedAt)
	if err != nil {
		return mapWriteError("insert stock movement", "id", m.ID, err)
	}
	return nil
}

// List historial filtrado. Por defecto los más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.UserID != "" {
		add("user_id = $%d", f.UserID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	if f.Search != "" {
		add("description ILIKE $%d", likePattern(f.Search))
	}
	query := `SELECT id, product_id, type, quantity, description, user_id, reference_type, reference_id, created_at
		FROM stock_movements`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	switch f.OrderBy {
	case "quantity":
		query += " ORDER BY quantity DESC, created_at DESC"
	case "created_at_asc":
		query += " ORDER BY created_at, id"
	default:
		query += " ORDER BY created_at DESC, id"
	}
	p := f.ListParams.Normalize()
	args = append(args, p.Limit, p.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Description, &m.UserID,
			&m.ReferenceType, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct suma firmada de movimientos del producto.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID string) (int, error) {
	const q = `
		SELECT COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE product_id = $1`
	var sum int
	if err := r.q.QueryRow(ctx, q, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}
