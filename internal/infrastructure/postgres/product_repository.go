package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, code, name, description, compatible_models, location, category_id, subcategory_id,
	brand, unit_measure, stock, min_stock, cost, price, primary_supplier_id, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(s pgxScanner) (*entity.Product, error) {
	var p entity.Product
	err := s.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CompatibleModels, &p.Location,
		&p.CategoryID, &p.SubcategoryID, &p.Brand, &p.UnitMeasure, &p.Stock, &p.MinStock,
		&p.Cost, &p.Price, &p.PrimarySupplierID, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. Stock inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const q = `
		INSERT INTO products (id, code, name, description, compatible_models, location, category_id, subcategory_id,
			brand, unit_measure, stock, min_stock, cost, price, primary_supplier_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, q,
		p.ID, p.Code, p.Name, p.Description, p.CompatibleModels, p.Location, p.CategoryID, p.SubcategoryID,
		p.Brand, p.UnitMeasure, p.MinStock, p.Cost, p.Price, p.PrimarySupplierID, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert product", "código", p.CodeOrEmpty(), err)
	}
	p.Stock = 0
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, where string, arg any, op string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `id = $1`, id, "get product")
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, `code = $1`, code, "get product by code")
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `id = $1 FOR UPDATE`, id, "get product for update")
}

// Update actualiza los datos del producto. No toca stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	const q = `
		UPDATE products SET code = $2, name = $3, description = $4, compatible_models = $5, location = $6,
			category_id = $7, subcategory_id = $8, brand = $9, unit_measure = $10, min_stock = $11,
			cost = $12, price = $13, primary_supplier_id = $14, active = $15, updated_at = $16
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q,
		p.ID, p.Code, p.Name, p.Description, p.CompatibleModels, p.Location, p.CategoryID, p.SubcategoryID,
		p.Brand, p.UnitMeasure, p.MinStock, p.Cost, p.Price, p.PrimarySupplierID, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update product", "código", p.CodeOrEmpty(), err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("producto", p.ID)
	}
	return nil
}

// UpdateCosting actualiza costo y precio de venta.
func (r *ProductRepo) UpdateCosting(ctx context.Context, id string, cost, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET cost = $2, price = $3, updated_at = now() WHERE id = $1`,
		id, cost, price,
	)
	if err != nil {
		return fmt.Errorf("update product costing: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("producto", id)
	}
	return nil
}

// List lista productos con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR code ILIKE $%d OR brand ILIKE $%d OR compatible_models ILIKE $%d)", n, n, n, n))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.OnlyActive {
		conds = append(conds, "active")
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	p := f.ListParams.Normalize()
	args = append(args, p.Limit, p.Offset)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return r.query(ctx, "list products", query, args...)
}

// Dropdown productos activos con los campos mínimos para un select.
func (r *ProductRepo) Dropdown(ctx context.Context) ([]repository.ProductDropdownItem, error) {
	const q = `
		SELECT id, COALESCE(code, ''), name, cost, price, stock
		FROM products WHERE active ORDER BY name`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("products dropdown: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductDropdownItem
	for rows.Next() {
		var it repository.ProductDropdownItem
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Cost, &it.Price, &it.Stock); err != nil {
			return nil, fmt.Errorf("scan product dropdown: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// BelowMinimum productos activos con stock <= stock mínimo.
func (r *ProductRepo) BelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, "products below minimum",
		`SELECT `+productColumns+` FROM products WHERE active AND stock <= min_stock ORDER BY name`)
}

// Delete elimina un producto. Si tiene facturas o movimientos asociados devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("el producto tiene facturas o movimientos asociados: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("producto", id)
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, op, sql string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
