package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, tax_id, phone, email, address, contact, active, created_at`

// SupplierRepo proveedores y relaciones producto-proveedor (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(s pgxScanner) (*entity.Supplier, error) {
	var sp entity.Supplier
	if err := s.Scan(&sp.ID, &sp.Name, &sp.TaxID, &sp.Phone, &sp.Email, &sp.Address, &sp.Contact,
		&sp.Active, &sp.CreatedAt); err != nil {
		return nil, err
	}
	return &sp, nil
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	const q = `INSERT INTO suppliers (` + supplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, q, s.ID, s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.Contact, s.Active, s.CreatedAt)
	if err != nil {
		return mapWriteError("insert supplier", "nombre", s.Name, err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// List busca por nombre, RUC o contacto.
func (r *SupplierRepo) List(ctx context.Context, search string, onlyActive bool) ([]*entity.Supplier, error) {
	q := `SELECT ` + supplierColumns + ` FROM suppliers
		WHERE ($1 = '' OR name ILIKE $2 OR tax_id ILIKE $2 OR contact ILIKE $2) AND (NOT $3 OR active)
		ORDER BY name`
	rows, err := r.q.Query(ctx, q, search, likePattern(search), onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update actualiza un proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	const q = `
		UPDATE suppliers SET name = $2, tax_id = $3, phone = $4, email = $5, address = $6, contact = $7, active = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, s.ID, s.Name, s.TaxID, s.Phone, s.Email, s.Address, s.Contact, s.Active)
	if err != nil {
		return mapWriteError("update supplier", "nombre", s.Name, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("proveedor", s.ID)
	}
	return nil
}

// Delete elimina un proveedor; con órdenes o facturas asociadas devuelve ErrConflict.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete supplier", "id", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("proveedor", id)
	}
	return nil
}

// ── Producto-proveedor ───────────────────────────────────────────────────────

const productSupplierColumns = `id, product_id, supplier_id, purchase_price, is_primary, lead_time_days, active, created_at`

func scanProductSupplier(s pgxScanner) (*entity.ProductSupplier, error) {
	var ps entity.ProductSupplier
	if err := s.Scan(&ps.ID, &ps.ProductID, &ps.SupplierID, &ps.PurchasePrice, &ps.IsPrimary,
		&ps.LeadTimeDays, &ps.Active, &ps.CreatedAt); err != nil {
		return nil, err
	}
	return &ps, nil
}

func (r *SupplierRepo) CreateProductSupplier(ctx context.Context, ps *entity.ProductSupplier) error {
	const q = `INSERT INTO product_suppliers (` + productSupplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, q, ps.ID, ps.ProductID, ps.SupplierID, ps.PurchasePrice, ps.IsPrimary,
		ps.LeadTimeDays, ps.Active, ps.CreatedAt)
	if err != nil {
		return mapWriteError("insert product supplier", "producto/proveedor", ps.ProductID+"/"+ps.SupplierID, err)
	}
	return nil
}

func (r *SupplierRepo) GetProductSupplier(ctx context.Context, id string) (*entity.ProductSupplier, error) {
	ps, err := scanProductSupplier(r.q.QueryRow(ctx,
		`SELECT `+productSupplierColumns+` FROM product_suppliers WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product supplier: %w", err)
	}
	return ps, nil
}

// ListProductSuppliers filtra por producto y/o proveedor; los principales primero.
func (r *SupplierRepo) ListProductSuppliers(ctx context.Context, productID, supplierID string) ([]*entity.ProductSupplier, error) {
	const q = `SELECT ` + productSupplierColumns + ` FROM product_suppliers
		WHERE ($1 = '' OR product_id::text = $1) AND ($2 = '' OR supplier_id::text = $2)
		ORDER BY is_primary DESC, created_at`
	rows, err := r.q.Query(ctx, q, productID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list product suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductSupplier
	for rows.Next() {
		ps, err := scanProductSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product supplier: %w", err)
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) UpdateProductSupplier(ctx context.Context, ps *entity.ProductSupplier) error {
	const q = `
		UPDATE product_suppliers SET purchase_price = $2, is_primary = $3, lead_time_days = $4, active = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, ps.ID, ps.PurchasePrice, ps.IsPrimary, ps.LeadTimeDays, ps.Active)
	if err != nil {
		return fmt.Errorf("update product supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("relación producto-proveedor", ps.ID)
	}
	return nil
}

func (r *SupplierRepo) DeleteProductSupplier(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("relación producto-proveedor", id)
	}
	return nil
}

// ClearPrimary desmarca los demás proveedores principales del producto.
func (r *SupplierRepo) ClearPrimary(ctx context.Context, productID, exceptID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE product_suppliers SET is_primary = false WHERE product_id = $1 AND id::text <> $2 AND is_primary`,
		productID, exceptID)
	if err != nil {
		return fmt.Errorf("clear primary supplier: %w", err)
	}
	return nil
}
