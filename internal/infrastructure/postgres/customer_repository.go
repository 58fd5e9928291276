package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, document_type, document_number, name, email, phone, address, active,
	total_purchases, total_purchased_amount, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(s pgxScanner) (*entity.Customer, error) {
	var c entity.Customer
	if err := s.Scan(&c.ID, &c.DocumentType, &c.DocumentNumber, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.Active, &c.TotalPurchases, &c.TotalPurchasedAmount, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func documentOrEmpty(c *entity.Customer) string {
	if c.DocumentNumber == nil {
		return ""
	}
	return *c.DocumentNumber
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const q = `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, q, c.ID, c.DocumentType, c.DocumentNumber, c.Name, c.Email, c.Phone, c.Address,
		c.Active, c.TotalPurchases, c.TotalPurchasedAmount, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapWriteError("insert customer", "documento", documentOrEmpty(c), err)
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByDocument obtiene un cliente por número de documento (cédula o RUC).
func (r *CustomerRepo) GetByDocument(ctx context.Context, documentNumber string) (*entity.Customer, error) {
	return r.getOne(ctx, `document_number = $1`, documentNumber)
}

// List busca por nombre, documento o email.
func (r *CustomerRepo) List(ctx context.Context, search string, onlyActive bool) ([]*entity.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers
		WHERE ($1 = '' OR name ILIKE $2 OR document_number ILIKE $2 OR email ILIKE $2) AND (NOT $3 OR active)
		ORDER BY name`
	rows, err := r.q.Query(ctx, q, search, likePattern(search), onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente (no toca contadores de compras).
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	const q = `
		UPDATE customers SET document_type = $2, document_number = $3, name = $4, email = $5, phone = $6,
			address = $7, active = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q, c.ID, c.DocumentType, c.DocumentNumber, c.Name, c.Email, c.Phone,
		c.Address, c.Active, c.UpdatedAt)
	if err != nil {
		return mapWriteError("update customer", "documento", documentOrEmpty(c), err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("cliente", c.ID)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("cliente", id)
	}
	return nil
}

// AddPurchase incrementa contadores de compras.
func (r *CustomerRepo) AddPurchase(ctx context.Context, id string, amount decimal.Decimal) error {
	const q = `
		UPDATE customers SET total_purchases = total_purchases + 1,
			total_purchased_amount = total_purchased_amount + $2, updated_at = now()
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, q, id, amount); err != nil {
		return fmt.Errorf("add customer purchase: %w", err)
	}
	return nil
}
