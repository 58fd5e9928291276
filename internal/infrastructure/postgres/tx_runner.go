package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*TxRunner)(nil)
	_ repository.Tx       = (*txRepos)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", unavailable(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newTxRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepos repositorios construidos sobre la misma pgx.Tx.
type txRepos struct {
	tx pgx.Tx
}

func newTxRepos(tx pgx.Tx) *txRepos { return &txRepos{tx: tx} }

func (t *txRepos) Products() repository.ProductRepository {
	return NewProductRepository(t.tx)
}

func (t *txRepos) Stock() repository.StockRepository {
	return NewStockRepository(t.tx)
}

func (t *txRepos) Movements() repository.StockMovementRepository {
	return NewStockMovementRepository(t.tx)
}

func (t *txRepos) Categories() repository.CategoryRepository {
	return NewCategoryRepository(t.tx)
}

func (t *txRepos) Suppliers() repository.SupplierRepository {
	return NewSupplierRepository(t.tx)
}

func (t *txRepos) Customers() repository.CustomerRepository {
	return NewCustomerRepository(t.tx)
}

func (t *txRepos) Invoices() repository.InvoiceRepository {
	return NewInvoiceRepository(t.tx)
}

func (t *txRepos) Counters() repository.CounterRepository {
	return NewCounterRepository(t.tx)
}

func (t *txRepos) PurchaseOrders() repository.PurchaseOrderRepository {
	return NewPurchaseOrderRepository(t.tx)
}

func (t *txRepos) GoodsReceipts() repository.GoodsReceiptRepository {
	return NewGoodsReceiptRepository(t.tx)
}

func (t *txRepos) PurchaseInvoices() repository.PurchaseInvoiceRepository {
	return NewPurchaseInvoiceRepository(t.tx)
}
