// Package testutil provee un almacén en memoria que implementa todos los puertos de repository,
// para probar casos de uso y handlers sin PostgreSQL.
//
// Las transacciones se serializan (una a la vez, como si todas las filas tocadas estuvieran bloqueadas)
// y se deshacen restaurando una copia del estado tomada al comenzar.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// Store almacén en memoria. Implementa repository.Tx y repository.TxRunner.
type Store struct {
	txMu sync.Mutex // una transacción a la vez
	mu   sync.Mutex // protege st
	st   *state

	// FailMovement, si no es nil, se invoca antes de guardar cada movimiento; un error aborta la operación.
	FailMovement func(m *entity.StockMovement) error
}

type state struct {
	products         map[string]entity.Product
	categories       map[string]entity.Category
	subcategories    map[string]entity.Subcategory
	suppliers        map[string]entity.Supplier
	productSuppliers map[string]entity.ProductSupplier
	customers        map[string]entity.Customer
	invoices         map[string]entity.Invoice
	invoiceLines     []entity.InvoiceLine
	movements        []entity.StockMovement
	counters         map[string]int64
	orders           map[string]entity.PurchaseOrder
	receipts         map[string]entity.GoodsReceipt
	receiptLines     []entity.GoodsReceiptLine
	purchaseInvoices map[string]entity.PurchaseInvoice
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func newState() *state {
	return &state{
		products:         map[string]entity.Product{},
		categories:       map[string]entity.Category{},
		subcategories:    map[string]entity.Subcategory{},
		suppliers:        map[string]entity.Supplier{},
		productSuppliers: map[string]entity.ProductSupplier{},
		customers:        map[string]entity.Customer{},
		invoices:         map[string]entity.Invoice{},
		counters:         map[string]int64{},
		orders:           map[string]entity.PurchaseOrder{},
		receipts:         map[string]entity.GoodsReceipt{},
		purchaseInvoices: map[string]entity.PurchaseInvoice{},
	}
}

// clone copia el estado. Las líneas de órdenes y facturas de compra se copian porque se modifican en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.subcategories {
		c.subcategories[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.productSuppliers {
		c.productSuppliers[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	c.invoiceLines = append([]entity.InvoiceLine(nil), s.invoiceLines...)
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.counters {
		c.counters[k] = v
	}
	for k, v := range s.orders {
		v.Lines = append([]entity.PurchaseOrderLine(nil), v.Lines...)
		c.orders[k] = v
	}
	for k, v := range s.receipts {
		c.receipts[k] = v
	}
	c.receiptLines = append([]entity.GoodsReceiptLine(nil), s.receiptLines...)
	for k, v := range s.purchaseInvoices {
		v.Lines = append([]entity.PurchaseInvoiceLine(nil), v.Lines...)
		c.purchaseInvoices[k] = v
	}
	return c
}

// Run ejecuta fn en una transacción. Si fn devuelve error, el estado vuelve al de antes de empezar.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Products() repository.ProductRepository             { return productRepo{s} }
func (s *Store) Stock() repository.StockRepository                  { return stockRepo{s} }
func (s *Store) Movements() repository.StockMovementRepository      { return movementRepo{s} }
func (s *Store) Categories() repository.CategoryRepository          { return categoryRepo{s} }
func (s *Store) Suppliers() repository.SupplierRepository           { return supplierRepo{s} }
func (s *Store) Customers() repository.CustomerRepository           { return customerRepo{s} }
func (s *Store) Invoices() repository.InvoiceRepository             { return invoiceRepo{s} }
func (s *Store) Counters() repository.CounterRepository             { return counterRepo{s} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return orderRepo{s} }
func (s *Store) GoodsReceipts() repository.GoodsReceiptRepository   { return receiptRepo{s} }
func (s *Store) Analytics() repository.AnalyticsRepository          { return analyticsRepo{s} }

func (s *Store) PurchaseInvoices() repository.PurchaseInvoiceRepository {
	return purchaseInvoiceRepo{s}
}

// ── Semillas e inspección ────────────────────────────────────────────────────

// SeedProduct guarda el producto tal cual, incluido su stock. Solo para preparar escenarios.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// SeedSupplier guarda un proveedor.
func (s *Store) SeedSupplier(sup entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[sup.ID] = sup
}

// SeedCategory guarda una categoría.
func (s *Store) SeedCategory(c entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.categories[c.ID] = c
}

// SeedCustomer guarda un cliente.
func (s *Store) SeedCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// SeedPurchaseOrder guarda una orden con sus líneas.
func (s *Store) SeedPurchaseOrder(po entity.PurchaseOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	s.st.orders[po.ID] = po
}

// SeedPurchaseInvoice guarda una factura de compra con sus líneas.
func (s *Store) SeedPurchaseInvoice(inv entity.PurchaseInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.Lines = append([]entity.PurchaseInvoiceLine(nil), inv.Lines...)
	s.st.purchaseInvoices[inv.ID] = inv
}

// Product copia del producto guardado (nil si no existe).
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[id]
	if !ok {
		return nil
	}
	return &p
}

// MovementsOf movimientos del producto en orden de creación.
func (s *Store) MovementsOf(productID string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// InvoiceCount cantidad de facturas de venta guardadas.
func (s *Store) InvoiceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.invoices)
}

// InvoiceLineCount cantidad de líneas de factura guardadas.
func (s *Store) InvoiceLineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.invoiceLines)
}

// PurchaseOrder copia de la orden guardada (nil si no existe).
func (s *Store) PurchaseOrder(id string) *entity.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	po, ok := s.st.orders[id]
	if !ok {
		return nil
	}
	po.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return &po
}

// Customer copia del cliente guardado (nil si no existe).
func (s *Store) Customer(id string) *entity.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.customers[id]
	if !ok {
		return nil
	}
	return &c
}

// ── helpers ──────────────────────────────────────────────────────────────────

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, p repository.ListParams) []T {
	p = p.Normalize()
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// numericSuffix "FAC-000012" -> 12.
func numericSuffix(number, series string) (int64, bool) {
	prefix := series + "-"
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(number, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return name(items[i]) < name(items[j]) })
}

func sumDecimals(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
