package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// ── Productos y stock ────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) codeTaken(code *string, selfID string) bool {
	if code == nil {
		return false
	}
	for _, p := range r.s.st.products {
		if p.ID != selfID && p.Code != nil && *p.Code == *code {
			return true
		}
	}
	return false
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.codeTaken(p.Code, p.ID) {
		return &domain.DuplicateKeyError{Field: "código", Value: p.CodeOrEmpty()}
	}
	p.Stock = 0
	r.s.st.products[p.ID] = *p
	return nil
}

func (r productRepo) get(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.get(id)
}

func (r productRepo) GetForUpdate(_ context.Context, id string) (*entity.Product, error) {
	return r.get(id)
}

func (r productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.Code != nil && *p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.NewNotFound("producto", p.ID)
	}
	if r.codeTaken(p.Code, p.ID) {
		return &domain.DuplicateKeyError{Field: "código", Value: p.CodeOrEmpty()}
	}
	next := *p
	next.Stock = cur.Stock
	r.s.st.products[p.ID] = next
	return nil
}

func (r productRepo) UpdateCosting(_ context.Context, id string, cost, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.NewNotFound("producto", id)
	}
	p.Cost = cost
	p.Price = price
	r.s.st.products[id] = p
	return nil
}

func (r productRepo) sorted(keep func(entity.Product) bool) []*entity.Product {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.st.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sortByName(out, func(p *entity.Product) string { return p.Name })
	return out
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	list := r.sorted(func(p entity.Product) bool {
		if f.OnlyActive && !p.Active {
			return false
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			return false
		}
		if f.Search != "" && !contains(p.Name, f.Search) && !contains(p.CodeOrEmpty(), f.Search) &&
			!contains(p.Brand, f.Search) && !contains(p.CompatibleModels, f.Search) {
			return false
		}
		return true
	})
	return page(list, f.ListParams), nil
}

func (r productRepo) Dropdown(_ context.Context) ([]repository.ProductDropdownItem, error) {
	list := r.sorted(func(p entity.Product) bool { return p.Active })
	out := make([]repository.ProductDropdownItem, 0, len(list))
	for _, p := range list {
		out = append(out, repository.ProductDropdownItem{
			ID: p.ID, Code: p.CodeOrEmpty(), Name: p.Name, Cost: p.Cost, Price: p.Price, Stock: p.Stock,
		})
	}
	return out, nil
}

func (r productRepo) BelowMinimum(_ context.Context) ([]*entity.Product, error) {
	return r.sorted(func(p entity.Product) bool { return p.Active && p.IsBelowMinimum() }), nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.products[id]; !ok {
		return domain.NewNotFound("producto", id)
	}
	for _, l := range r.s.st.invoiceLines {
		if l.ProductID == id {
			return fmt.Errorf("el producto tiene facturas o movimientos asociados: %w", domain.ErrConflict)
		}
	}
	for _, m := range r.s.st.movements {
		if m.ProductID == id {
			return fmt.Errorf("el producto tiene facturas o movimientos asociados: %w", domain.ErrConflict)
		}
	}
	delete(r.s.st.products, id)
	return nil
}

type stockRepo struct{ s *Store }

func (r stockRepo) Increase(_ context.Context, productID string, qty int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[productID]
	if !ok {
		return 0, false, nil
	}
	p.Stock, _ = inventory.ApplyMovement(p.Stock, qty)
	r.s.st.products[productID] = p
	return p.Stock, true, nil
}

func (r stockRepo) DecreaseIfAvailable(_ context.Context, productID string, qty int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[productID]
	if !ok {
		return 0, false, nil
	}
	next, applied := inventory.ApplyMovement(p.Stock, -qty)
	if !applied {
		return 0, false, nil
	}
	p.Stock = next
	r.s.st.products[productID] = p
	return p.Stock, true, nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.s.FailMovement != nil {
		if err := r.s.FailMovement(m); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.s.st.movements {
		switch {
		case f.ProductID != "" && m.ProductID != f.ProductID,
			f.Type != "" && m.Type != f.Type,
			f.UserID != "" && (m.UserID == nil || *m.UserID != f.UserID),
			f.From != nil && m.CreatedAt.Before(*f.From),
			f.To != nil && !m.CreatedAt.Before(*f.To),
			f.Search != "" && !contains(m.Description, f.Search):
			continue
		}
		m := m
		out = append(out, &m)
	}
	r.s.mu.Unlock()

	switch f.OrderBy {
	case "quantity":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	case "created_at_asc":
		// orden de inserción
	default:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return page(out, f.ListParams), nil
}

func (r movementRepo) SumByProduct(_ context.Context, productID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, m := range r.s.st.movements {
		if m.ProductID == productID {
			total += m.SignedQuantity()
		}
	}
	return total, nil
}

// ── Categorías ───────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

func (r categoryRepo) nameTaken(name, selfID string) bool {
	for _, c := range r.s.st.categories {
		if c.ID != selfID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(c.Name, c.ID) {
		return &domain.DuplicateKeyError{Field: "nombre", Value: c.Name}
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.st.categories))
	for _, c := range r.s.st.categories {
		c := c
		out = append(out, &c)
	}
	sortByName(out, func(c *entity.Category) string { return c.Name })
	return out, nil
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.categories[c.ID]; !ok {
		return domain.NewNotFound("categoría", c.ID)
	}
	if r.nameTaken(c.Name, c.ID) {
		return &domain.DuplicateKeyError{Field: "nombre", Value: c.Name}
	}
	r.s.st.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.categories[id]; !ok {
		return domain.NewNotFound("categoría", id)
	}
	for _, p := range r.s.st.products {
		if p.CategoryID == id {
			return fmt.Errorf("delete category: %w", domain.ErrConflict)
		}
	}
	delete(r.s.st.categories, id)
	return nil
}

func (r categoryRepo) CreateSubcategory(_ context.Context, sc *entity.Subcategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.subcategories {
		if other.CategoryID == sc.CategoryID && strings.EqualFold(other.Name, sc.Name) {
			return &domain.DuplicateKeyError{Field: "nombre", Value: sc.Name}
		}
	}
	r.s.st.subcategories[sc.ID] = *sc
	return nil
}

func (r categoryRepo) GetSubcategoryByID(_ context.Context, id string) (*entity.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sc, ok := r.s.st.subcategories[id]
	if !ok {
		return nil, nil
	}
	return &sc, nil
}

func (r categoryRepo) ListSubcategories(_ context.Context, categoryID string) ([]*entity.Subcategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Subcategory, 0)
	for _, sc := range r.s.st.subcategories {
		if categoryID == "" || sc.CategoryID == categoryID {
			sc := sc
			out = append(out, &sc)
		}
	}
	sortByName(out, func(sc *entity.Subcategory) string { return sc.Name })
	return out, nil
}

func (r categoryRepo) UpdateSubcategory(_ context.Context, sc *entity.Subcategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.subcategories[sc.ID]; !ok {
		return domain.NewNotFound("subcategoría", sc.ID)
	}
	r.s.st.subcategories[sc.ID] = *sc
	return nil
}

func (r categoryRepo) DeleteSubcategory(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.subcategories[id]; !ok {
		return domain.NewNotFound("subcategoría", id)
	}
	delete(r.s.st.subcategories, id)
	return nil
}

// ── Proveedores ──────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.suppliers[sup.ID] = *sup
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sup, nil
}

func (r supplierRepo) List(_ context.Context, search string, onlyActive bool) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Supplier, 0)
	for _, sup := range r.s.st.suppliers {
		if onlyActive && !sup.Active {
			continue
		}
		if search != "" && !contains(sup.Name, search) && !contains(sup.TaxID, search) && !contains(sup.Contact, search) {
			continue
		}
		sup := sup
		out = append(out, &sup)
	}
	sortByName(out, func(s *entity.Supplier) string { return s.Name })
	return out, nil
}

func (r supplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.suppliers[sup.ID]; !ok {
		return domain.NewNotFound("proveedor", sup.ID)
	}
	r.s.st.suppliers[sup.ID] = *sup
	return nil
}

func (r supplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.suppliers[id]; !ok {
		return domain.NewNotFound("proveedor", id)
	}
	for _, po := range r.s.st.orders {
		if po.SupplierID == id {
			return fmt.Errorf("delete supplier: %w", domain.ErrConflict)
		}
	}
	for _, inv := range r.s.st.purchaseInvoices {
		if inv.SupplierID == id {
			return fmt.Errorf("delete supplier: %w", domain.ErrConflict)
		}
	}
	delete(r.s.st.suppliers, id)
	return nil
}

func (r supplierRepo) CreateProductSupplier(_ context.Context, ps *entity.ProductSupplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.productSuppliers {
		if other.ProductID == ps.ProductID && other.SupplierID == ps.SupplierID {
			return &domain.DuplicateKeyError{Field: "producto/proveedor", Value: ps.ProductID + "/" + ps.SupplierID}
		}
	}
	r.s.st.productSuppliers[ps.ID] = *ps
	return nil
}

func (r supplierRepo) GetProductSupplier(_ context.Context, id string) (*entity.ProductSupplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ps, ok := r.s.st.productSuppliers[id]
	if !ok {
		return nil, nil
	}
	return &ps, nil
}

func (r supplierRepo) ListProductSuppliers(_ context.Context, productID, supplierID string) ([]*entity.ProductSupplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.ProductSupplier, 0)
	for _, ps := range r.s.st.productSuppliers {
		if (productID == "" || ps.ProductID == productID) && (supplierID == "" || ps.SupplierID == supplierID) {
			ps := ps
			out = append(out, &ps)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r supplierRepo) UpdateProductSupplier(_ context.Context, ps *entity.ProductSupplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.productSuppliers[ps.ID]; !ok {
		return domain.NewNotFound("relación producto-proveedor", ps.ID)
	}
	r.s.st.productSuppliers[ps.ID] = *ps
	return nil
}

func (r supplierRepo) DeleteProductSupplier(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.productSuppliers[id]; !ok {
		return domain.NewNotFound("relación producto-proveedor", id)
	}
	delete(r.s.st.productSuppliers, id)
	return nil
}

func (r supplierRepo) ClearPrimary(_ context.Context, productID, exceptID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, ps := range r.s.st.productSuppliers {
		if ps.ProductID == productID && id != exceptID && ps.IsPrimary {
			ps.IsPrimary = false
			r.s.st.productSuppliers[id] = ps
		}
	}
	return nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

type customerRepo struct{ s *Store }

func (r customerRepo) documentTaken(c *entity.Customer) bool {
	if c.DocumentNumber == nil {
		return false
	}
	for _, other := range r.s.st.customers {
		if other.ID != c.ID && other.DocumentNumber != nil && *other.DocumentNumber == *c.DocumentNumber {
			return true
		}
	}
	return false
}

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.documentTaken(c) {
		return &domain.DuplicateKeyError{Field: "documento", Value: *c.DocumentNumber}
	}
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r customerRepo) GetByDocument(_ context.Context, documentNumber string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.st.customers {
		if c.DocumentNumber != nil && *c.DocumentNumber == documentNumber {
			return &c, nil
		}
	}
	return nil, nil
}

func (r customerRepo) List(_ context.Context, search string, onlyActive bool) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Customer, 0)
	for _, c := range r.s.st.customers {
		if onlyActive && !c.Active {
			continue
		}
		doc := ""
		if c.DocumentNumber != nil {
			doc = *c.DocumentNumber
		}
		if search != "" && !contains(c.Name, search) && !contains(doc, search) && !contains(c.Email, search) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sortByName(out, func(c *entity.Customer) string { return c.Name })
	return out, nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[c.ID]; !ok {
		return domain.NewNotFound("cliente", c.ID)
	}
	if r.documentTaken(c) {
		return &domain.DuplicateKeyError{Field: "documento", Value: *c.DocumentNumber}
	}
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.customers[id]; !ok {
		return domain.NewNotFound("cliente", id)
	}
	delete(r.s.st.customers, id)
	return nil
}

func (r customerRepo) AddPurchase(_ context.Context, id string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.customers[id]
	if !ok {
		return domain.NewNotFound("cliente", id)
	}
	c.TotalPurchases++
	c.TotalPurchasedAmount = c.TotalPurchasedAmount.Add(amount)
	r.s.st.customers[id] = c
	return nil
}

// ── Facturas de venta y numeración ───────────────────────────────────────────

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.invoices {
		if other.Number == inv.Number {
			return &domain.DuplicateKeyError{Field: "número de factura", Value: inv.Number}
		}
	}
	head := *inv
	head.Lines = nil
	r.s.st.invoices[inv.ID] = head
	return nil
}

func (r invoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.invoices[line.InvoiceID]; !ok {
		return fmt.Errorf("insert invoice line: %w", domain.ErrConflict)
	}
	if _, ok := r.s.st.products[line.ProductID]; !ok {
		return fmt.Errorf("insert invoice line: %w", domain.ErrConflict)
	}
	r.s.st.invoiceLines = append(r.s.st.invoiceLines, *line)
	return nil
}

func (r invoiceRepo) withLines(inv entity.Invoice) *entity.Invoice {
	inv.Lines = nil
	for _, l := range r.s.st.invoiceLines {
		if l.InvoiceID == inv.ID {
			inv.Lines = append(inv.Lines, l)
		}
	}
	return &inv
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.invoices[id]
	if !ok {
		return nil, nil
	}
	return r.withLines(inv), nil
}

func (r invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	out := make([]*entity.Invoice, 0)
	for _, inv := range r.s.st.invoices {
		switch {
		case f.From != nil && inv.Date.Before(*f.From),
			f.To != nil && !inv.Date.Before(*f.To),
			f.Search != "" && !contains(inv.Number, f.Search) && !contains(inv.CustomerName, f.Search) &&
				!contains(inv.DocumentNumber, f.Search):
			continue
		}
		inv := inv
		out = append(out, &inv)
	}
	r.s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Number > out[j].Number
	})
	return page(out, f.ListParams), nil
}

func (r invoiceRepo) SalesBetween(_ context.Context, from, to time.Time) (int, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count, total := 0, decimal.Zero
	for _, inv := range r.s.st.invoices {
		if !inv.Date.Before(from) && inv.Date.Before(to) {
			count++
			total = total.Add(inv.Total)
		}
	}
	return count, total, nil
}

type counterRepo struct{ s *Store }

// Next siembra el contador con el mayor sufijo ya usado en la serie, como hace el adaptador de PostgreSQL.
func (r counterRepo) Next(_ context.Context, series string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last, ok := r.s.st.counters[series]
	if !ok {
		var numbers []string
		for _, inv := range r.s.st.invoices {
			numbers = append(numbers, inv.Number)
		}
		for _, po := range r.s.st.orders {
			numbers = append(numbers, po.Number)
		}
		for _, gr := range r.s.st.receipts {
			numbers = append(numbers, gr.Number)
		}
		for _, n := range numbers {
			if v, ok := numericSuffix(n, series); ok && v > last {
				last = v
			}
		}
	}
	last++
	r.s.st.counters[series] = last
	return last, nil
}

// ── Órdenes de compra y recepciones ──────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.orders {
		if other.Number == po.Number {
			return &domain.DuplicateKeyError{Field: "número de orden", Value: po.Number}
		}
	}
	stored := *po
	stored.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	r.s.st.orders[po.ID] = stored
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	po.Lines = append([]entity.PurchaseOrderLine(nil), po.Lines...)
	return &po, nil
}

func (r orderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	out := make([]*entity.PurchaseOrder, 0)
	for _, po := range r.s.st.orders {
		po := po
		if (f.SupplierID != "" && po.SupplierID != f.SupplierID) || (f.Status != "" && po.Status != f.Status) {
			continue
		}
		po.Lines = nil
		out = append(out, &po)
	}
	r.s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].Number > out[j].Number
	})
	return page(out, f.ListParams), nil
}

func (r orderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.st.orders[id]
	if !ok {
		return domain.NewNotFound("orden de compra", id)
	}
	po.Status = status
	r.s.st.orders[id] = po
	return nil
}

func (r orderRepo) AddReceived(_ context.Context, orderID, productID string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.st.orders[orderID]
	if !ok {
		return false, nil
	}
	for i := range po.Lines {
		if po.Lines[i].ProductID == productID {
			po.Lines[i].ReceivedQty += qty
			r.s.st.orders[orderID] = po
			return true, nil
		}
	}
	return false, nil
}

type receiptRepo struct{ s *Store }

func (r receiptRepo) Create(_ context.Context, gr *entity.GoodsReceipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.st.receipts {
		if other.Number == gr.Number {
			return &domain.DuplicateKeyError{Field: "número de recepción", Value: gr.Number}
		}
	}
	head := *gr
	head.Lines = nil
	r.s.st.receipts[gr.ID] = head
	return nil
}

func (r receiptRepo) CreateLine(_ context.Context, l *entity.GoodsReceiptLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.receiptLines = append(r.s.st.receiptLines, *l)
	return nil
}

func (r receiptRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	gr, ok := r.s.st.receipts[id]
	if !ok {
		return nil, nil
	}
	for _, l := range r.s.st.receiptLines {
		if l.ReceiptID == id {
			gr.Lines = append(gr.Lines, l)
		}
	}
	return &gr, nil
}

func (r receiptRepo) List(_ context.Context, supplierID, purchaseOrderID string, p repository.ListParams) ([]*entity.GoodsReceipt, error) {
	r.s.mu.Lock()
	out := make([]*entity.GoodsReceipt, 0)
	for _, gr := range r.s.st.receipts {
		if supplierID != "" && gr.SupplierID != supplierID {
			continue
		}
		if purchaseOrderID != "" && (gr.PurchaseOrderID == nil || *gr.PurchaseOrderID != purchaseOrderID) {
			continue
		}
		gr := gr
		out = append(out, &gr)
	}
	r.s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	return page(out, p), nil
}

// ── Facturas de compra ───────────────────────────────────────────────────────

type purchaseInvoiceRepo struct{ s *Store }

func (r purchaseInvoiceRepo) numberTaken(inv *entity.PurchaseInvoice) bool {
	for _, other := range r.s.st.purchaseInvoices {
		if other.ID != inv.ID && other.Number == inv.Number {
			return true
		}
	}
	return false
}

func (r purchaseInvoiceRepo) Create(_ context.Context, inv *entity.PurchaseInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.numberTaken(inv) {
		return &domain.DuplicateKeyError{Field: "número de factura", Value: inv.Number}
	}
	stored := *inv
	stored.Lines = append([]entity.PurchaseInvoiceLine(nil), inv.Lines...)
	r.s.st.purchaseInvoices[inv.ID] = stored
	return nil
}

func (r purchaseInvoiceRepo) Update(_ context.Context, inv *entity.PurchaseInvoice, replaceLines bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.purchaseInvoices[inv.ID]
	if !ok {
		return domain.NewNotFound("factura de compra", inv.ID)
	}
	if r.numberTaken(inv) {
		return &domain.DuplicateKeyError{Field: "número de factura", Value: inv.Number}
	}
	stored := *inv
	if replaceLines {
		stored.Lines = append([]entity.PurchaseInvoiceLine(nil), inv.Lines...)
	} else {
		stored.Lines = cur.Lines
	}
	r.s.st.purchaseInvoices[inv.ID] = stored
	return nil
}

func (r purchaseInvoiceRepo) GetByID(_ context.Context, id string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.purchaseInvoices[id]
	if !ok {
		return nil, nil
	}
	inv.Lines = append([]entity.PurchaseInvoiceLine(nil), inv.Lines...)
	return &inv, nil
}

func (r purchaseInvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseInvoice, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseInvoiceRepo) List(_ context.Context, f repository.PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error) {
	today := f.Today
	if today.IsZero() {
		today = time.Now()
	}
	status := f.Status
	if status == entity.PurchaseInvoiceStatusOverdue {
		status = ""
		f.Overdue = true
	}
	r.s.mu.Lock()
	out := make([]*entity.PurchaseInvoice, 0)
	for _, inv := range r.s.st.purchaseInvoices {
		inv := inv
		switch {
		case f.SupplierID != "" && inv.SupplierID != f.SupplierID,
			status != "" && inv.Status != status,
			f.Type != "" && inv.Type != f.Type,
			f.IssueFrom != nil && dateOnly(inv.IssueDate).Before(dateOnly(*f.IssueFrom)),
			f.IssueTo != nil && dateOnly(inv.IssueDate).After(dateOnly(*f.IssueTo)),
			f.DueFrom != nil && (inv.DueDate == nil || dateOnly(*inv.DueDate).Before(dateOnly(*f.DueFrom))),
			f.DueTo != nil && (inv.DueDate == nil || dateOnly(*inv.DueDate).After(dateOnly(*f.DueTo))),
			f.Overdue && !inv.IsOverdue(today),
			f.DueSoon && !inv.IsDueSoon(today),
			f.Search != "" && !contains(inv.Number, f.Search) && !contains(inv.Stamp, f.Search) && !contains(inv.Notes, f.Search):
			continue
		}
		inv.Lines = nil
		out = append(out, &inv)
	}
	r.s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].Number < out[j].Number
	})
	return page(out, f.ListParams), nil
}

func (r purchaseInvoiceRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.purchaseInvoices[id]
	if !ok {
		return domain.NewNotFound("factura de compra", id)
	}
	inv.Status = status
	r.s.st.purchaseInvoices[id] = inv
	return nil
}

func (r purchaseInvoiceRepo) SetAttachment(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.st.purchaseInvoices[id]
	if !ok {
		return domain.NewNotFound("factura de compra", id)
	}
	inv.AttachmentURL = url
	r.s.st.purchaseInvoices[id] = inv
	return nil
}

func (r purchaseInvoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.purchaseInvoices[id]; !ok {
		return domain.NewNotFound("factura de compra", id)
	}
	delete(r.s.st.purchaseInvoices, id)
	return nil
}

func (r purchaseInvoiceRepo) Stats(_ context.Context, today time.Time) (*repository.PurchaseInvoiceStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &repository.PurchaseInvoiceStats{}
	for _, inv := range r.s.st.purchaseInvoices {
		st.Total++
		switch inv.Status {
		case entity.PurchaseInvoiceStatusPending:
			st.Pending++
			st.PendingAmount = st.PendingAmount.Add(inv.Total)
			if inv.IsOverdue(today) {
				st.Overdue++
				st.OverdueAmount = st.OverdueAmount.Add(inv.Total)
			}
			if inv.IsDueSoon(today) {
				st.DueSoon++
				st.DueSoonAmount = st.DueSoonAmount.Add(inv.Total)
			}
		case entity.PurchaseInvoiceStatusPaid:
			st.Paid++
			st.PaidAmount = st.PaidAmount.Add(inv.Total)
		case entity.PurchaseInvoiceStatusCancelled:
			st.Cancelled++
		}
	}
	return st, nil
}

// ── Analítica ────────────────────────────────────────────────────────────────

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) linesBetween(start, end time.Time) []entity.InvoiceLine {
	var out []entity.InvoiceLine
	for _, l := range r.s.st.invoiceLines {
		inv, ok := r.s.st.invoices[l.InvoiceID]
		if ok && !inv.Date.Before(start) && inv.Date.Before(end) {
			out = append(out, l)
		}
	}
	return out
}

func (r analyticsRepo) GetSalesMetrics(_ context.Context, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var revenue, cost []decimal.Decimal
	for _, l := range r.linesBetween(start, end) {
		revenue = append(revenue, l.Subtotal)
		if p, ok := r.s.st.products[l.ProductID]; ok {
			cost = append(cost, p.Cost.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
	}
	return sumDecimals(revenue...), sumDecimals(cost...), nil
}

func (r analyticsRepo) GetTopProducts(_ context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byProduct := map[string]*repository.TopProductResult{}
	for _, l := range r.linesBetween(start, end) {
		row, ok := byProduct[l.ProductID]
		if !ok {
			p := r.s.st.products[l.ProductID]
			row = &repository.TopProductResult{ProductID: l.ProductID, Code: p.CodeOrEmpty(), ProductName: p.Name}
			byProduct[l.ProductID] = row
		}
		row.QuantitySold += l.Quantity
		row.TotalRevenue = row.TotalRevenue.Add(l.Subtotal)
		row.TotalCost = row.TotalCost.Add(r.s.st.products[l.ProductID].Cost.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	out := make([]repository.TopProductResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRevenue.GreaterThan(out[j].TotalRevenue) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
