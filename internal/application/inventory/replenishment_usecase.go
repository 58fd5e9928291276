package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// ReplenishmentUseCase reportes de stock bajo mínimo y sugerencias de compra.
type ReplenishmentUseCase struct {
	ledger    *Ledger
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	exporter  ports.SpreadsheetExporter
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	ledger *Ledger,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	exporter ports.SpreadsheetExporter,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		ledger:    ledger,
		products:  products,
		suppliers: suppliers,
		exporter:  exporter,
	}
}

// LowStock productos activos con stock <= mínimo.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context) ([]dto.LowStockItem, error) {
	list, err := uc.ledger.StockBelowMinimum(ctx, uc.products)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItem, 0, len(list))
	for _, p := range list {
		out = append(out, dto.LowStockFromEntity(p))
	}
	return out, nil
}

// ExportLowStock planilla XLSX del reporte de stock bajo.
func (uc *ReplenishmentUseCase) ExportLowStock(ctx context.Context) ([]byte, error) {
	items, err := uc.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		code := ""
		if it.Code != nil {
			code = *it.Code
		}
		rows = append(rows, []any{code, it.Name, it.Stock, it.MinStock, it.Missing})
	}
	return uc.exporter.Export("Stock bajo", []string{"Código", "Producto", "Stock", "Mínimo", "Faltante"}, rows)
}

// GenerateReplenishmentList sugiere cuánto pedir de cada producto bajo mínimo y a qué proveedor.
// Stock ideal = 1.5 × mínimo (redondeado hacia arriba); se prioriza el proveedor principal.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentItem, error) {
	list, err := uc.ledger.StockBelowMinimum(ctx, uc.products)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentItem, 0, len(list))
	for _, p := range list {
		ideal := (p.MinStock*3 + 1) / 2
		suggested := ideal - p.Stock
		if suggested <= 0 {
			suggested = 1
		}
		item := dto.ReplenishmentItem{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			Stock:         p.Stock,
			MinStock:      p.MinStock,
			SuggestedQty:  suggested,
			SupplierID:    p.PrimarySupplierID,
			PurchasePrice: p.Cost,
		}
		links, err := uc.suppliers.ListProductSuppliers(ctx, p.ID, "")
		if err != nil {
			return nil, err
		}
		// ListProductSuppliers devuelve primero el principal.
		for _, ps := range links {
			if !ps.Active {
				continue
			}
			supplierID := ps.SupplierID
			item.SupplierID = &supplierID
			if ps.PurchasePrice.GreaterThan(decimal.Zero) {
				item.PurchasePrice = ps.PurchasePrice
			}
			break
		}
		item.EstimatedCost = item.PurchasePrice.Mul(decimal.NewFromInt(int64(suggested)))
		out = append(out, item)
	}

	// Mayor faltante relativo primero.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinStock-out[i].Stock > out[j].MinStock-out[j].Stock
	})
	return out, nil
}
