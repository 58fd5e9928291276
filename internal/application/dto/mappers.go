package dto

import (
	"time"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// ProductFromEntity arma la respuesta de un producto.
func ProductFromEntity(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		CompatibleModels:  p.CompatibleModels,
		Location:          p.Location,
		CategoryID:        p.CategoryID,
		SubcategoryID:     p.SubcategoryID,
		Brand:             p.Brand,
		UnitMeasure:       p.UnitMeasure,
		Stock:             p.Stock,
		MinStock:          p.MinStock,
		Cost:              p.Cost,
		Price:             p.Price,
		PrimarySupplierID: p.PrimarySupplierID,
		Active:            p.Active,
		BelowMinimum:      p.IsBelowMinimum(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// LowStockFromEntity arma la fila de stock bajo.
func LowStockFromEntity(p *entity.Product) LowStockItem {
	missing := p.MinStock - p.Stock
	if missing < 0 {
		missing = 0
	}
	return LowStockItem{ID: p.ID, Code: p.Code, Name: p.Name, Stock: p.Stock, MinStock: p.MinStock, Missing: missing}
}

// MovementFromEntity arma la respuesta de un movimiento.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Description:   m.Description,
		UserID:        m.UserID,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}

// InvoiceFromEntity arma la respuesta de una factura de venta (con líneas si las tiene).
func InvoiceFromEntity(inv *entity.Invoice) InvoiceResponse {
	out := InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		Date:            inv.Date,
		DocumentType:    inv.DocumentType,
		DocumentNumber:  inv.DocumentNumber,
		CustomerName:    inv.CustomerName,
		CustomerDisplay: inv.CustomerDisplay(),
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		CustomerAddress: inv.CustomerAddress,
		Subtotal:        inv.Subtotal,
		DiscountTotal:   inv.DiscountTotal,
		TaxExempt:       inv.TaxExempt,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		UserID:          inv.UserID,
		Notes:           inv.Notes,
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, InvoiceLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return out
}

// CustomerFromEntity arma la respuesta de un cliente.
func CustomerFromEntity(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                   c.ID,
		DocumentType:         c.DocumentType,
		DocumentNumber:       c.DocumentNumber,
		Name:                 c.Name,
		Email:                c.Email,
		Phone:                c.Phone,
		Address:              c.Address,
		Active:               c.Active,
		TotalPurchases:       c.TotalPurchases,
		TotalPurchasedAmount: c.TotalPurchasedAmount,
		CreatedAt:            c.CreatedAt,
	}
}

// GoodsReceiptFromEntity arma la respuesta de una recepción.
func GoodsReceiptFromEntity(gr *entity.GoodsReceipt) GoodsReceiptResponse {
	out := GoodsReceiptResponse{
		ID:              gr.ID,
		Number:          gr.Number,
		PurchaseOrderID: gr.PurchaseOrderID,
		SupplierID:      gr.SupplierID,
		DeliveryNote:    gr.DeliveryNote,
		Notes:           gr.Notes,
		UserID:          gr.UserID,
		ReceivedAt:      gr.ReceivedAt,
	}
	for _, l := range gr.Lines {
		out.Lines = append(out.Lines, GoodsReceiptLineResponse{
			ID:         l.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitCost,
			Lot:        l.Lot,
			ExpiryDate: DatePtr(l.ExpiryDate),
		})
	}
	return out
}

// PurchaseOrderFromEntity arma la respuesta de una orden con cantidades pendientes.
func PurchaseOrderFromEntity(po *entity.PurchaseOrder) PurchaseOrderResponse {
	out := PurchaseOrderResponse{
		ID:             po.ID,
		Number:         po.Number,
		SupplierID:     po.SupplierID,
		OrderDate:      NewDate(po.OrderDate),
		ExpectedDate:   NewDate(po.ExpectedDate),
		Status:         po.Status,
		EstimatedTotal: po.EstimatedTotal,
		Notes:          po.Notes,
		UserID:         po.UserID,
	}
	for i := range po.Lines {
		l := &po.Lines[i]
		out.Lines = append(out.Lines, PurchaseOrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			PendingQty:  l.PendingQty(),
			IsComplete:  l.IsComplete(),
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return out
}

// PurchaseInvoiceFromEntity arma la respuesta con el estado efectivo y los días al vencimiento.
func PurchaseInvoiceFromEntity(p *entity.PurchaseInvoice, today time.Time) PurchaseInvoiceResponse {
	out := PurchaseInvoiceResponse{
		ID:              p.ID,
		Number:          p.Number,
		SupplierID:      p.SupplierID,
		PurchaseOrderID: p.PurchaseOrderID,
		IssueDate:       NewDate(p.IssueDate),
		DueDate:         DatePtr(p.DueDate),
		Type:            p.Type,
		Status:          p.EffectiveStatus(today),
		Subtotal:        p.Subtotal,
		Discount:        p.Discount,
		Tax:             p.Tax,
		Total:           p.Total,
		Stamp:           p.Stamp,
		PaymentTerms:    p.PaymentTerms,
		Notes:           p.Notes,
		AttachmentURL:   p.AttachmentURL,
		IsOverdue:       p.IsOverdue(today),
		DaysToDue:       p.DaysToDue(today),
		ReceivedAt:      p.ReceivedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, PurchaseInvoiceLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
			Lot:         l.Lot,
			LotExpiry:   DatePtr(l.LotExpiry),
		})
	}
	return out
}

// SupplierFromEntity arma la respuesta de un proveedor.
func SupplierFromEntity(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Contact:   s.Contact,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

// ProductSupplierFromEntity arma la respuesta de una relación producto-proveedor.
func ProductSupplierFromEntity(ps *entity.ProductSupplier) ProductSupplierResponse {
	return ProductSupplierResponse{
		ID:            ps.ID,
		ProductID:     ps.ProductID,
		SupplierID:    ps.SupplierID,
		PurchasePrice: ps.PurchasePrice,
		IsPrimary:     ps.IsPrimary,
		LeadTimeDays:  ps.LeadTimeDays,
		Active:        ps.Active,
		CreatedAt:     ps.CreatedAt,
	}
}
