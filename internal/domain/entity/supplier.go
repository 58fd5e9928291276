package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier proveedor de mercadería.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string // RUC
	Phone     string
	Email     string
	Address   string
	Contact   string // persona de contacto
	Active    bool
	CreatedAt time.Time
}

// ProductSupplier relación producto-proveedor con el precio de compra pactado.
// (ProductID, SupplierID) es único y a lo sumo una relación por producto es principal.
type ProductSupplier struct {
	ID            string
	ProductID     string
	SupplierID    string
	PurchasePrice decimal.Decimal
	IsPrimary     bool
	LeadTimeDays  int
	Active        bool
	CreatedAt     time.Time
}
