package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de identidad (Paraguay).
const (
	DocumentTypeNone   = "none"
	DocumentTypeCedula = "cedula"
	DocumentTypeRUC    = "ruc"
)

// IsValidDocumentType indica si t es un tipo de documento conocido.
func IsValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeNone, DocumentTypeCedula, DocumentTypeRUC:
		return true
	}
	return false
}

// Customer cliente recurrente; sus datos autocompletan la facturación.
type Customer struct {
	ID                   string
	DocumentType         string
	DocumentNumber       *string
	Name                 string
	Email                string
	Phone                string
	Address              string
	Active               bool
	TotalPurchases       int
	TotalPurchasedAmount decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
