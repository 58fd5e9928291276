package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidPrice           = errors.New("precio inválido")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrStorageUnavailable     = errors.New("almacenamiento de archivos no disponible")
	ErrDatabaseUnavailable    = errors.New("base de datos no disponible")
)

// ValidationError dato mal formado o faltante. Field identifica el campo (ej: "lines[2].quantity").
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError cantidad solicitada mayor al stock disponible de un producto.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("Stock insuficiente para '%s'. Disponible: %d, Solicitado: %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidPriceError precio unitario resuelto menor o igual a cero.
type InvalidPriceError struct {
	ProductID   string
	ProductName string
	Price       decimal.Decimal
}

func (e *InvalidPriceError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("Precio inválido para '%s': %s", name, e.Price.String())
}

func (e *InvalidPriceError) Unwrap() error { return ErrInvalidPrice }

// DuplicateKeyError violación de una clave única (código de producto, número de factura, etc.).
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("ya existe un registro con ese %s", e.Field)
	}
	return fmt.Sprintf("ya existe un registro con %s %s", e.Field, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicate }

// NotFoundError referencia a un recurso inexistente.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFound construye un NotFoundError.
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " no encontrado"
	}
	return fmt.Sprintf("%s %s no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidStateTransitionError cambio de estado no permitido (ej: pagar una factura ya pagada).
type InvalidStateTransitionError struct {
	Resource string
	From     string
	To       string
	Reason   string
}

func (e *InvalidStateTransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: no se puede pasar de %s a %s", e.Resource, e.From, e.To)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrInvalidStateTransition }
