package entity

import "time"

// DefaultCategoryName categoría asignada cuando el producto no trae ninguna.
const DefaultCategoryName = "SIN CATEGORÍA"

// Category agrupa productos. El nombre es único.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Subcategory pertenece a una categoría; (Name, CategoryID) es único.
type Subcategory struct {
	ID         string
	Name       string
	CategoryID string
	CreatedAt  time.Time
}
