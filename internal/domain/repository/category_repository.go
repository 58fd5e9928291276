package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para categorías y subcategorías.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByName búsqueda sin distinguir mayúsculas.
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, s *entity.Subcategory) error
	GetSubcategoryByID(ctx context.Context, id string) (*entity.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]*entity.Subcategory, error)
	UpdateSubcategory(ctx context.Context, s *entity.Subcategory) error
	DeleteSubcategory(ctx context.Context, id string) error
}
