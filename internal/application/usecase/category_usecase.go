package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// CategoryUseCase categorías y subcategorías de productos.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, now: time.Now}
}

// Create alta de categoría; el nombre se guarda en mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := domaininv.NormalizeCategoryName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: uc.now()}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// Get categoría por id.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// List todas las categorías por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *categoryResponse(c))
	}
	return out, nil
}

// Dropdown categorías para selects.
func (uc *CategoryUseCase) Dropdown(ctx context.Context) ([]dto.DropdownItem, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DropdownItem, 0, len(list))
	for _, c := range list {
		out = append(out, dto.DropdownItem{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Update renombra la categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name := domaininv.NormalizeCategoryName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	c.Name = name
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return categoryResponse(c), nil
}

// Delete elimina la categoría. Con productos asociados devuelve domain.ErrConflict.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// CreateSubcategory alta de subcategoría dentro de una categoría existente.
func (uc *CategoryUseCase) CreateSubcategory(ctx context.Context, in dto.SubcategoryRequest) (*dto.SubcategoryResponse, error) {
	if _, err := uc.load(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	name := domaininv.NormalizeCategoryName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	s := &entity.Subcategory{ID: uuid.New().String(), Name: name, CategoryID: in.CategoryID, CreatedAt: uc.now()}
	if err := uc.repo.CreateSubcategory(ctx, s); err != nil {
		return nil, err
	}
	return subcategoryResponse(s), nil
}

// ListSubcategories subcategorías, opcionalmente de una sola categoría.
func (uc *CategoryUseCase) ListSubcategories(ctx context.Context, categoryID string) ([]dto.SubcategoryResponse, error) {
	list, err := uc.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubcategoryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *subcategoryResponse(s))
	}
	return out, nil
}

// UpdateSubcategory renombra o mueve la subcategoría.
func (uc *CategoryUseCase) UpdateSubcategory(ctx context.Context, id string, in dto.SubcategoryRequest) (*dto.SubcategoryResponse, error) {
	s, err := uc.repo.GetSubcategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFound("subcategoría", id)
	}
	if _, err := uc.load(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	name := domaininv.NormalizeCategoryName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	s.Name = name
	s.CategoryID = in.CategoryID
	if err := uc.repo.UpdateSubcategory(ctx, s); err != nil {
		return nil, err
	}
	return subcategoryResponse(s), nil
}

// DeleteSubcategory elimina una subcategoría.
func (uc *CategoryUseCase) DeleteSubcategory(ctx context.Context, id string) error {
	return uc.repo.DeleteSubcategory(ctx, id)
}

func (uc *CategoryUseCase) load(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound("categoría", id)
	}
	return c, nil
}

func categoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func subcategoryResponse(s *entity.Subcategory) *dto.SubcategoryResponse {
	return &dto.SubcategoryResponse{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, CreatedAt: s.CreatedAt}
}
