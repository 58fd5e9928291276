package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías y subcategorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return mapWriteError("insert category", "nombre", c.Name, err)
	}
	return nil
}

func (r *CategoryRepo) getOne(ctx context.Context, where string, arg any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM categories WHERE `+where, arg).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByName compara sin distinguir mayúsculas (usa el índice único upper(name)).
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `upper(name) = upper($1)`, name)
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return mapWriteError("update category", "nombre", c.Name, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("categoría", c.ID)
	}
	return nil
}

// Delete falla con ErrConflict si hay productos en la categoría.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete category", "id", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("categoría", id)
	}
	return nil
}

// ── Subcategorías ────────────────────────────────────────────────────────────

func (r *CategoryRepo) CreateSubcategory(ctx context.Context, s *entity.Subcategory) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO subcategories (id, category_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.CategoryID, s.Name, s.CreatedAt)
	if err != nil {
		return mapWriteError("insert subcategory", "nombre", s.Name, err)
	}
	return nil
}

func (r *CategoryRepo) GetSubcategoryByID(ctx context.Context, id string) (*entity.Subcategory, error) {
	var s entity.Subcategory
	err := r.q.QueryRow(ctx, `SELECT id, category_id, name, created_at FROM subcategories WHERE id = $1`, id).
		Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return &s, nil
}

// ListSubcategories lista todas, o solo las de categoryID si no es vacío.
func (r *CategoryRepo) ListSubcategories(ctx context.Context, categoryID string) ([]*entity.Subcategory, error) {
	const q = `
		SELECT id, category_id, name, created_at FROM subcategories
		WHERE ($1 = '' OR category_id::text = $1)
		ORDER BY name`
	rows, err := r.q.Query(ctx, q, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Subcategory
	for rows.Next() {
		var s entity.Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) UpdateSubcategory(ctx context.Context, s *entity.Subcategory) error {
	cmd, err := r.q.Exec(ctx, `UPDATE subcategories SET name = $2, category_id = $3 WHERE id = $1`,
		s.ID, s.Name, s.CategoryID)
	if err != nil {
		return mapWriteError("update subcategory", "nombre", s.Name, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("subcategoría", s.ID)
	}
	return nil
}

func (r *CategoryRepo) DeleteSubcategory(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete subcategory", "id", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("subcategoría", id)
	}
	return nil
}
