package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// SupplierUseCase proveedores y su relación con productos.
type SupplierUseCase struct {
	txRunner repository.TxRunner
	repo     repository.SupplierRepository
	now      func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(txRunner repository.TxRunner, repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create alta de proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s := &entity.Supplier{ID: uuid.New().String(), Active: true, CreatedAt: uc.now()}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(s)
	return &out, nil
}

// Get proveedor por id.
func (uc *SupplierUseCase) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(s)
	return &out, nil
}

// List proveedores filtrados por nombre o RUC.
func (uc *SupplierUseCase) List(ctx context.Context, search string, onlyActive bool) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupplierFromEntity(s))
	}
	return out, nil
}

// Dropdown proveedores activos con su RUC.
func (uc *SupplierUseCase) Dropdown(ctx context.Context) ([]dto.SupplierDropdownItem, error) {
	list, err := uc.repo.List(ctx, "", true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierDropdownItem, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupplierDropdownItem{ID: s.ID, Name: s.Name, TaxID: s.TaxID})
	}
	return out, nil
}

// Update modifica los datos del proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(s)
	return &out, nil
}

// Delete elimina el proveedor. Con órdenes o facturas asociadas devuelve domain.ErrConflict.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// CreateProductSupplier vincula un producto con un proveedor. Si la relación es principal,
// las demás del producto dejan de serlo y el producto apunta a este proveedor.
func (uc *SupplierUseCase) CreateProductSupplier(ctx context.Context, in dto.ProductSupplierRequest) (*dto.ProductSupplierResponse, error) {
	if in.PurchasePrice.IsNegative() {
		return nil, domain.NewValidationError("purchase_price", "El precio de compra no puede ser negativo")
	}
	ps := &entity.ProductSupplier{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		SupplierID:    in.SupplierID,
		PurchasePrice: in.PurchasePrice,
		IsPrimary:     in.IsPrimary,
		LeadTimeDays:  in.LeadTimeDays,
		Active:        true,
		CreatedAt:     uc.now(),
	}
	if in.Active != nil {
		ps.Active = *in.Active
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := checkLinkTargets(ctx, tx, ps.ProductID, ps.SupplierID); err != nil {
			return err
		}
		if err := tx.Suppliers().CreateProductSupplier(ctx, ps); err != nil {
			return err
		}
		return syncPrimary(ctx, tx, ps)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ProductSupplierFromEntity(ps)
	return &out, nil
}

// ListProductSuppliers relaciones filtradas por producto y/o proveedor.
func (uc *SupplierUseCase) ListProductSuppliers(ctx context.Context, productID, supplierID string) ([]dto.ProductSupplierResponse, error) {
	list, err := uc.repo.ListProductSuppliers(ctx, productID, supplierID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSupplierResponse, 0, len(list))
	for _, ps := range list {
		out = append(out, dto.ProductSupplierFromEntity(ps))
	}
	return out, nil
}

// UpdateProductSupplier modifica precio, plazo, estado o marca de principal.
func (uc *SupplierUseCase) UpdateProductSupplier(ctx context.Context, id string, in dto.ProductSupplierRequest) (*dto.ProductSupplierResponse, error) {
	if in.PurchasePrice.IsNegative() {
		return nil, domain.NewValidationError("purchase_price", "El precio de compra no puede ser negativo")
	}
	var ps *entity.ProductSupplier
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if ps, err = tx.Suppliers().GetProductSupplier(ctx, id); err != nil {
			return err
		}
		if ps == nil {
			return domain.NewNotFound("relación producto-proveedor", id)
		}
		if err := checkLinkTargets(ctx, tx, in.ProductID, in.SupplierID); err != nil {
			return err
		}
		ps.ProductID = in.ProductID
		ps.SupplierID = in.SupplierID
		ps.PurchasePrice = in.PurchasePrice
		ps.IsPrimary = in.IsPrimary
		ps.LeadTimeDays = in.LeadTimeDays
		if in.Active != nil {
			ps.Active = *in.Active
		}
		if err := tx.Suppliers().UpdateProductSupplier(ctx, ps); err != nil {
			return err
		}
		return syncPrimary(ctx, tx, ps)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ProductSupplierFromEntity(ps)
	return &out, nil
}

// DeleteProductSupplier elimina la relación.
func (uc *SupplierUseCase) DeleteProductSupplier(ctx context.Context, id string) error {
	return uc.repo.DeleteProductSupplier(ctx, id)
}

func (uc *SupplierUseCase) load(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NewNotFound("proveedor", id)
	}
	return s, nil
}

func checkLinkTargets(ctx context.Context, tx repository.Tx, productID, supplierID string) error {
	p, err := tx.Products().GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFound("producto", productID)
	}
	s, err := tx.Suppliers().GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("proveedor", supplierID)
	}
	return nil
}

// syncPrimary deja una sola relación principal por producto y la refleja en el producto.
func syncPrimary(ctx context.Context, tx repository.Tx, ps *entity.ProductSupplier) error {
	if !ps.IsPrimary {
		return nil
	}
	if err := tx.Suppliers().ClearPrimary(ctx, ps.ProductID, ps.ID); err != nil {
		return err
	}
	p, err := tx.Products().GetForUpdate(ctx, ps.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFound("producto", ps.ProductID)
	}
	supplierID := ps.SupplierID
	p.PrimarySupplierID = &supplierID
	return tx.Products().Update(ctx, p)
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.NewValidationError("name", "El nombre es obligatorio")
	}
	s.Name = name
	s.TaxID = strings.TrimSpace(in.TaxID)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
	s.Address = strings.TrimSpace(in.Address)
	s.Contact = strings.TrimSpace(in.Contact)
	if in.Active != nil {
		s.Active = *in.Active
	}
	return nil
}
