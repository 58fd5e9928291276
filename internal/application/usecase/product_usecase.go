package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	domaininv "github.com/jhoicas/ferreteria-api/internal/domain/inventory"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo de productos. El stock solo cambia por movimientos:
// el alta registra el stock inicial como entrada y la modificación nunca lo toca.
type ProductUseCase struct {
	txRunner    repository.TxRunner
	repo        repository.ProductRepository
	ledger      *inventory.Ledger
	cache       ports.Cache
	log         *logger.Logger
	markup      decimal.Decimal
	dropdownTTL time.Duration
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. markup cero usa el 30% por defecto.
func NewProductUseCase(
	txRunner repository.TxRunner,
	repo repository.ProductRepository,
	ledger *inventory.Ledger,
	cache ports.Cache,
	log *logger.Logger,
	markup decimal.Decimal,
	dropdownTTL time.Duration,
) *ProductUseCase {
	if cache == nil {
		cache = ports.NoopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if dropdownTTL <= 0 {
		dropdownTTL = 5 * time.Minute
	}
	return &ProductUseCase{
		txRunner:    txRunner,
		repo:        repo,
		ledger:      ledger,
		cache:       cache,
		log:         log,
		markup:      markup,
		dropdownTTL: dropdownTTL,
		now:         time.Now,
	}
}

// Create da de alta un producto. Sin precio se calcula como costo × markup (2 decimales).
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	if in.Cost.IsNegative() {
		return nil, domain.NewValidationError("cost", "El costo no puede ser negativo")
	}
	if in.MinStock < 0 {
		return nil, domain.NewValidationError("min_stock", "El stock mínimo no puede ser negativo")
	}
	if in.InitialStock < 0 {
		return nil, domain.NewValidationError("initial_stock", "El stock inicial no puede ser negativo")
	}
	price := domaininv.MarkupPrice(in.Cost, uc.markup)
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError("price", "El precio no puede ser negativo")
		}
		price = *in.Price
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	now := uc.now()
	p := &entity.Product{
		ID:                uuid.New().String(),
		Code:              trimCode(in.Code),
		Name:              name,
		Description:       in.Description,
		CompatibleModels:  in.CompatibleModels,
		Location:          in.Location,
		SubcategoryID:     in.SubcategoryID,
		Brand:             strings.TrimSpace(in.Brand),
		UnitMeasure:       defaultUnit(in.UnitMeasure),
		MinStock:          in.MinStock,
		Cost:              in.Cost,
		Price:             price,
		PrimarySupplierID: in.PrimarySupplierID,
		Active:            active,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.create(ctx, userID, p, in.CategoryID, in.CategoryName, in.InitialStock); err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// QuickCreate alta rápida con nombre, categoría en texto y costo; el precio se redondea a entero.
func (uc *ProductUseCase) QuickCreate(ctx context.Context, userID string, in dto.QuickProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	if in.Cost.IsNegative() {
		return nil, domain.NewValidationError("cost", "El costo no puede ser negativo")
	}
	if in.MinStock < 0 || in.InitialStock < 0 {
		return nil, domain.NewValidationError("min_stock", "Las cantidades no pueden ser negativas")
	}
	now := uc.now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Code:        trimCode(in.Code),
		Name:        name,
		Brand:       strings.TrimSpace(in.Brand),
		UnitMeasure: defaultUnit(""),
		MinStock:    in.MinStock,
		Cost:        in.Cost,
		Price:       domaininv.QuickPrice(in.Cost, uc.markup),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.create(ctx, userID, p, "", in.CategoryName, in.InitialStock); err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

func (uc *ProductUseCase) create(ctx context.Context, userID string, p *entity.Product, categoryID, categoryName string, initialStock int) error {
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if p.Code != nil {
			existing, err := tx.Products().GetByCode(ctx, *p.Code)
			if err != nil {
				return err
			}
			if existing != nil {
				return &domain.DuplicateKeyError{Field: "code", Value: *p.Code}
			}
		}
		catID, err := resolveCategory(ctx, tx.Categories(), categoryID, categoryName, uc.now())
		if err != nil {
			return err
		}
		p.CategoryID = catID
		if err := checkSubcategory(ctx, tx.Categories(), p.SubcategoryID, catID); err != nil {
			return err
		}
		if err := tx.Products().Create(ctx, p); err != nil {
			return err
		}
		if initialStock > 0 {
			_, stock, err := uc.ledger.RecordMovement(ctx, tx, inventory.MovementInput{
				ProductID:     p.ID,
				Type:          entity.MovementTypeIn,
				Quantity:      initialStock,
				Description:   "Stock inicial",
				UserID:        optionalUser(userID),
				ReferenceType: entity.ReferenceInitialStock,
				ReferenceID:   p.ID,
			})
			if err != nil {
				return err
			}
			p.Stock = stock
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product", p.ID).Str("name", p.Name).Int("stock", p.Stock).Msg("producto creado")
	uc.invalidate(ctx)
	return nil
}

// Get producto por id.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// List productos con búsqueda por nombre, código, marca o modelos compatibles.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	params := repository.ListParams{Limit: q.Limit, Offset: q.Offset}.Normalize()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		OnlyActive: q.OnlyActive,
		ListParams: params,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductFromEntity(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: params.Limit, Offset: params.Offset},
	}, nil
}

// Update modifica los datos del producto. Un cambio de costo sin precio explícito recalcula el precio.
// El stock no se modifica por aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var p *entity.Product
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if p, err = tx.Products().GetForUpdate(ctx, id); err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFound("producto", id)
		}
		if in.Code != nil {
			code := trimCode(in.Code)
			if code != nil {
				existing, err := tx.Products().GetByCode(ctx, *code)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != p.ID {
					return &domain.DuplicateKeyError{Field: "code", Value: *code}
				}
			}
			p.Code = code
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "El nombre es obligatorio")
			}
			p.Name = name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.CompatibleModels != nil {
			p.CompatibleModels = *in.CompatibleModels
		}
		if in.Location != nil {
			p.Location = *in.Location
		}
		if in.Brand != nil {
			p.Brand = strings.TrimSpace(*in.Brand)
		}
		if in.UnitMeasure != nil {
			p.UnitMeasure = defaultUnit(*in.UnitMeasure)
		}
		if in.MinStock != nil {
			if *in.MinStock < 0 {
				return domain.NewValidationError("min_stock", "El stock mínimo no puede ser negativo")
			}
			p.MinStock = *in.MinStock
		}
		if in.PrimarySupplierID != nil {
			p.PrimarySupplierID = in.PrimarySupplierID
			if *in.PrimarySupplierID == "" {
				p.PrimarySupplierID = nil
			}
		}
		if in.Active != nil {
			p.Active = *in.Active
		}
		if in.CategoryID != nil || in.CategoryName != nil {
			catID, catName := "", ""
			if in.CategoryID != nil {
				catID = *in.CategoryID
			}
			if in.CategoryName != nil {
				catName = *in.CategoryName
			}
			if p.CategoryID, err = resolveCategory(ctx, tx.Categories(), catID, catName, uc.now()); err != nil {
				return err
			}
		}
		if in.SubcategoryID != nil {
			p.SubcategoryID = in.SubcategoryID
			if *in.SubcategoryID == "" {
				p.SubcategoryID = nil
			}
		}
		if err := checkSubcategory(ctx, tx.Categories(), p.SubcategoryID, p.CategoryID); err != nil {
			return err
		}
		if in.Cost != nil {
			if in.Cost.IsNegative() {
				return domain.NewValidationError("cost", "El costo no puede ser negativo")
			}
			if !in.Cost.Equal(p.Cost) && in.Price == nil {
				p.Price = domaininv.MarkupPrice(*in.Cost, uc.markup)
			}
			p.Cost = *in.Cost
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return domain.NewValidationError("price", "El precio no puede ser negativo")
			}
			p.Price = *in.Price
		}
		p.UpdatedAt = uc.now()
		return tx.Products().Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	out := dto.ProductFromEntity(p)
	return &out, nil
}

// Delete elimina un producto. Si figura en alguna factura devuelve domain.ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Dropdown productos activos para selects, servidos desde caché cuando está disponible.
func (uc *ProductUseCase) Dropdown(ctx context.Context) ([]dto.ProductDropdownItem, error) {
	var cached []dto.ProductDropdownItem
	found, err := uc.cache.Get(ctx, ports.CacheKeyProductDropdown, &cached)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de productos no disponible")
	}
	if found {
		return cached, nil
	}
	rows, err := uc.repo.Dropdown(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductDropdownItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductDropdownItem{
			ID:    r.ID,
			Code:  r.Code,
			Name:  r.Name,
			Cost:  r.Cost,
			Price: r.Price,
			Stock: r.Stock,
		})
	}
	if err := uc.cache.Set(ctx, ports.CacheKeyProductDropdown, out, uc.dropdownTTL); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar el dropdown de productos en caché")
	}
	return out, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	return p, nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, ports.CacheKeyProductDropdown, ports.CacheKeyDashboardSummary); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de productos y tablero")
	}
}

// resolveCategory devuelve el id de la categoría: la indicada por id, la que coincide con name
// (sin distinguir mayúsculas ni acentos) o una nueva creada en mayúsculas. Sin datos usa SIN CATEGORÍA.
func resolveCategory(ctx context.Context, repo repository.CategoryRepository, id, name string, now time.Time) (string, error) {
	if id != "" {
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if c == nil {
			return "", domain.NewNotFound("categoría", id)
		}
		return c.ID, nil
	}
	name = domaininv.NormalizeCategoryName(name)
	if name == "" {
		name = entity.DefaultCategoryName
	}
	c, err := repo.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}
	all, err := repo.List(ctx)
	if err != nil {
		return "", err
	}
	key := domaininv.CategoryKey(name)
	for _, existing := range all {
		if domaininv.CategoryKey(existing.Name) == key {
			return existing.ID, nil
		}
	}
	c = &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now}
	if err := repo.Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

func checkSubcategory(ctx context.Context, repo repository.CategoryRepository, subcategoryID *string, categoryID string) error {
	if subcategoryID == nil {
		return nil
	}
	s, err := repo.GetSubcategoryByID(ctx, *subcategoryID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("subcategoría", *subcategoryID)
	}
	if s.CategoryID != categoryID {
		return domain.NewValidationError("subcategory_id", "La subcategoría no pertenece a la categoría del producto")
	}
	return nil
}

func trimCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.TrimSpace(*code)
	if c == "" {
		return nil
	}
	return &c
}

func defaultUnit(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return "unidad"
	}
	return u
}

func optionalUser(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
