package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (autocompletado de facturación).
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	phone PhoneNormalizer
	now   func() time.Time
}

// NewCustomerUseCase construye el caso de uso. phone puede ser nil (teléfonos sin normalizar).
func NewCustomerUseCase(repo repository.CustomerRepository, phone PhoneNormalizer) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, phone: phone, now: time.Now}
}

// Create crea un cliente. Un documento ya registrado devuelve *domain.DuplicateKeyError.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureDocumentFree(ctx, c.DocumentNumber, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	c.ID = uuid.New().String()
	c.TotalPurchasedAmount = decimal.Zero
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.CustomerFromEntity(c)
	return &out, nil
}

// CreateFromInvoice registra como cliente los datos cargados en una factura.
// Exige documento y lo rechaza si ya existe un cliente con ese número.
func (uc *CustomerUseCase) CreateFromInvoice(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.DocumentNumber) == "" {
		return nil, domain.NewValidationError("document_number", "El número de documento es obligatorio")
	}
	return uc.Create(ctx, in)
}

// Get cliente por id.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.CustomerFromEntity(c)
	return &out, nil
}

// ByDocument busca un cliente por número de documento. No encontrarlo no es un error.
func (uc *CustomerUseCase) ByDocument(ctx context.Context, document string) (*dto.CustomerLookupResponse, error) {
	document = strings.TrimSpace(document)
	if document == "" {
		return nil, domain.NewValidationError("document", "El número de documento es obligatorio")
	}
	c, err := uc.repo.GetByDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &dto.CustomerLookupResponse{Found: false}, nil
	}
	resp := dto.CustomerFromEntity(c)
	return &dto.CustomerLookupResponse{Found: true, Customer: &resp}, nil
}

// List clientes filtrados por nombre o documento.
func (uc *CustomerUseCase) List(ctx context.Context, search string, onlyActive bool) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx, search, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerFromEntity(c))
	}
	return out, nil
}

// Dropdown clientes activos para selects.
func (uc *CustomerUseCase) Dropdown(ctx context.Context) ([]dto.DropdownItem, error) {
	list, err := uc.repo.List(ctx, "", true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DropdownItem, 0, len(list))
	for _, c := range list {
		name := c.Name
		if c.DocumentNumber != nil && *c.DocumentNumber != "" {
			name += " (" + *c.DocumentNumber + ")"
		}
		out = append(out, dto.DropdownItem{ID: c.ID, Name: name})
	}
	return out, nil
}

// Update reemplaza los datos de contacto y documento. Los contadores de compras no cambian.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	current, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureDocumentFree(ctx, next.DocumentNumber, id); err != nil {
		return nil, err
	}
	current.DocumentType = next.DocumentType
	current.DocumentNumber = next.DocumentNumber
	current.Name = next.Name
	current.Email = next.Email
	current.Phone = next.Phone
	current.Address = next.Address
	if in.Active != nil {
		current.Active = *in.Active
	}
	current.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	out := dto.CustomerFromEntity(current)
	return &out, nil
}

// Delete elimina un cliente. Las facturas conservan su copia de los datos.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) load(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound("cliente", id)
	}
	return c, nil
}

func (uc *CustomerUseCase) ensureDocumentFree(ctx context.Context, document *string, selfID string) error {
	if document == nil {
		return nil
	}
	existing, err := uc.repo.GetByDocument(ctx, *document)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return &domain.DuplicateKeyError{Field: "document_number", Value: *document}
	}
	return nil
}

// fromRequest valida el documento y normaliza el teléfono.
func (uc *CustomerUseCase) fromRequest(in dto.CustomerRequest) (*entity.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "El nombre es obligatorio")
	}
	docType := strings.ToLower(strings.TrimSpace(in.DocumentType))
	if docType == "" {
		docType = entity.DocumentTypeNone
	}
	if !entity.IsValidDocumentType(docType) {
		return nil, domain.NewValidationError("document_type", "Tipo de documento inválido")
	}
	var docNumber *string
	if n := strings.TrimSpace(in.DocumentNumber); n != "" {
		docNumber = &n
	}
	switch docType {
	case entity.DocumentTypeRUC:
		if docNumber == nil || !strings.Contains(*docNumber, "-") {
			return nil, domain.NewValidationError("document_number", "El RUC debe contener guión (ej: 80012345-6)")
		}
	case entity.DocumentTypeCedula:
		if docNumber == nil {
			return nil, domain.NewValidationError("document_number", "La cédula es obligatoria")
		}
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && uc.phone != nil {
		if e164, ok := uc.phone.Normalize(phone); ok {
			phone = e164
		}
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &entity.Customer{
		DocumentType:   docType,
		DocumentNumber: docNumber,
		Name:           name,
		Email:          strings.TrimSpace(in.Email),
		Phone:          phone,
		Address:        strings.TrimSpace(in.Address),
		Active:         active,
	}, nil
}
