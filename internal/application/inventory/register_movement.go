package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// RegisterMovementUseCase ajustes manuales de stock y consulta del historial de movimientos.
type RegisterMovementUseCase struct {
	txRunner  repository.TxRunner
	ledger    *Ledger
	movements repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner repository.TxRunner,
	ledger *Ledger,
	movements repository.StockMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		movements: movements,
	}
}

// RegisterMovement registra un movimiento manual (entrada o salida) en su propia transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	var (
		mov   *entity.StockMovement
		stock int
	)
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		mov, stock, err = uc.ledger.RecordMovement(ctx, tx, MovementInput{
			ProductID:     in.ProductID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			Description:   in.Description,
			UserID:        optionalUser(userID),
			ReferenceType: entity.ReferenceManual,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := dto.MovementFromEntity(mov)
	out.StockAfter = &stock
	return &out, nil
}

// List historial de movimientos filtrado.
func (uc *RegisterMovementUseCase) List(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	f := repository.MovementFilter{
		ProductID:  q.ProductID,
		Type:       q.Type,
		UserID:     q.UserID,
		Search:     q.Search,
		OrderBy:    q.OrderBy,
		ListParams: repository.ListParams{Limit: q.Limit, Offset: q.Offset},
	}
	var err error
	if f.From, err = parseOptionalDate("from", q.From); err != nil {
		return nil, err
	}
	if f.To, err = parseOptionalDate("to", q.To); err != nil {
		return nil, err
	}
	if f.To != nil {
		// "to" es inclusivo: se consulta hasta el inicio del día siguiente.
		next := f.To.AddDate(0, 0, 1)
		f.To = &next
	}
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementFromEntity(m))
	}
	return out, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(s)
	if err != nil {
		return nil, domain.NewValidationError(field, err.Error())
	}
	return &d.Time, nil
}

func optionalUser(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}
