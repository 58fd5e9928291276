package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// seriesTables tabla cuyos números inicializan cada serie la primera vez.
var seriesTables = map[string]string{
	entity.SeriesInvoice:       "invoices",
	entity.SeriesPurchaseOrder: "purchase_orders",
	entity.SeriesGoodsReceipt:  "goods_receipts",
}

// CounterRepo numeración correlativa sobre la tabla document_counters.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Debe usarse con una tx para que el bloqueo tenga efecto.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Next incrementa la serie y devuelve el nuevo valor. La fila queda bloqueada hasta el fin de la
// transacción. Si la serie no existe se inicializa con el mayor sufijo numérico ya emitido.
func (r *CounterRepo) Next(ctx context.Context, series string) (int64, error) {
	table, ok := seriesTables[series]
	if !ok {
		return 0, fmt.Errorf("serie desconocida %q", series)
	}
	q := `
		INSERT INTO document_counters (series, last_value)
		VALUES ($1, (
			SELECT COALESCE(MAX(CAST(substring(number FROM '-([0-9]+)$') AS BIGINT)), 0) + 1
			FROM ` + table + ` WHERE number LIKE $1 || '-%'
		))
		ON CONFLICT (series) DO UPDATE SET last_value = document_counters.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, q, series).Scan(&n); err != nil {
		return 0, fmt.Errorf("next %s number: %w", series, err)
	}
	return n, nil
}
