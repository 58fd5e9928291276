// Package analytics contiene el tablero del back office: ventas del día y del mes,
// productos más vendidos, stock bajo mínimo y cuentas a pagar.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

const (
	dashboardTopProducts = 5  // productos en el widget del tablero
	dashboardLowStock    = 10 // primeros productos bajo mínimo que se listan
	refresherLockKey     = "ferreteria:lock:dashboard-refresh"
)

// DashboardUseCase arma el resumen del tablero. El resultado se guarda en caché por un TTL corto
// y un refrescador en segundo plano lo recalcula periódicamente.
type DashboardUseCase struct {
	analytics        repository.AnalyticsRepository
	invoices         repository.InvoiceRepository
	products         repository.ProductRepository
	purchaseInvoices repository.PurchaseInvoiceRepository
	cache            ports.Cache
	locker           ports.Locker
	log              *logger.Logger
	ttl              time.Duration
	now              func() time.Time
}

// NewDashboardUseCase construye el caso de uso. ttl <= 0 usa 60 segundos.
func NewDashboardUseCase(
	analytics repository.AnalyticsRepository,
	invoices repository.InvoiceRepository,
	products repository.ProductRepository,
	purchaseInvoices repository.PurchaseInvoiceRepository,
	cache ports.Cache,
	locker ports.Locker,
	log *logger.Logger,
	ttl time.Duration,
) *DashboardUseCase {
	if cache == nil {
		cache = ports.NoopCache{}
	}
	if locker == nil {
		locker = ports.LocalLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardUseCase{
		analytics:        analytics,
		invoices:         invoices,
		products:         products,
		purchaseInvoices: purchaseInvoices,
		cache:            cache,
		locker:           locker,
		log:              log,
		ttl:              ttl,
		now:              time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary devuelve el resumen desde caché o, si no está, lo calcula y lo guarda.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var cached dto.DashboardSummaryDTO
	found, err := uc.cache.Get(ctx, ports.CacheKeyDashboardSummary, &cached)
	if err != nil {
		uc.log.Warn().Err(err).Msg("dashboard: caché no disponible")
	}
	if found {
		return &cached, nil
	}
	return uc.Refresh(ctx)
}

// Refresh recalcula el resumen y lo deja en caché.
func (uc *DashboardUseCase) Refresh(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	summary, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, ports.CacheKeyDashboardSummary, summary, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("dashboard: no se pudo guardar en caché")
	}
	return summary, nil
}

// RunRefresher recalcula el resumen cada interval hasta que ctx se cancele.
// En cada vuelta solo trabaja la instancia que obtiene el candado.
func (uc *DashboardUseCase) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.refreshLocked(ctx, interval)
		}
	}
}

func (uc *DashboardUseCase) refreshLocked(ctx context.Context, interval time.Duration) {
	lock, ok, err := uc.locker.TryLock(ctx, refresherLockKey, interval)
	if err != nil {
		uc.log.Warn().Err(err).Msg("dashboard: no se pudo obtener el candado")
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Debug().Err(err).Msg("dashboard: liberar candado")
		}
	}()
	if _, err := uc.Refresh(ctx); err != nil {
		uc.log.Error().Err(err).Msg("dashboard: refresco fallido")
	}
}

// compute lanza las consultas en paralelo:
//  1. GetSalesMetrics(hoy) y SalesBetween(hoy) → ventas, margen y cantidad de facturas del día
//  2. GetSalesMetrics(mes)                    → ventas y margen del mes
//  3. GetTopProducts(mes, top 5)
//  4. BelowMinimum                            → stock bajo
//  5. Stats de facturas de compra              → cuentas a pagar
func (uc *DashboardUseCase) compute(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		revenue decimal.Decimal
		cost    decimal.Decimal
		err     error
	}
	type countResult struct {
		count int
		err   error
	}
	type topResult struct {
		rows []repository.TopProductResult
		err  error
	}
	type lowStockResult struct {
		products []*entity.Product
		err      error
	}
	type payablesResult struct {
		stats *repository.PurchaseInvoiceStats
		err   error
	}

	todayCh := make(chan metricsResult, 1)
	countCh := make(chan countResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	lowCh := make(chan lowStockResult, 1)
	payCh := make(chan payablesResult, 1)

	go func() {
		rev, cost, err := uc.analytics.GetSalesMetrics(ctx, todayStart, todayEnd)
		todayCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		n, _, err := uc.invoices.SalesBetween(ctx, todayStart, todayEnd)
		countCh <- countResult{n, err}
	}()
	go func() {
		rev, cost, err := uc.analytics.GetSalesMetrics(ctx, monthStart, todayEnd)
		monthCh <- metricsResult{rev, cost, err}
	}()
	go func() {
		rows, err := uc.analytics.GetTopProducts(ctx, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		list, err := uc.products.BelowMinimum(ctx)
		lowCh <- lowStockResult{list, err}
	}()
	go func() {
		s, err := uc.purchaseInvoices.Stats(ctx, now)
		payCh <- payablesResult{s, err}
	}()

	today := <-todayCh
	count := <-countCh
	month := <-monthCh
	top := <-topCh
	low := <-lowCh
	pay := <-payCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("dashboard: facturas de hoy: %w", count.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: productos más vendidos: %w", top.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if pay.err != nil {
		return nil, fmt.Errorf("dashboard: cuentas a pagar: %w", pay.err)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, r := range top.rows {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID:        r.ProductID,
			Code:             r.Code,
			ProductName:      r.ProductName,
			QuantitySold:     r.QuantitySold,
			TotalRevenue:     r.TotalRevenue.Round(2),
			MarginPercentage: marginPercentage(r.TotalRevenue, r.TotalCost),
		})
	}

	lowItems := make([]dto.LowStockItem, 0, dashboardLowStock)
	for i, p := range low.products {
		if i == dashboardLowStock {
			break
		}
		lowItems = append(lowItems, dto.LowStockFromEntity(p))
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:    today.revenue.Round(2),
		TodayMargin:   today.revenue.Sub(today.cost).Round(2),
		TodayInvoices: count.count,
		MonthlySales:  month.revenue.Round(2),
		MonthlyMargin: month.revenue.Sub(month.cost).Round(2),
		TopProducts:   topProducts,
		LowStockCount: len(low.products),
		LowStockItems: lowItems,
		Payables: dto.PayablesDTO{
			OverdueCount:  pay.stats.Overdue,
			OverdueAmount: pay.stats.OverdueAmount,
			DueSoonCount:  pay.stats.DueSoon,
			DueSoonAmount: pay.stats.DueSoonAmount,
			PendingAmount: pay.stats.PendingAmount,
		},
		DateLabel:   monthLabel(now),
		GeneratedAt: now,
	}, nil
}

// marginPercentage (ingreso - costo) / ingreso × 100 con 2 decimales; cero sin ingresos.
func marginPercentage(revenue, cost decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
