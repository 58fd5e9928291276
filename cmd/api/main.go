package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jhoicas/ferreteria-api/docs"
	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/cache"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/ferreteria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/ferreteria-api/internal/interfaces/http"
	"github.com/jhoicas/ferreteria-api/pkg/config"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
	"github.com/jhoicas/ferreteria-api/pkg/phone"
)

// @title           Ferretería API
// @version         1.0
// @description     Inventario, compras y facturación de una ferretería.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin él la caché es nula y el refresco del tablero no se coordina entre instancias.
	var (
		appCache    ports.Cache
		locker      ports.Locker
		cachePinger httpRouter.Pinger
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		redisCache := cache.NewRedisCache(rdb)
		appCache = redisCache
		cachePinger = redisCache
		locker = cache.NewRedisLocker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado")
	}

	var fileStorage ports.FileStorage
	if cfg.Storage.Enabled() {
		minioStorage, err := storage.NewMinioStorage(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MinIO")
		}
		fileStorage = minioStorage
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("adjuntos habilitados")
	}

	txRunner := postgres.NewTxRunner(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewGoodsReceiptRepository(pool)
	purchaseInvoiceRepo := postgres.NewPurchaseInvoiceRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	exporter := export.NewExcelExporter()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.StoreInfo{
		Name:    cfg.Billing.StoreName,
		TaxID:   cfg.Billing.StoreTaxID,
		Address: cfg.Billing.StoreAddress,
		Phone:   cfg.Billing.StorePhone,
	})
	phoneNormalizer := phone.NewNormalizer(cfg.Billing.PhoneRegion)

	ledger := inventory.NewLedger()
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, ledger, movementRepo)
	receiptUC := inventory.NewReceiptUseCase(txRunner, ledger, receiptRepo, appCache, log, cfg.Billing.Markup)
	replenishmentUC := inventory.NewReplenishmentUseCase(ledger, productRepo, supplierRepo, exporter)

	productUC := usecase.NewProductUseCase(txRunner, productRepo, ledger, appCache, log, cfg.Billing.Markup, cfg.Dashboard.DropdownTTL)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(txRunner, supplierRepo)

	customerUC := billing.NewCustomerUseCase(customerRepo, phoneNormalizer)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, ledger, appCache, log, cfg.Billing.TaxRate)
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(invoiceRepo, productRepo, categoryRepo, pdfGenerator)

	orderUC := purchasing.NewOrderUseCase(txRunner, orderRepo, log)
	purchaseInvoiceUC := purchasing.NewInvoiceUseCase(txRunner, purchaseInvoiceRepo, fileStorage, exporter, appCache, log)

	dashboardUC := appanalytics.NewDashboardUseCase(
		analyticsRepo, invoiceRepo, productRepo, purchaseInvoiceRepo,
		appCache, locker, log, cfg.Dashboard.CacheTTL,
	)
	if cfg.Dashboard.RefreshInterval > 0 {
		go dashboardUC.RunRefresher(ctx, cfg.Dashboard.RefreshInterval)
	}

	app := httpRouter.NewServer(httpRouter.RouterDeps{
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		SupplierUC:       supplierUC,
		RegisterMovement: registerMovementUC,
		Receipts:         receiptUC,
		Replenishment:    replenishmentUC,
		CustomerUC:       customerUC,
		CreateInvoice:    createInvoiceUC,
		InvoiceQuery:     invoiceQueryUC,
		PurchaseOrders:   orderUC,
		PurchaseInvoices: purchaseInvoiceUC,
		DashboardUC:      dashboardUC,
		JWTSecret:        cfg.JWT.Secret,
		AppName:          cfg.App.Name,
		Log:              log,
		DB:               pool,
		Cache:            cachePinger,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		BodyLimitMB:      cfg.HTTP.BodyLimitMB,
		DocsFile:         "./docs/swagger.json",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
