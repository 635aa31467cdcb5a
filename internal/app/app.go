package app

import (
	collateralsvc "invoicevault-backend/internal/application/collateral"
	invoicesvc "invoicevault-backend/internal/application/invoices"
	purchasesvc "invoicevault-backend/internal/application/purchases"
	redemptionsvc "invoicevault-backend/internal/application/redemptions"
	"invoicevault-backend/internal/assets"
	"invoicevault-backend/internal/config"
	"invoicevault-backend/internal/database"
	"invoicevault-backend/internal/events"
	"invoicevault-backend/internal/guard"
	collateralh "invoicevault-backend/internal/interfaces/handlers/collateral"
	eventsh "invoicevault-backend/internal/interfaces/handlers/events"
	healthh "invoicevault-backend/internal/interfaces/handlers/health"
	invoicesh "invoicevault-backend/internal/interfaces/handlers/invoices"
	tokensh "invoicevault-backend/internal/interfaces/handlers/tokens"
	"invoicevault-backend/internal/middleware"
	"invoicevault-backend/internal/payouts"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app and its dependencies from config.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	return Build(db, rdb, publisher), db, rdb, nil
}

// Build assembles the Fiber app from already-constructed dependencies. Tests
// call it directly with an in-memory DB and miniredis.
func Build(db *gorm.DB, rdb *redis.Client, publisher events.Publisher) *fiber.App {
	// One guard serializes all public mutating operations. With Redis
	// configured the lock also covers multiple replicas.
	var g guard.Guard
	if rdb != nil {
		g = guard.NewRedis(rdb)
	} else {
		g = guard.NewLocal()
	}
	registry := assets.GormRegistry{}
	transfers := payouts.LedgerTransferer{}

	collateralService := &collateralsvc.Service{DB: db, Guard: g, Transfers: transfers, Publisher: publisher}
	invoiceService := &invoicesvc.Service{DB: db, Guard: g, Registry: registry, Publisher: publisher}
	purchaseService := &purchasesvc.Service{DB: db, Guard: g, Registry: registry, Transfers: transfers, Publisher: publisher}
	redemptionService := &redemptionsvc.Service{DB: db, Guard: g, Registry: registry, Transfers: transfers, Publisher: publisher}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	healthHandlers := &healthh.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	collateralHandlers := &collateralh.Handlers{Service: collateralService}
	invoiceHandlers := &invoicesh.Handlers{
		Invoices:    invoiceService,
		Purchases:   purchaseService,
		Redemptions: redemptionService,
	}
	tokenHandlers := &tokensh.Handlers{DB: db, Registry: registry}
	eventHandlers := &eventsh.Handlers{DB: db}

	api := app.Group("/api/v1")

	// Public reads.
	api.Get("/collateral/locked/:wallet", collateralHandlers.Locked)
	api.Get("/companies/:wallet", collateralHandlers.Account)
	api.Get("/invoices/:id", invoiceHandlers.Get)
	api.Get("/tokens/:id", tokenHandlers.OwnerOf)
	api.Get("/events", eventHandlers.List)

	// Mutating operations require a caller identity.
	authed := api.Group("", middleware.RequireWallet())
	authed.Post("/collateral/deposit", collateralHandlers.Deposit)
	authed.Post("/collateral/withdraw", collateralHandlers.Withdraw)
	authed.Get("/invoices", invoiceHandlers.ListMine)
	authed.Post("/invoices", invoiceHandlers.Create)
	authed.Post("/invoices/:id/purchase", invoiceHandlers.Purchase)
	authed.Post("/invoices/:id/redeem", invoiceHandlers.Redeem)

	return app
}
