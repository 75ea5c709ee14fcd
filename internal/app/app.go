package app

import (
	"inventory/config"
	"inventory/internal/database"
	"inventory/internal/events"
	"inventory/internal/handlers/middleware"
	"inventory/internal/logger"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/websockets"
	"time"

	batchController "inventory/internal/controllers/batch"
	catalogController "inventory/internal/controllers/catalog"
	testController "inventory/internal/controllers/test"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService       *services.TransactionService
	SequenceLockService      *services.SequenceLockService
	CacheInvalidationService *services.CacheInvalidationService

	// Repositories
	UserRepo            repositories.UserRepository
	SKURepo             repositories.SKURepository
	SpecTemplateRepo    repositories.SpecTemplateRepository
	BatchRepo           repositories.BatchRepository
	BarcodeRepo         repositories.BarcodeRepository
	TestTemplateRepo    repositories.TestTemplateRepository
	TechnicalOutputRepo repositories.TechnicalOutputRepository
	TestRepo            repositories.TestRepository

	// Controllers
	BatchController   *batchController.BatchController
	TestController    *testController.TestController
	CatalogController *catalogController.CatalogController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Build(db, config)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}
	return app, nil
}

// Build wires every component on top of an open database.
func Build(db database.DB, config config.Config) (*App, error) {
	log := logger.New("app").Function("Build")

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	sequenceLockService := services.NewSequenceLockService(
		db.Cache.Locks,
		time.Duration(config.SequenceLockTTLSeconds)*time.Second,
	)
	cacheInvalidationService := services.NewCacheInvalidationService(db.Cache.Catalog, eventBus)

	// Initialize repositories
	userRepo := repositories.New(db)
	skuRepo := repositories.NewSKU(db)
	specTemplateRepo := repositories.NewSpecTemplate(db)
	batchRepo := repositories.NewBatch(db)
	barcodeRepo := repositories.NewBarcode(db)
	testTemplateRepo := repositories.NewTestTemplate(db)
	technicalOutputRepo := repositories.NewTechnicalOutput(db)
	testRepo := repositories.NewTest(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, eventBus, config, userRepo)
	batchController := batchController.New(
		skuRepo,
		specTemplateRepo,
		batchRepo,
		barcodeRepo,
		transactionService,
		sequenceLockService,
		eventBus,
	)
	testController := testController.New(
		skuRepo,
		batchRepo,
		barcodeRepo,
		testTemplateRepo,
		technicalOutputRepo,
		testRepo,
		transactionService,
		eventBus,
	)
	catalogController := catalogController.New(
		skuRepo,
		specTemplateRepo,
		testTemplateRepo,
		technicalOutputRepo,
		transactionService,
		cacheInvalidationService,
	)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		_ = eventBus.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:                 db,
		Config:                   config,
		Middleware:               middleware,
		TransactionService:       transactionService,
		SequenceLockService:      sequenceLockService,
		CacheInvalidationService: cacheInvalidationService,
		UserRepo:                 userRepo,
		SKURepo:                  skuRepo,
		SpecTemplateRepo:         specTemplateRepo,
		BatchRepo:                batchRepo,
		BarcodeRepo:              barcodeRepo,
		TestTemplateRepo:         testTemplateRepo,
		TechnicalOutputRepo:      technicalOutputRepo,
		TestRepo:                 testRepo,
		BatchController:          batchController,
		TestController:           testController,
		CatalogController:        catalogController,
		Websocket:                websocket,
		EventBus:                 eventBus,
	}

	if err := app.validate(); err != nil {
		_ = eventBus.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.SequenceLockService,
		a.CacheInvalidationService,
		a.BatchController,
		a.TestController,
		a.CatalogController,
		a.UserRepo,
		a.SKURepo,
		a.SpecTemplateRepo,
		a.BatchRepo,
		a.BarcodeRepo,
		a.TestTemplateRepo,
		a.TechnicalOutputRepo,
		a.TestRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
