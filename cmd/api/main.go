package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"restopos/internal/application/service"
	"restopos/internal/config"
	"restopos/internal/infrastructure/database"
	"restopos/internal/infrastructure/repository"
	"restopos/internal/presentation/http/handler"
	"restopos/internal/presentation/http/routes"
	"restopos/pkg/invoice"
	"restopos/pkg/printer"
	"restopos/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Connect to database (primary profile, local fallback)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	if err := database.SeedDefaultData(db); err != nil {
		logrus.WithError(err).Warn("failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	mealTypeRepo := repository.NewMealTypeRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)

	// Initialize print backends
	spooler := printer.NewSpooler()
	exporter := printer.NewExporter()
	device, err := printer.NewPrinterFromConfig(
		spooler,
		cfg.Printer.Type,
		cfg.Printer.QueueName,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		logrus.WithError(err).Warn("failed to initialize printer, falling back to none")
		device = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	catalogService := service.NewCatalogService(productRepo, mealTypeRepo, menuRepo)
	pricingService := service.NewPricingService(promotionRepo, productRepo)
	printerService := service.NewPrinterService(spooler, exporter, device, invoice.NewRenderer(), cfg)
	orderService := service.NewOrderService(pricingService, printerService, cfg)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Promotion: handler.NewPromotionHandler(pricingService),
		Order:     handler.NewOrderHandler(orderService),
		Printer:   handler.NewPrinterHandler(printerService, orderService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logrus.WithFields(logrus.Fields{
		"port": port,
		"env":  cfg.App.Env,
	}).Infof("starting %s server", cfg.App.Name)

	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
