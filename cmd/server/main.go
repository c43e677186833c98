package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"wearhouse/internal/auth"
	"wearhouse/internal/cache"
	"wearhouse/internal/config"
	"wearhouse/internal/db"
	"wearhouse/internal/handler"
	"wearhouse/internal/model"
	"wearhouse/internal/repository"
	"wearhouse/internal/router"
	"wearhouse/internal/service"
)

// @title Wearhouse Back-Office API
// @version 1.0
// @description Catalog, order ledger and admin API for the Wearhouse store.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	taxRate, err := decimal.NewFromString(cfg.TaxRatePercent)
	if err != nil {
		log.Fatalf("invalid TAX_RATE_PERCENT %q: %v", cfg.TaxRatePercent, err)
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.StoreTimeout)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, cacheClient, cfg.PageSize, cfg.StoreTimeout)
	orderService := service.NewOrderService(orderRepo, productRepo, taxRate, cfg.StoreTimeout)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	productHandler := handler.NewProductHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	configHandler := handler.NewConfigHandler(cfg.PayPalClientID)

	// Register routes
	router.Register(
		e,
		jwtService,
		authHandler,
		userHandler,
		productHandler,
		categoryHandler,
		orderHandler,
		configHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
