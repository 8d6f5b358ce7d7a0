package main

import (
	"context"
	"log"
	"time"

	"storefront-console/internal/core/cache"
	"storefront-console/internal/core/config"
	"storefront-console/internal/core/logger"
	"storefront-console/internal/core/server"
	catalogadapter "storefront-console/internal/features/catalog/adapters"
	cataloghandler "storefront-console/internal/features/catalog/handler"
	catalogservice "storefront-console/internal/features/catalog/service"
	orderadapter "storefront-console/internal/features/orders/adapters"
	orderhandler "storefront-console/internal/features/orders/handler"
	orderservice "storefront-console/internal/features/orders/service"
	revenuehandler "storefront-console/internal/features/revenue/handler"
	revenueservice "storefront-console/internal/features/revenue/service"

	"go.uber.org/zap"
)

// @title Storefront Console API
// @version 1.0
// @description Seller storefront console: order status management, catalog and revenue reporting.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Cache is optional: a missing Redis only disables report caching.
	var reportCache cache.Cache
	if redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL); err != nil {
		l.Warn("Redis unavailable, revenue reports will not be cached", zap.Error(err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			l.Warn("Redis unreachable, revenue reports will not be cached", zap.Error(err))
		} else {
			reportCache = redisCache
			defer redisCache.Close()
		}
	}

	// Initialize the Order Store adapter and run a Health Check
	orderStore := orderadapter.NewOrderStoreAdapter(cfg.OrderStore, cfg.ClientTimeout())
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ClientTimeout())
		defer cancel()
		if err := orderStore.HealthCheck(ctx); err != nil {
			l.Fatal("Order Store Health Check Failed", zap.Error(err))
		}
	}
	l.Info("Order store connection verified")

	// Initialize Order Service & Handler
	orderService := orderservice.NewOrderService(orderStore)
	orderHandler := orderhandler.NewOrderHandler(orderService)

	// Initialize Catalog adapters, Service & Handler
	catalogStore := catalogadapter.NewCatalogStoreAdapter(cfg.CatalogStore, cfg.ClientTimeout())
	assetHost := catalogadapter.NewAssetHostAdapter(cfg.AssetHost, cfg.ClientTimeout())
	catalogService := catalogservice.NewCatalogService(catalogStore, assetHost)
	catalogHandler := cataloghandler.NewCatalogHandler(catalogService)

	// Initialize Revenue Service & Handler
	revenueService := revenueservice.NewRevenueService(orderStore, reportCache, cfg.Redis.ReportTTL())
	revenueHandler := revenuehandler.NewRevenueHandler(revenueService)

	// A status change makes the seller's cached revenue figures stale.
	orderHandler.OnStatusChanged(revenueService.Invalidate)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/sellers/:sellerID/orders", orderHandler.ListOrders)
	srv.App.Put("/sellers/:sellerID/orders/:orderID/status", orderHandler.ChangeStatus)
	srv.App.Get("/sellers/:sellerID/products", catalogHandler.ListProducts)
	srv.App.Post("/sellers/:sellerID/products", catalogHandler.CreateProduct)
	srv.App.Put("/sellers/:sellerID/products/:productID", catalogHandler.UpdateProduct)
	srv.App.Delete("/sellers/:sellerID/products/:productID", catalogHandler.DeleteProduct)
	srv.App.Get("/sellers/:sellerID/revenue", revenueHandler.GetOverview)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
