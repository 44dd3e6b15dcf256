package main

import (
	"time"

	"vendor-service/internal/handler"
	"vendor-service/internal/middleware"
	"vendor-service/internal/performance"
	"vendor-service/pkg/config"
	"vendor-service/pkg/database"
	"vendor-service/pkg/jwtutil"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting vendor service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Initialize the performance engine
	performance.Initialize(database.GetDB(), &cfg.Performance)
	log.Info("Performance engine initialized",
		zap.String("fulfillment_basis", cfg.Performance.FulfillmentBasis))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Process request
			err := next(c)

			// Log request details
			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Float64("duration_s", time.Since(start).Seconds()),
				zap.String("ip", c.RealIP()),
			)

			return err
		}
	})

	// Routes
	// Public routes that don't require authentication
	e.GET("/", handler.Hello)
	e.GET("/health", handler.Hello)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Token issuance and registration are the only unauthenticated API routes
	e.POST("/api/token/", handler.Token)
	e.POST("/api/register/", handler.Register)

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Vendor endpoints
	vendors := api.Group("/vendors")
	vendors.POST("/", handler.CreateVendor)
	vendors.GET("/", handler.ListVendors)
	vendors.GET("/:id/", handler.GetVendor)
	vendors.PUT("/:id/", handler.UpdateVendor)
	vendors.DELETE("/:id/", handler.DeleteVendor)
	vendors.GET("/:id/performance/", handler.GetVendorPerformance)
	vendors.POST("/:id/performance/snapshot/", handler.SnapshotVendorPerformance)
	vendors.GET("/:id/performance/history/", handler.ListVendorPerformanceHistory)

	// Purchase order endpoints
	orders := api.Group("/purchase_orders")
	orders.POST("/", handler.CreatePurchaseOrder)
	orders.GET("/", handler.ListPurchaseOrders)
	orders.GET("/:id/", handler.GetPurchaseOrder)
	orders.PUT("/:id/", handler.UpdatePurchaseOrder)
	orders.DELETE("/:id/", handler.DeletePurchaseOrder)
	orders.POST("/:id/acknowledge/", handler.AcknowledgePurchaseOrder)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
