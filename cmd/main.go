package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"stocksense/internal/caching"
	"stocksense/internal/handlers"
	"stocksense/internal/jobs"
	"stocksense/internal/jobs/background"
	"stocksense/internal/middleware"
	"stocksense/internal/models"
	"stocksense/internal/repositories"
	"stocksense/internal/services"
	"stocksense/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; sessions will not survive a restart")
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	if googleClientID == "" {
		log.Fatal("GOOGLE_CLIENT_ID environment variable is required")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storage, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	stockLogRepo := repositories.NewStockLogRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Google signing keys refresh in the background for the process lifetime
	googleKeys, err := services.NewGoogleJWKS(context.Background())
	if err != nil {
		log.Fatalf("Failed to fetch Google signing keys: %v", err)
	}
	defer googleKeys.EndBackground()

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, googleKeys, googleClientID, jwtSecret)
	productSvc := services.NewProductService(productRepo, storage, cacheSvc)
	reportSvc := services.NewReportService(orderRepo, productRepo)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	productHandlers := handlers.NewProductHandlers(productSvc)
	orderHandlers := handlers.NewOrderHandlers(orderRepo)
	stockLogHandlers := handlers.NewStockLogHandlers(stockLogRepo)
	reportHandlers := handlers.NewReportHandlers(reportSvc, appEnv)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	// Background jobs
	alertSvc := jobs.NewExpiryAlertService(productRepo)
	scheduler := background.NewJobScheduler(alertSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Echo setup
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.CORS())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(middleware.VersionHeader("v1"))

	// Authentication routes (no session required for login)
	auth := v1.Group("/auth")
	auth.POST("/google", authHandlers.LoginWithGoogle)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.SessionConfig(jwtSecret)))
	protected.Use(middleware.SessionContext(cacheSvc))

	protected.GET("/me", authHandlers.Me)
	protected.POST("/auth/logout", authHandlers.Logout)

	// Product routes
	protected.GET("/products", productHandlers.ListProducts)
	protected.POST("/products", productHandlers.CreateProduct)
	protected.GET("/products/:id", productHandlers.GetProduct)
	protected.PUT("/products/:id", productHandlers.UpdateProduct)
	protected.DELETE("/products/:id", productHandlers.DeleteProduct)
	protected.POST("/products/:id/image", productHandlers.UploadProductImage)
	protected.GET("/products/:id/image-url", productHandlers.GetProductImageURL)

	// Order routes
	protected.GET("/orders", orderHandlers.ListOrders)
	protected.POST("/orders", orderHandlers.CreateOrder)
	protected.GET("/orders/:id", orderHandlers.GetOrder)
	protected.DELETE("/orders/:id", orderHandlers.DeleteOrder)

	// Stock log routes
	protected.GET("/stock-logs", stockLogHandlers.ListStockLogs)
	protected.POST("/stock-logs", stockLogHandlers.CreateStockLog)
	protected.GET("/stock-logs/:id", stockLogHandlers.GetStockLog)
	protected.DELETE("/stock-logs/:id",
		stockLogHandlers.DeleteStockLog,
		middleware.RequireRole(models.RoleAdmin, models.RoleManager))

	// Report routes
	protected.GET("/reports/sales", reportHandlers.GenerateSalesReport)
	protected.GET("/reports/analysis", reportHandlers.GetSalesAnalysis)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("StockSense server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server")
	if err := e.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
